package fuzz

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want int
	}{
		{"identical", "cafe bloom", "cafe bloom", 100},
		{"both empty", "", "", 100},
		{"one empty", "", "abc", 0},
		{"trailing punctuation", "this is a test", "this is a test!", 97},
		{"swapped words", "fuzzy wuzzy was a bear", "wuzzy fuzzy was a bear", 91},
		{"half match", "ab", "ac", 50},
		{"no common runes", "abcd", "wxyz", 0},
		{"case sensitive", "CAFE", "cafe", 0},
		{"multi-byte runes", "café", "café", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.s1, tt.s2); got != tt.want {
				t.Errorf("Ratio(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
			}
			if got := Ratio(tt.s2, tt.s1); got != tt.want {
				t.Errorf("Ratio(%q, %q) = %d, want %d", tt.s2, tt.s1, got, tt.want)
			}
		})
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want int
	}{
		{"substring", "this is a test", "this is a test!", 100},
		{"word inside", "bloom", "cafe bloom", 100},
		{"argument order ignored", "cafe bloom", "bloom", 100},
		{"shifted overlap", "abcd", "bcde", 75},
		{"single shared rune", "apple", "zebra", 33},
		{"empty shorter side", "", "cafe", 100},
		{"identical", "cafe bloom", "cafe bloom", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PartialRatio(tt.s1, tt.s2); got != tt.want {
				t.Errorf("PartialRatio(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func TestTokenSortRatio(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want int
	}{
		{"word order ignored", "fuzzy wuzzy was a bear", "wuzzy fuzzy was a bear", 100},
		{"case and punctuation folded", "great cafe bloom", "Cafe Bloom, GREAT!", 100},
		{"different last word", "new york mets", "new york yankees", 55},
		{"both empty", "", "", 100},
		{"one empty", "", "cafe", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenSortRatio(tt.s1, tt.s2); got != tt.want {
				t.Errorf("TokenSortRatio(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want int
	}{
		{"repeated word ignored", "fuzzy was a bear", "fuzzy fuzzy was a bear", 100},
		{"subset scores full", "cafe bloom", "cafe bloom west", 100},
		{"reversed words", "mary had a little lamb", "lamb little a had mary", 100},
		{"disjoint words", "alpha", "beta", 22},
		{"punctuation only", "!!!", "cafe bloom", 0},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenSetRatio(tt.s1, tt.s2); got != tt.want {
				t.Errorf("TokenSetRatio(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	samples := []string{
		"",
		" ",
		"a",
		"Cafe Bloom",
		"cafe bloom",
		"The Grand Old Hotel, Main St.",
		"grand hotel main street",
		"!!!",
		"café — bar",
		"north south east west north",
	}

	metrics := []struct {
		name string
		fn   func(string, string) int
	}{
		{"Ratio", Ratio},
		{"PartialRatio", PartialRatio},
		{"TokenSortRatio", TokenSortRatio},
		{"TokenSetRatio", TokenSetRatio},
	}

	for _, s1 := range samples {
		for _, s2 := range samples {
			for _, m := range metrics {
				got := m.fn(s1, s2)
				if got < 0 || got > 100 {
					t.Errorf("%s(%q, %q) = %d, out of [0,100]", m.name, s1, s2, got)
				}
			}
		}
	}
}

func TestIdenticalTextScoresFullEverywhere(t *testing.T) {
	for _, s := range []string{"cafe bloom", "the old mill bakery", "a b c"} {
		if got := Ratio(s, s); got != 100 {
			t.Errorf("Ratio(%q, %q) = %d, want 100", s, s, got)
		}
		if got := PartialRatio(s, s); got != 100 {
			t.Errorf("PartialRatio(%q, %q) = %d, want 100", s, s, got)
		}
		if got := TokenSortRatio(s, s); got != 100 {
			t.Errorf("TokenSortRatio(%q, %q) = %d, want 100", s, s, got)
		}
		if got := TokenSetRatio(s, s); got != 100 {
			t.Errorf("TokenSetRatio(%q, %q) = %d, want 100", s, s, got)
		}
	}
}

func BenchmarkRatio(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Ratio("the grand old hotel main street", "grand hotel on main street")
	}
}

func BenchmarkPartialRatio(b *testing.B) {
	for i := 0; i < b.N; i++ {
		PartialRatio("the grand old hotel main street", "grand hotel on main street")
	}
}

func BenchmarkTokenSetRatio(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TokenSetRatio("the grand old hotel main street", "grand hotel on main street")
	}
}
