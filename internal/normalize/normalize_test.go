package normalize

import "testing"

func TestStripASCII(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text unchanged", "Cafe Bloom", "Cafe Bloom"},
		{"accented letters dropped", "Café Bloom", "Caf Bloom"},
		{"em dash dropped", "north—south", "northsouth"},
		{"smiley dropped", "bar \U0001f37a", "bar "},
		{"tab and newline kept", "a\tb\nc", "a\tb\nc"},
		{"nul dropped", "a\x00b", "ab"},
		{"del dropped", "a\x7fb", "ab"},
		{"empty", "", ""},
		{"only non-ascii", "éèê", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripASCII(tt.input)
			if got != tt.want {
				t.Errorf("StripASCII(%q) = %q, want %q", tt.input, got, tt.want)
			}
			again := StripASCII(got)
			if again != got {
				t.Errorf("StripASCII(StripASCII(%q)) = %q, not idempotent", tt.input, again)
			}
		})
	}
}

func TestCoordString(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name  string
		input *float64
		want  string
	}{
		{"missing coordinate", nil, "0"},
		{"plain value", f(151.2052688), "151.2052688"},
		{"rounded to 8 places", f(151.205268812349), "151.20526881"},
		{"rounds up past half", f(0.123456786), "0.12345679"},
		{"negative value", f(-33.8678513), "-33.8678513"},
		{"integral value", f(100), "100"},
		{"zero", f(0), "0"},
		{"short decimal keeps digits", f(0.5), "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoordString(tt.input)
			if got != tt.want {
				t.Errorf("CoordString(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
