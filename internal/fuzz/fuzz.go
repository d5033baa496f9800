// Package fuzz scores string similarity on an integer 0-100 scale.
//
// The four ratios differ in what they forgive. Ratio is a plain
// edit-distance measure over the raw strings. PartialRatio scores the best
// alignment of the shorter string against windows of the longer, so a
// string scores 100 against any string that contains it. TokenSortRatio
// compares the words of each string in sorted order, discounting word
// order. TokenSetRatio compares word sets, additionally discounting
// repeated words. The token ratios fold case and punctuation before
// comparing; Ratio and PartialRatio compare their inputs as given.
package fuzz

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Ratio scores the overall similarity of s1 and s2. 100 means equal, 0
// means no common runes. Two empty strings are equal.
func Ratio(s1, s2 string) int {
	return percent(blockRatio([]rune(s1), []rune(s2)))
}

// PartialRatio scores the best-matching window of the longer string
// against the whole of the shorter. Each matching block suggests one
// window: the stretch of the longer string that aligns the block with its
// position in the shorter.
func PartialRatio(s1, s2 string) int {
	shorter, longer := []rune(s1), []rune(s2)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0.0
	for _, m := range matchingBlocks(shorter, longer) {
		start := m.B - m.A
		if start < 0 {
			start = 0
		}
		end := start + len(shorter)
		if end > len(longer) {
			end = len(longer)
		}

		r := blockRatio(shorter, longer[start:end])
		if r > 0.995 {
			return 100
		}
		if r > best {
			best = r
		}
	}
	return percent(best)
}

// TokenSortRatio scores the two strings with their words sorted
// alphabetically after folding, so word order does not matter.
func TokenSortRatio(s1, s2 string) int {
	return Ratio(processAndSort(s1), processAndSort(s2))
}

// TokenSetRatio scores the two strings on their word sets after folding:
// the words they share are compared against each full set and the best
// pairing wins, so equal word sets score 100 regardless of order or
// repetition. A string with no words left after folding scores 0.
func TokenSetRatio(s1, s2 string) int {
	p1 := fold(s1)
	p2 := fold(s2)
	if p1 == "" || p2 == "" {
		return 0
	}

	set1 := wordSet(p1)
	set2 := wordSet(p2)

	var shared, only1, only2 []string
	for w := range set1 {
		if set2[w] {
			shared = append(shared, w)
		} else {
			only1 = append(only1, w)
		}
	}
	for w := range set2 {
		if !set1[w] {
			only2 = append(only2, w)
		}
	}
	sort.Strings(shared)
	sort.Strings(only1)
	sort.Strings(only2)

	sect := strings.Join(shared, " ")
	combined1 := strings.TrimSpace(sect + " " + strings.Join(only1, " "))
	combined2 := strings.TrimSpace(sect + " " + strings.Join(only2, " "))

	best := Ratio(sect, combined1)
	if r := Ratio(sect, combined2); r > best {
		best = r
	}
	if r := Ratio(combined1, combined2); r > best {
		best = r
	}
	return best
}

// fold lower-cases s and replaces every rune that is not a letter, digit
// or underscore with a space, then trims.
func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// processAndSort folds s and rejoins its words in sorted order.
func processAndSort(s string) string {
	words := strings.Fields(fold(s))
	sort.Strings(words)
	return strings.Join(words, " ")
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func percent(r float64) int {
	return int(math.Round(100 * r))
}
