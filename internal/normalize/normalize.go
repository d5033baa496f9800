// Package normalize prepares record fields for comparison and reporting.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

// StripASCII removes every byte outside ordinals 1-126, which drops all
// multi-byte UTF-8 sequences as well as NUL and DEL. Stripping an already
// stripped string returns it unchanged.
func StripASCII(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] > 126 {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 1 && c <= 126 {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// CoordString renders one coordinate axis for output. Present values are
// rounded to 8 decimal places and formatted with the fewest digits that
// round-trip; an absent value renders as the literal "0".
func CoordString(v *float64) string {
	if v == nil {
		return "0"
	}
	r := math.Round(*v*1e8) / 1e8
	return strconv.FormatFloat(r, 'f', -1, 64)
}
