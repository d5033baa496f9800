package source

import (
	"fmt"
	"strconv"
	"strings"
)

// metersPer maps a lower-cased unit token to its length in meters.
var metersPer = map[string]float64{
	"m":          1,
	"meter":      1,
	"meters":     1,
	"metre":      1,
	"metres":     1,
	"km":         1000,
	"kilometer":  1000,
	"kilometers": 1000,
	"kilometre":  1000,
	"kilometres": 1000,
	"ft":         0.3048,
	"foot":       0.3048,
	"feet":       0.3048,
	"yd":         0.9144,
	"yard":       0.9144,
	"yards":      0.9144,
	"mi":         1609.344,
	"mile":       1609.344,
	"miles":      1609.344,
}

// ParseDistance converts a search-radius string such as "3600 Meters" into
// meters. A bare number is taken as meters. The distance must not be
// negative.
func ParseDistance(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, fmt.Errorf("distance %q must be a number with an optional unit", s)
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("distance %q has no numeric value: %w", s, err)
	}

	factor := 1.0
	if len(fields) == 2 {
		f, ok := metersPer[strings.ToLower(fields[1])]
		if !ok {
			return 0, fmt.Errorf("unknown distance unit %q", fields[1])
		}
		factor = f
	}

	meters := value * factor
	if meters < 0 {
		return 0, fmt.Errorf("distance %q must not be negative", s)
	}
	return meters, nil
}
