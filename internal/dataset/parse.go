package dataset

import (
	"math"
	"strconv"
	"strings"
)

// parseFloatPtr parses a string as a float64, returning nil if the string is
// empty or not numeric. Malformed values become missing, never an error.
// "NaN" parses but is not an observation; it coerces to missing too, so no
// NaN ever enters a record.
func parseFloatPtr(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

// parseIntPtr parses a string as an integer, returning nil if the string is
// empty or not numeric. Accepts float renderings of whole values ("2021.0")
// since upstream tooling often writes years that way.
func parseIntPtr(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v := int(f)
	if float64(v) != f {
		return nil
	}
	return &v
}

// clip bounds v to [lo, hi]. nil passes through.
func clip(v *float64, lo, hi float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	if c < lo {
		c = lo
	}
	if c > hi {
		c = hi
	}
	return &c
}

// formatFloat renders a float with minimal digits that round-trip exactly.
func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// formatInt renders an optional integer.
func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
