// Package country maps free-text country names to ISO 3166-1 alpha-3 codes.
package country

import (
	"strings"

	"github.com/biter777/countries"
)

// Resolve maps a country name to its 3-letter code. Empty, blank, and
// unrecognized names resolve to not-ok; that is a normal outcome, never an
// error. Lookup is exact canonical-name matching (no fuzzy matching) and
// deterministic: a given name always yields the same code or always misses.
func Resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	c := countries.ByName(name)
	if c == countries.Unknown {
		return "", false
	}
	return c.Alpha3(), true
}
