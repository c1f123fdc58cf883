// Package filter narrows a canonical dataset along independent axes: time,
// sector, region, country, score ranges, market cap, completeness, and
// free-text company search. Every analytical view goes through the same
// engine so filtering behaves identically no matter who asks.
package filter

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range. A missing value never
// satisfies a range predicate.
func (r Range) Contains(v *float64) bool {
	return v != nil && *v >= r.Min && *v <= r.Max
}

// Spec is an immutable description of one view's active filter selections,
// constructed fresh per render and passed as a plain argument. Nil ranges
// and empty selection sets mean "no restriction" — mirroring controls that
// default to selecting everything — never "exclude everything".
type Spec struct {
	Years     []int    `json:"years,omitempty"`
	Sectors   []string `json:"sectors,omitempty"`
	Regions   []string `json:"regions,omitempty"`
	Countries []string `json:"countries,omitempty"`

	ERange     *Range `json:"e_range,omitempty"`
	SRange     *Range `json:"s_range,omitempty"`
	GRange     *Range `json:"g_range,omitempty"`
	TotalRange *Range `json:"esg_total_range,omitempty"`
	CapRange   *Range `json:"market_cap_range,omitempty"`

	RequireComplete bool `json:"require_complete,omitempty"`

	// CompanyQuery is a case-insensitive substring match on company name.
	CompanyQuery string `json:"company_query,omitempty"`
}
