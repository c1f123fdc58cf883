// Package model defines the canonical ESG record schema shared by the
// ingestion pipeline, the filter engine, and the export/serving layers.
package model

// Column names of the canonical schema, in their fixed order.
var (
	// RequiredColumns must all be present in a raw batch.
	RequiredColumns = []string{
		"company",
		"ticker",
		"sector",
		"region",
		"country",
		"year",
		"E",
		"S",
		"G",
		"ESG_total",
		"market_cap_usd",
	}

	// OptionalColumns are sub-pillar metrics tolerated when absent.
	OptionalColumns = []string{
		"E_emissions",
		"E_energy",
		"S_diversity",
		"G_board",
	}

	// DerivedColumns are computed by the pipeline, never supplied by a source.
	DerivedColumns = []string{
		"iso3",
		"rank_overall",
		"quartile",
	}
)

// ExportColumns returns the full ordered column set for serialized views:
// required, then optional, then derived.
func ExportColumns() []string {
	cols := make([]string, 0, len(RequiredColumns)+len(OptionalColumns)+len(DerivedColumns))
	cols = append(cols, RequiredColumns...)
	cols = append(cols, OptionalColumns...)
	cols = append(cols, DerivedColumns...)
	return cols
}

// AllowedSectors is the fixed 11-value GICS-style sector vocabulary.
var AllowedSectors = []string{
	"Communication Services",
	"Consumer Discretionary",
	"Consumer Staples",
	"Energy",
	"Financials",
	"Health Care",
	"Industrials",
	"Information Technology",
	"Materials",
	"Real Estate",
	"Utilities",
}

// Record is one company-year observation after normalization. Score and
// numeric fields are pointers so "missing" is representable without sentinel
// values; derived fields are zero until ComputeDerived runs.
type Record struct {
	Company string `json:"company"`
	Ticker  string `json:"ticker"`
	Sector  string `json:"sector"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Year    *int   `json:"year"`

	E            *float64 `json:"E"`
	S            *float64 `json:"S"`
	G            *float64 `json:"G"`
	ESGTotal     *float64 `json:"ESG_total"`
	MarketCapUSD *float64 `json:"market_cap_usd"` // billions

	EEmissions *float64 `json:"E_emissions,omitempty"`
	EEnergy    *float64 `json:"E_energy,omitempty"`
	SDiversity *float64 `json:"S_diversity,omitempty"`
	GBoard     *float64 `json:"G_board,omitempty"`

	// Derived by the pipeline.
	ISO3        string `json:"iso3,omitempty"`
	RankOverall int    `json:"rank_overall,omitempty"`
	Quartile    int    `json:"quartile,omitempty"`
}

// Complete reports whether every core numeric field is present.
func (r Record) Complete() bool {
	return r.E != nil && r.S != nil && r.G != nil && r.ESGTotal != nil && r.MarketCapUSD != nil
}

// Ptr returns a pointer to v. Convenience for building records in tests and
// the synthetic generator.
func Ptr[T any](v T) *T {
	return &v
}
