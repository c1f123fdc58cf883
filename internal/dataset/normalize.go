package dataset

import (
	"strings"

	"github.com/niveshke/esg-explorer/internal/model"
)

// Normalize coerces a validated raw batch into typed records satisfying the
// canonical invariants: every score field is within [0,100] or missing,
// market cap and year are numeric or missing, and ESG_total falls back to
// the row-wise mean of present pillars when the source column is absent or
// entirely non-numeric. Normalize is total (malformed values become missing)
// and idempotent: re-normalizing its own CSV rendering yields identical
// records.
func Normalize(b *RawBatch) []model.Record {
	if b == nil || len(b.Rows) == 0 {
		return nil
	}
	idx := b.colIndex()

	// The fallback total applies batch-wide: only when the source column is
	// absent or no row carries a numeric value. A partially filled column
	// keeps its holes.
	useFallback := true
	if _, ok := idx["ESG_total"]; ok {
		for _, row := range b.Rows {
			if parseFloatPtr(get(row, idx, "ESG_total")) != nil {
				useFallback = false
				break
			}
		}
	}

	records := make([]model.Record, 0, len(b.Rows))
	for _, row := range b.Rows {
		// The fallback mean is taken over the coerced, pre-clip pillar
		// values; clipping applies to the resulting total afterwards.
		rawE := parseFloatPtr(get(row, idx, "E"))
		rawS := parseFloatPtr(get(row, idx, "S"))
		rawG := parseFloatPtr(get(row, idx, "G"))

		r := model.Record{
			Company: strings.TrimSpace(get(row, idx, "company")),
			Ticker:  strings.TrimSpace(get(row, idx, "ticker")),
			Sector:  strings.TrimSpace(get(row, idx, "sector")),
			Region:  strings.TrimSpace(get(row, idx, "region")),
			Country: strings.TrimSpace(get(row, idx, "country")),
			Year:    parseIntPtr(get(row, idx, "year")),

			E: clip(rawE, 0, 100),
			S: clip(rawS, 0, 100),
			G: clip(rawG, 0, 100),

			// Coerce-only: no lower-bound clip, negative values survive.
			MarketCapUSD: parseFloatPtr(get(row, idx, "market_cap_usd")),

			EEmissions: clip(parseFloatPtr(get(row, idx, "E_emissions")), 0, 100),
			EEnergy:    clip(parseFloatPtr(get(row, idx, "E_energy")), 0, 100),
			SDiversity: clip(parseFloatPtr(get(row, idx, "S_diversity")), 0, 100),
			GBoard:     clip(parseFloatPtr(get(row, idx, "G_board")), 0, 100),
		}

		if useFallback {
			r.ESGTotal = clip(pillarMean(rawE, rawS, rawG), 0, 100)
		} else {
			r.ESGTotal = clip(parseFloatPtr(get(row, idx, "ESG_total")), 0, 100)
		}

		records = append(records, r)
	}
	return records
}

// pillarMean averages the pillars that are present; all-missing yields nil.
func pillarMean(vals ...*float64) *float64 {
	var sum float64
	var n int
	for _, v := range vals {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}
