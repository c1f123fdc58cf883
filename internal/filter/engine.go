package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/niveshke/esg-explorer/internal/model"
)

// predicate reports whether a record survives one filter axis.
type predicate func(model.Record) bool

// Apply narrows ds to the records matching every axis of spec and returns
// the result as a new view; the input dataset is never mutated. Predicates
// are AND-composed in a fixed order (year, sector, region, country, the four
// score ranges, market cap, completeness, company search) so evaluation is
// deterministic and cheap axes run first. A spec matching nothing yields an
// empty view, which callers must treat as a normal displayable state.
func Apply(ds *model.Dataset, spec Spec) *model.Dataset {
	if ds.Len() == 0 {
		return model.NewDataset(nil)
	}

	preds := buildPredicates(spec)

	var out []model.Record
	for _, r := range ds.Records() {
		keep := true
		for _, p := range preds {
			if !p(r) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return model.NewDataset(out)
}

// buildPredicates assembles the active predicates in evaluation order.
// Axes with no restriction contribute nothing.
func buildPredicates(spec Spec) []predicate {
	var preds []predicate

	if len(spec.Years) > 0 {
		years := intSet(spec.Years)
		preds = append(preds, func(r model.Record) bool {
			return r.Year != nil && years[*r.Year]
		})
	}
	if len(spec.Sectors) > 0 {
		preds = append(preds, memberOf(spec.Sectors, func(r model.Record) string { return r.Sector }))
	}
	if len(spec.Regions) > 0 {
		preds = append(preds, memberOf(spec.Regions, func(r model.Record) string { return r.Region }))
	}
	if len(spec.Countries) > 0 {
		preds = append(preds, memberOf(spec.Countries, func(r model.Record) string { return r.Country }))
	}

	if spec.ERange != nil {
		rg := *spec.ERange
		preds = append(preds, func(r model.Record) bool { return rg.Contains(r.E) })
	}
	if spec.SRange != nil {
		rg := *spec.SRange
		preds = append(preds, func(r model.Record) bool { return rg.Contains(r.S) })
	}
	if spec.GRange != nil {
		rg := *spec.GRange
		preds = append(preds, func(r model.Record) bool { return rg.Contains(r.G) })
	}
	if spec.TotalRange != nil {
		rg := *spec.TotalRange
		preds = append(preds, func(r model.Record) bool { return rg.Contains(r.ESGTotal) })
	}
	if spec.CapRange != nil {
		rg := *spec.CapRange
		preds = append(preds, func(r model.Record) bool { return rg.Contains(r.MarketCapUSD) })
	}

	if spec.RequireComplete {
		preds = append(preds, model.Record.Complete)
	}

	if q := strings.TrimSpace(spec.CompanyQuery); q != "" {
		fold := cases.Fold()
		folded := fold.String(q)
		preds = append(preds, func(r model.Record) bool {
			return strings.Contains(fold.String(r.Company), folded)
		})
	}

	return preds
}

func memberOf(values []string, field func(model.Record) string) predicate {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return func(r model.Record) bool {
		return set[field(r)]
	}
}

func intSet(values []int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
