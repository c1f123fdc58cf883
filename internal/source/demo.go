package source

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/niveshke/esg-explorer/internal/dataset"
	"github.com/niveshke/esg-explorer/internal/model"
)

// demoRegions maps each region to its candidate countries.
var demoRegions = map[string][]string{
	"North America":        {"United States", "Canada", "Mexico"},
	"Europe":               {"United Kingdom", "Germany", "France", "Netherlands", "Sweden"},
	"Asia-Pacific":         {"Japan", "Australia", "China", "India", "Singapore"},
	"Latin America":        {"Brazil", "Argentina", "Chile"},
	"Middle East & Africa": {"South Africa", "United Arab Emirates", "Saudi Arabia"},
}

var demoRegionNames = []string{
	"North America",
	"Europe",
	"Asia-Pacific",
	"Latin America",
	"Middle East & Africa",
}

// sectorBase returns sector-biased pillar means; sectors without a bias use
// a neutral baseline.
func sectorBase(sector string) (e, s, g float64) {
	switch sector {
	case "Energy":
		return 40, 50, 55
	case "Information Technology":
		return 65, 60, 60
	case "Health Care":
		return 60, 65, 60
	case "Financials":
		return 50, 55, 50
	default:
		return 55, 55, 55
	}
}

// Generate produces a synthetic ESG batch of rows companies for one year:
// sector-biased gaussian pillar scores, correlated sub-scores, log-normal
// market caps, and ESG_total as the pillar mean. The seed makes output
// reproducible.
func Generate(rows, year int, seed uint64) *dataset.RawBatch {
	rng := rand.New(rand.NewPCG(seed, seed))

	out := make([][]string, 0, rows)
	for i := 0; i < rows; i++ {
		sector := model.AllowedSectors[rng.IntN(len(model.AllowedSectors))]
		region := demoRegionNames[rng.IntN(len(demoRegionNames))]
		countries := demoRegions[region]
		ctry := countries[rng.IntN(len(countries))]

		eBase, sBase, gBase := sectorBase(sector)
		e := clamp(rng.NormFloat64()*12+eBase, 0, 100)
		s := clamp(rng.NormFloat64()*12+sBase, 0, 100)
		g := clamp(rng.NormFloat64()*10+gBase, 0, 100)
		total := (e + s + g) / 3

		eEmissions := clamp(e+rng.NormFloat64()*5, 0, 100)
		eEnergy := clamp(e+rng.NormFloat64()*5, 0, 100)
		sDiversity := clamp(s+rng.NormFloat64()*5, 0, 100)
		gBoard := clamp(g+rng.NormFloat64()*5, 0, 100)

		// Market cap in billions, log-normal.
		marketCap := math.Exp(rng.NormFloat64()*1.2 + 1.5)

		firstWord := sector
		for j := 0; j < len(sector); j++ {
			if sector[j] == ' ' {
				firstWord = sector[:j]
				break
			}
		}

		out = append(out, []string{
			fmt.Sprintf("Company %d %s", i+1, firstWord),
			fmt.Sprintf("C%03d", i+1),
			sector,
			region,
			ctry,
			strconv.Itoa(year),
			round2(e),
			round2(s),
			round2(g),
			round2(total),
			round2(marketCap),
			round2(eEmissions),
			round2(eEnergy),
			round2(sDiversity),
			round2(gBoard),
		})
	}

	cols := make([]string, 0, len(model.RequiredColumns)+len(model.OptionalColumns))
	cols = append(cols, model.RequiredColumns...)
	cols = append(cols, model.OptionalColumns...)
	return &dataset.RawBatch{Columns: cols, Rows: out}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}
