package dataset

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/niveshke/esg-explorer/internal/model"
)

// missingSentinel substitutes a missing ESG_total for quartile binning only.
// Scores live in [0,100], so it is always below the observed minimum.
const missingSentinel = -1.0

// ComputeDerived fills rank_overall and quartile in place from ESG_total.
//
// Rank is dataset-relative min-rank, descending: rank 1 is the highest
// score, tied scores share the rank of the first row in the tie group, and
// rows with a missing total rank after every present value (sharing the rank
// of the missing group).
//
// Quartile is equal-frequency binning into 4 buckets with missing totals
// substituted by the sentinel, so they land in the lowest-score bucket.
// Labels run ascending over the score: quartile 1 is the LOWEST-score
// bucket, quartile 4 the highest, while rank 1 is the highest score. The
// asymmetry is deliberate and pinned by tests.
func ComputeDerived(records []model.Record) {
	if len(records) == 0 {
		return
	}
	computeRanks(records)
	computeQuartiles(records)
}

func computeRanks(records []model.Record) {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	// Descending by total; missing sorts last. Order among missing rows is
	// unspecified but kept stable for determinism.
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := records[order[a]].ESGTotal, records[order[b]].ESGTotal
		switch {
		case ta == nil:
			return false
		case tb == nil:
			return true
		default:
			return *ta > *tb
		}
	})

	rank := 1
	for pos, ri := range order {
		if pos > 0 {
			prev := records[order[pos-1]].ESGTotal
			cur := records[ri].ESGTotal
			if !sameTotal(prev, cur) {
				rank = pos + 1
			}
		}
		records[ri].RankOverall = rank
	}
}

func sameTotal(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func computeQuartiles(records []model.Record) {
	filled := make(stats.Float64Data, len(records))
	for i, r := range records {
		if r.ESGTotal != nil {
			filled[i] = *r.ESGTotal
		} else {
			filled[i] = missingSentinel
		}
	}

	q1, err1 := stats.Percentile(filled, 25)
	q2, err2 := stats.Percentile(filled, 50)
	q3, err3 := stats.Percentile(filled, 75)
	if err1 != nil || err2 != nil || err3 != nil {
		// Degenerate input: for two- and three-row datasets the
		// 25th-percentile index falls below the first element, so the
		// breakpoints are undefined and every row collapses into the lowest
		// bucket. A single row takes the normal path instead (all three
		// breakpoints equal its value) and also lands in bucket 1.
		for i := range records {
			records[i].Quartile = 1
		}
		return
	}

	for i := range records {
		v := filled[i]
		switch {
		case v <= q1:
			records[i].Quartile = 1
		case v <= q2:
			records[i].Quartile = 2
		case v <= q3:
			records[i].Quartile = 3
		default:
			records[i].Quartile = 4
		}
	}
}
