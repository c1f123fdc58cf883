package dataset

import (
	"go.uber.org/zap"

	"github.com/niveshke/esg-explorer/internal/model"
)

// ResolveFunc maps a free-text country name to a 3-letter code. The second
// return is false when the name does not resolve; that is a normal outcome.
type ResolveFunc func(name string) (string, bool)

// Pipeline assembles the full normalization chain:
// validate → normalize → resolve countries → compute derived metrics.
type Pipeline struct {
	Resolve ResolveFunc
}

// Build turns a raw batch into a canonical dataset. The only error is a
// *SchemaError from validation; every value-level problem downgrades to a
// missing field instead.
func (p Pipeline) Build(batch *RawBatch) (*model.Dataset, error) {
	if err := ValidateSchema(batch); err != nil {
		return nil, err
	}

	records := Normalize(batch)

	if p.Resolve != nil {
		var misses int
		for i := range records {
			if iso3, ok := p.Resolve(records[i].Country); ok {
				records[i].ISO3 = iso3
			} else {
				misses++
			}
		}
		if misses > 0 {
			zap.L().Debug("country resolution misses",
				zap.Int("rows", len(records)),
				zap.Int("unresolved", misses),
			)
		}
	}

	ComputeDerived(records)

	zap.L().Info("dataset built",
		zap.Int("rows", len(records)),
		zap.Int("columns", len(batch.Columns)),
	)

	return model.NewDataset(records), nil
}
