// Package dataset implements the normalization pipeline: schema validation,
// value coercion, derived-metric computation, and raw-batch CSV codec.
package dataset

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/niveshke/esg-explorer/internal/model"
)

// RawBatch is an in-memory tabular batch as handed over by an acquisition
// source: a header plus string rows, schema enforced only by column name.
type RawBatch struct {
	Columns []string
	Rows    [][]string
}

// colIndex builds a column name → position map.
func (b *RawBatch) colIndex() map[string]int {
	idx := make(map[string]int, len(b.Columns))
	for i, c := range b.Columns {
		idx[strings.TrimSpace(c)] = i
	}
	return idx
}

// get returns the value of column name in row, or "" if the column is absent
// or the row is short.
func get(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// SchemaError reports every required column missing from a raw batch.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ValidateSchema checks a raw batch against the canonical required-column
// set. It returns nil when every required column is present and a
// *SchemaError naming all missing columns otherwise. Types are not checked
// here; value coercion is Normalize's job.
func ValidateSchema(b *RawBatch) error {
	if b == nil {
		return eris.New("schema: nil batch")
	}
	present := make(map[string]struct{}, len(b.Columns))
	for _, c := range b.Columns {
		present[strings.TrimSpace(c)] = struct{}{}
	}

	var missing []string
	for _, c := range model.RequiredColumns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
