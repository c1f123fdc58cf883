package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/niveshke/esg-explorer/internal/model"
)

// ReadBatch parses CSV into a raw batch. Structural problems (unreadable
// input, no header row) are errors at this boundary; malformed cell values
// are not — they stay strings and become missing during normalization.
func ReadBatch(r io.Reader) (*RawBatch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows tolerated; short rows read as missing
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, eris.New("csv: empty input, no header row")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		rows = append(rows, row)
	}

	return &RawBatch{Columns: header, Rows: rows}, nil
}

// ExportRow renders a record in the canonical export column order
// (required, optional, then derived).
func ExportRow(r model.Record) []string {
	rank, quartile := "", ""
	if r.RankOverall > 0 {
		rank = strconv.Itoa(r.RankOverall)
	}
	if r.Quartile > 0 {
		quartile = strconv.Itoa(r.Quartile)
	}
	return []string{
		r.Company,
		r.Ticker,
		r.Sector,
		r.Region,
		r.Country,
		formatInt(r.Year),
		formatFloat(r.E),
		formatFloat(r.S),
		formatFloat(r.G),
		formatFloat(r.ESGTotal),
		formatFloat(r.MarketCapUSD),
		formatFloat(r.EEmissions),
		formatFloat(r.EEnergy),
		formatFloat(r.SDiversity),
		formatFloat(r.GBoard),
		r.ISO3,
		rank,
		quartile,
	}
}

// EncodeBatch renders a dataset back into a raw batch using the export
// column order. Feeding the result through the pipeline again reproduces the
// same records; derived columns are ignored on input and recomputed.
func EncodeBatch(ds *model.Dataset) *RawBatch {
	rows := make([][]string, 0, ds.Len())
	for _, r := range ds.Records() {
		rows = append(rows, ExportRow(r))
	}
	return &RawBatch{Columns: model.ExportColumns(), Rows: rows}
}
