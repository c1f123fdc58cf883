// Package export serializes filtered views to CSV and XLSX using the
// canonical column order with derived columns appended.
package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/niveshke/esg-explorer/internal/dataset"
	"github.com/niveshke/esg-explorer/internal/model"
)

// WriteCSV writes the view to w. Output is a byte-exact reproduction of the
// view's rows: same order, canonical columns, minimal float rendering that
// survives a reload through the pipeline.
func WriteCSV(w io.Writer, ds *model.Dataset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(model.ExportColumns()); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, r := range ds.Records() {
		if err := cw.Write(dataset.ExportRow(r)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}
	return nil
}

// WriteXLSX writes the view as a single-sheet workbook with the same
// columns as the CSV form.
func WriteXLSX(w io.Writer, ds *model.Dataset) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("ESG")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range model.ExportColumns() {
		header.AddCell().Value = col
	}

	for _, r := range ds.Records() {
		row := sheet.AddRow()
		for _, v := range dataset.ExportRow(r) {
			row.AddCell().Value = v
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}
