package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/niveshke/esg-explorer/internal/export"
	"github.com/niveshke/esg-explorer/internal/filter"
)

var (
	exportSource   string
	exportFile     string
	exportOut      string
	exportFormat   string
	exportYears    []int
	exportSectors  []string
	exportRegions  []string
	exportCountry  []string
	exportESGMin   float64
	exportESGMax   float64
	exportCapMin   float64
	exportCapMax   float64
	exportComplete bool
	exportSearch   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a filtered view as CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := exportFile
		if path == "" {
			path = cfg.Data.DemoFile
		}
		ds, err := loadDataset(exportSource, path, 350, 2021, 1)
		if err != nil {
			return err
		}

		spec := filter.Spec{
			Years:           exportYears,
			Sectors:         exportSectors,
			Regions:         exportRegions,
			Countries:       exportCountry,
			RequireComplete: exportComplete,
			CompanyQuery:    exportSearch,
		}
		if exportESGMin > 0 || exportESGMax < 100 {
			spec.TotalRange = &filter.Range{Min: exportESGMin, Max: exportESGMax}
		}
		if exportCapMin > 0 || exportCapMax < math.MaxFloat64 {
			spec.CapRange = &filter.Range{Min: exportCapMin, Max: exportCapMax}
		}

		view := filter.Apply(ds, spec)

		if err := os.MkdirAll(filepath.Dir(exportOut), 0o755); err != nil {
			return eris.Wrap(err, "export: create output dir")
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return eris.Wrap(err, "export: create file")
		}
		defer f.Close()

		switch exportFormat {
		case "csv":
			err = export.WriteCSV(f, view)
		case "xlsx":
			err = export.WriteXLSX(f, view)
		default:
			return eris.Errorf("export: unknown format %q (valid: csv, xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %d rows to %s\n", view.Len(), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSource, "source", "file", "source kind: demo or file")
	exportCmd.Flags().StringVar(&exportFile, "file", "", "CSV path for the file source (default from config)")
	exportCmd.Flags().StringVar(&exportOut, "out", "esg_view.csv", "output path")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().IntSliceVar(&exportYears, "years", nil, "restrict to observation years")
	exportCmd.Flags().StringSliceVar(&exportSectors, "sectors", nil, "restrict to sectors")
	exportCmd.Flags().StringSliceVar(&exportRegions, "regions", nil, "restrict to regions")
	exportCmd.Flags().StringSliceVar(&exportCountry, "countries", nil, "restrict to countries")
	exportCmd.Flags().Float64Var(&exportESGMin, "esg-min", 0, "minimum ESG total")
	exportCmd.Flags().Float64Var(&exportESGMax, "esg-max", 100, "maximum ESG total")
	exportCmd.Flags().Float64Var(&exportCapMin, "cap-min", 0, "minimum market cap in USD billions")
	exportCmd.Flags().Float64Var(&exportCapMax, "cap-max", math.MaxFloat64, "maximum market cap in USD billions")
	exportCmd.Flags().BoolVar(&exportComplete, "complete", false, "keep only rows with all four scores and market cap")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "case-insensitive company name substring")
	rootCmd.AddCommand(exportCmd)
}
