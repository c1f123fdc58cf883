package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/niveshke/esg-explorer/internal/source"
)

var (
	inspectSource string
	inspectFile   string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load, validate, and summarize a dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := inspectFile
		if path == "" {
			path = cfg.Data.DemoFile
		}

		ds, err := loadDataset(inspectSource, path, 350, 2021, 1)
		if err != nil {
			if source.IsUnavailable(err) {
				fmt.Printf("Source unavailable: %v\n", err)
				return nil
			}
			return err
		}

		fmt.Printf("Rows:      %d\n", ds.Len())
		fmt.Printf("Years:     %v\n", ds.Years())
		fmt.Printf("Sectors:   %s\n", strings.Join(ds.Sectors(), ", "))
		fmt.Printf("Regions:   %s\n", strings.Join(ds.Regions(), ", "))
		fmt.Printf("Countries: %d distinct\n", len(ds.Countries()))

		var complete, resolved int
		for _, r := range ds.Records() {
			if r.Complete() {
				complete++
			}
			if r.ISO3 != "" {
				resolved++
			}
		}
		fmt.Printf("Complete rows:      %d/%d\n", complete, ds.Len())
		fmt.Printf("Resolved countries: %d/%d\n", resolved, ds.Len())
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectSource, "source", "file", "source kind: demo or file")
	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "CSV path for the file source (default from config)")
	rootCmd.AddCommand(inspectCmd)
}
