package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/niveshke/esg-explorer/internal/enrich"
)

var (
	enrichIn  string
	enrichOut string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Refresh market caps from the quote API for tickers in a CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Enrich.BaseURL == "" {
			return eris.New("enrich: no quote API configured (set enrich.base_url)")
		}
		in := enrichIn
		if in == "" {
			in = cfg.Data.DemoFile
		}
		out := enrichOut
		if out == "" {
			out = in
		}

		ds, err := loadDataset("file", in, 0, 0, 0)
		if err != nil {
			return err
		}

		client := enrich.NewClient(cfg.Enrich.BaseURL,
			enrich.WithRateLimit(cfg.Enrich.RequestsPerSecond),
		)
		enriched, updated, err := enrich.Dataset(cmd.Context(), client, ds)
		if err != nil {
			return err
		}

		if err := writeViewCSV(out, enriched); err != nil {
			return err
		}
		fmt.Printf("Wrote enriched file to %s. Updated %d tickers.\n", out, updated)
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichIn, "in", "", "input CSV path (default from config)")
	enrichCmd.Flags().StringVar(&enrichOut, "out", "", "output CSV path (default: overwrite input)")
	rootCmd.AddCommand(enrichCmd)
}
