package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/niveshke/esg-explorer/internal/source"
)

var (
	generateRows int
	generateYear int
	generateSeed uint64
	generateOut  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic ESG dataset CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := generateOut
		if out == "" {
			out = cfg.Data.DemoFile
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return eris.Wrap(err, "generate: create output dir")
		}

		batch := source.Generate(generateRows, generateYear, generateSeed)
		if err := writeBatchCSV(out, batch); err != nil {
			return err
		}

		zap.L().Info("synthetic dataset written",
			zap.String("path", out),
			zap.Int("rows", len(batch.Rows)),
		)
		fmt.Printf("Wrote %d rows to %s\n", len(batch.Rows), out)
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVar(&generateRows, "rows", 350, "number of companies to generate")
	generateCmd.Flags().IntVar(&generateYear, "year", 2021, "observation year")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 1, "random seed for reproducible output")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "output CSV path (default from config)")
	rootCmd.AddCommand(generateCmd)
}
