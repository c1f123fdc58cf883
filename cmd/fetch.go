package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/niveshke/esg-explorer/internal/source"
)

var (
	fetchURL string
	fetchOut string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a bulk ESG dataset CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := fetchURL
		if url == "" {
			url = cfg.Fetch.URL
		}
		if url == "" {
			return eris.New("fetch: no URL given (set --url or fetch.url in config)")
		}
		out := fetchOut
		if out == "" {
			out = cfg.Data.RawFile
		}

		d := source.NewDownloader(source.DownloaderOptions{
			Timeout:           time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries:        cfg.Fetch.MaxRetries,
			RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		})
		if err := d.Download(cmd.Context(), url, out); err != nil {
			return err
		}

		fmt.Printf("Saved dataset to %s\n", out)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "dataset URL (default from config)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "output path (default from config)")
	rootCmd.AddCommand(fetchCmd)
}
