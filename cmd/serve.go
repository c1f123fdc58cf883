package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/niveshke/esg-explorer/internal/api"
	"github.com/niveshke/esg-explorer/internal/model"
)

var (
	serveSource string
	serveFile   string
	serveRows   int
	serveYear   int
	serveSeed   uint64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytical views over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path := serveFile
		if path == "" {
			path = cfg.Data.DemoFile
		}

		srv := api.NewServer(func() (*model.Dataset, error) {
			return loadDataset(serveSource, path, serveRows, serveYear, serveSeed)
		}, api.WithUpload(uploadDataset))
		return srv.ListenAndServe(ctx, cfg.Server.Port, cfg.Server.AllowedOrigins)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveSource, "source", "demo", "source kind: demo or file")
	serveCmd.Flags().StringVar(&serveFile, "file", "", "CSV path for the file source (default from config)")
	serveCmd.Flags().IntVar(&serveRows, "rows", 350, "demo source row count")
	serveCmd.Flags().IntVar(&serveYear, "year", 2021, "demo source observation year")
	serveCmd.Flags().Uint64Var(&serveSeed, "seed", 1, "demo source random seed")
	rootCmd.AddCommand(serveCmd)
}
