// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrition-engine/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search, barcode and recipe endpoints over HTTP",
	Long: `Serve starts a JSON HTTP API:

  GET  /search?q=<query>&max=<n>   ranked foods
  GET  /barcode/{code}             one product, 404 when unknown
  POST /recipes/compute            recipe file (JSON) to nutrient totals
  GET  /recipes                    saved recipes
  GET  /recipes/{name}             one saved recipe with nutrients
  GET  /healthz                    liveness

The server stops gracefully on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	opts := api.Options{
		Logger:     logger,
		Timeout:    cfg.Server.RequestTimeout,
		MaxResults: cfg.Search.MaxResults,
	}

	book, err := openBook()
	if err != nil {
		logger.Warn("recipe book unavailable, saved-recipe routes disabled", slog.String("error", err.Error()))
	} else {
		defer book.Close()
		opts.Recipes = book
	}

	return api.New(newEngine(), opts).ListenAndServe(cmd.Context(), addr)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")

	rootCmd.AddCommand(serveCmd)
}
