// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrition-engine/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search foods by name",
	Long: `Search looks up foods whose name contains every word of the query. The
query is searched in the device language and, translated, in English; the
two result sets are merged and ranked with device-language matches first.

Results are cached per query. A repeated query is answered from the cache.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	maxResults, _ := cmd.Flags().GetInt("max")
	if maxResults <= 0 {
		maxResults = cfg.Search.MaxResults
	}

	engine := newEngine()
	results, err := engine.SearchAndRank(cmd.Context(), query, maxResults)
	if err != nil {
		return fmt.Errorf("searching %q: %w", query, err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return search.FormatJSON(results, os.Stdout)
	}
	search.FormatTable(results, os.Stdout)
	return nil
}

func init() {
	searchCmd.Flags().Int("max", 0, "maximum number of results (default: search.max_results)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
