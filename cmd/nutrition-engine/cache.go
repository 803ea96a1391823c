// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrition-engine/internal/cache"
	"github.com/pdiddy/nutrition-engine/internal/search"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the search result cache",
	Long: `Cache manages the on-disk search cache, a JSON file mapping normalized
queries to their ranked results. Cached queries never hit the network, so
delete an entry to force a fresh search.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.Open(cfg.Cache.Path, logger)
		keys := store.Keys()
		if len(keys) == 0 {
			fmt.Println("Cache is empty.")
			return nil
		}
		snap := store.Snapshot()
		for _, k := range keys {
			fmt.Printf("%-40s  %d results\n", k, len(snap[k]))
		}
		fmt.Printf("\n%d queries in %s\n", len(keys), store.Path())
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <query>",
	Short: "Print the cached results for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.Open(cfg.Cache.Path, logger)
		query := strings.Join(args, " ")
		items, ok := store.Get(query)
		if !ok {
			return fmt.Errorf("query %q is not cached", cache.NormalizeKey(query))
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return search.FormatJSON(items, os.Stdout)
		}
		search.FormatTable(items, os.Stdout)
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <query>",
	Short: "Remove one query from the cache",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.Open(cfg.Cache.Path, logger)
		query := strings.Join(args, " ")
		existed, err := store.Delete(query)
		if err != nil {
			return err
		}
		if !existed {
			return fmt.Errorf("query %q is not cached", cache.NormalizeKey(query))
		}
		fmt.Printf("deleted %s\n", cache.NormalizeKey(query))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached query",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.Open(cfg.Cache.Path, logger)
		n := store.Len()
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Printf("cleared %d queries\n", n)
		return nil
	},
}

var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the cache contents to stdout as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.Open(cfg.Cache.Path, logger)
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "yaml":
			return store.WriteYAML(os.Stdout)
		case "json":
			return store.WriteJSON(os.Stdout)
		default:
			return fmt.Errorf("unsupported format %q (use yaml or json)", format)
		}
	},
}

func init() {
	cacheShowCmd.Flags().Bool("json", false, "output results as JSON")
	cacheExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheExportCmd)
	rootCmd.AddCommand(cacheCmd)
}
