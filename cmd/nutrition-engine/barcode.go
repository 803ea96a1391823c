// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nutrition-engine/internal/search"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

var barcodeCmd = &cobra.Command{
	Use:   "barcode <code>",
	Short: "Look up a product by barcode",
	Long: `Barcode fetches one product from Open Food Facts by its EAN/UPC code and
prints its nutrients per 100 g. Barcode lookups are not cached.`,
	Args: cobra.ExactArgs(1),
	RunE: runBarcode,
}

func runBarcode(cmd *cobra.Command, args []string) error {
	code := args[0]
	item, ok, err := newEngine().LookupBarcode(cmd.Context(), code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no product found for barcode %s", code)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(item)
	}
	search.FormatTable([]types.FoodItem{item}, os.Stdout)
	return nil
}

func init() {
	barcodeCmd.Flags().Bool("json", false, "output the product as JSON")

	rootCmd.AddCommand(barcodeCmd)
}
