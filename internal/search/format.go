// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// FormatTable writes items as a ranked table with per-100 g macros.
func FormatTable(items []types.FoodItem, w io.Writer) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-40s  %8s  %8s  %8s  %8s\n",
		"Rank", "Name", "kcal", "Protein", "Fat", "Carbs")
	fmt.Fprintln(w, strings.Repeat("-", 86))

	for i, it := range items {
		fmt.Fprintf(w, "%-4d  %-40s  %8.1f  %8.1f  %8.1f  %8.1f\n",
			i+1, truncate(it.Name, 40),
			it.EnergyKcalPer100g, it.ProteinPer100g, it.FatPer100g, it.CarbsPer100g)
	}
	fmt.Fprintf(w, "\n%d results (values per 100 g)\n", len(items))
}

// FormatJSON writes items as indented JSON to w.
func FormatJSON(items []types.FoodItem, w io.Writer) error {
	if items == nil {
		items = []types.FoodItem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
