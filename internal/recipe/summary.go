// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recipe

import (
	"fmt"
	"io"
)

// IngredientSummary is the computed view of one ingredient.
type IngredientSummary struct {
	Food      string    `json:"food" yaml:"food"`
	Amount    float64   `json:"amount" yaml:"amount"`
	Unit      string    `json:"unit" yaml:"unit"`
	Grams     float64   `json:"grams" yaml:"grams"`
	Nutrients Nutrients `json:"nutrients" yaml:"nutrients"`
}

// Summary is the computed view of a recipe, used for JSON and YAML output.
type Summary struct {
	Name        string              `json:"name" yaml:"name"`
	Ingredients []IngredientSummary `json:"ingredients" yaml:"ingredients"`
	TotalGrams  float64             `json:"total_grams" yaml:"total_grams"`
	Totals      Nutrients           `json:"totals" yaml:"totals"`
}

// Summarize computes the per-ingredient and total nutrients of r.
func Summarize(r *Recipe) Summary {
	s := Summary{
		Name:        r.Name,
		Ingredients: make([]IngredientSummary, 0, r.Len()),
		TotalGrams:  r.TotalWeight(),
		Totals:      r.Totals(),
	}
	for _, ing := range r.ingredients {
		s.Ingredients = append(s.Ingredients, IngredientSummary{
			Food:      ing.item.Name,
			Amount:    ing.amount,
			Unit:      ing.unit.String(),
			Grams:     ing.weightInGrams,
			Nutrients: ing.Nutrients(),
		})
	}
	return s
}

// FormatSummary writes the ingredient list and nutrient totals of r.
func FormatSummary(r *Recipe, w io.Writer) {
	fmt.Fprintf(w, "%s contains:\n", r.Name)
	if r.Len() == 0 {
		fmt.Fprintln(w, "  (no ingredients)")
	}
	for _, ing := range r.ingredients {
		fmt.Fprintf(w, "- %s (%.1f g, %.1f kcal)\n", ing, ing.weightInGrams, ing.Energy())
	}

	t := r.Totals()
	fmt.Fprintln(w, "Totals:")
	fmt.Fprintf(w, "  Energy:  %.1f kcal\n", t.EnergyKcal)
	fmt.Fprintf(w, "  Protein: %.1f g\n", t.Protein)
	fmt.Fprintf(w, "  Fat:     %.1f g\n", t.Fat)
	fmt.Fprintf(w, "  Carbs:   %.1f g\n", t.Carbs)
}
