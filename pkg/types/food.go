// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the nutrition-engine:
// food items returned by search and barcode lookup, and the configuration
// consumed by the CLI and the HTTP API.
package types

// FoodItem describes one food and its macronutrients per 100 grams.
// A FoodItem is a value: it is never mutated after construction and every
// list handed out by the engine holds copies.
//
// Unknown nutrient values are stored as 0. The JSON field names form the
// on-disk cache format and must not change.
type FoodItem struct {
	// Name is the display name as returned by the food database.
	Name string `json:"Name" yaml:"name"`

	// EnergyKcalPer100g is the energy content in kilocalories per 100 g.
	EnergyKcalPer100g float64 `json:"EnergyKcalPer100g" yaml:"energy_kcal_per_100g"`

	// ProteinPer100g is grams of protein per 100 g.
	ProteinPer100g float64 `json:"ProteinPer100g" yaml:"protein_per_100g"`

	// FatPer100g is grams of fat per 100 g.
	FatPer100g float64 `json:"FatPer100g" yaml:"fat_per_100g"`

	// CarbsPer100g is grams of carbohydrates per 100 g.
	CarbsPer100g float64 `json:"CarbsPer100g" yaml:"carbs_per_100g"`
}

// ScoredFood pairs a FoodItem with the relevance a single name search
// assigned to it. Relevance is the earliest rune index at which any query
// word occurs in the lower-cased product name; lower is better.
type ScoredFood struct {
	Item      FoodItem
	Relevance int
}

// CopyItems returns a fresh slice holding at most max items from src.
// A max of zero or less copies everything.
func CopyItems(src []FoodItem, max int) []FoodItem {
	n := len(src)
	if max > 0 && max < n {
		n = max
	}
	out := make([]FoodItem, n)
	copy(out, src[:n])
	return out
}
