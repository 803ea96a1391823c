// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openfoodfacts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// Nutriment keys read from the product's nutriments object.
const (
	keyEnergyKcal = "energy-kcal_100g"
	keyProteins   = "proteins_100g"
	keyFat        = "fat_100g"
	keyCarbs      = "carbohydrates_100g"
)

// product is the subset of an Open Food Facts product this package reads.
type product struct {
	Code          string         `json:"code"`
	ProductName   string         `json:"product_name"`
	ProductNameSV string         `json:"product_name_sv"`
	ProductNameEN string         `json:"product_name_en"`
	Nutriments    map[string]any `json:"nutriments"`
}

// toFoodItem builds a FoodItem with the given display name. Missing or
// unusable nutriment values become 0.
func (p *product) toFoodItem(name string) types.FoodItem {
	return types.FoodItem{
		Name:              name,
		EnergyKcalPer100g: nutriment(p.Nutriments, keyEnergyKcal),
		ProteinPer100g:    nutriment(p.Nutriments, keyProteins),
		FatPer100g:        nutriment(p.Nutriments, keyFat),
		CarbsPer100g:      nutriment(p.Nutriments, keyCarbs),
	}
}

// nutriment coerces a nutriments value to a non-negative float64. The
// database serves numbers, numeric strings or nothing at all.
func nutriment(m map[string]any, key string) float64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
