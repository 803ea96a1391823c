// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recipe combines foods and quantities into recipes and computes
// their nutrient totals. Every quantity is converted to grams once, when the
// ingredient is added.
package recipe

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pdiddy/nutrition-engine/internal/units"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// Nutrients holds absolute macro amounts for a quantity of food.
type Nutrients struct {
	EnergyKcal float64 `json:"energy_kcal" yaml:"energy_kcal"`
	Protein    float64 `json:"protein_g" yaml:"protein_g"`
	Fat        float64 `json:"fat_g" yaml:"fat_g"`
	Carbs      float64 `json:"carbs_g" yaml:"carbs_g"`
}

func (n Nutrients) add(o Nutrients) Nutrients {
	return Nutrients{
		EnergyKcal: n.EnergyKcal + o.EnergyKcal,
		Protein:    n.Protein + o.Protein,
		Fat:        n.Fat + o.Fat,
		Carbs:      n.Carbs + o.Carbs,
	}
}

// Ingredient is one food with the quantity the user entered. Its weight in
// grams is computed at construction and never changes; a different quantity
// needs a new Ingredient.
type Ingredient struct {
	item          types.FoodItem
	amount        float64
	unit          units.Unit
	density       float64
	weightInGrams float64
}

// NewIngredient converts amount in unit to grams. density (g/ml) applies to
// volume units; zero or less means units.DefaultDensity. Negative or NaN
// amounts and units outside the enum are rejected.
func NewIngredient(item types.FoodItem, amount float64, unit units.Unit, density float64) (Ingredient, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Ingredient{}, fmt.Errorf("invalid amount %v for %q", amount, item.Name)
	}
	density = units.EffectiveDensity(density)
	grams, err := units.ToGrams(amount, unit, density)
	if err != nil {
		return Ingredient{}, fmt.Errorf("adding %q: %w", item.Name, err)
	}
	return Ingredient{
		item:          item,
		amount:        amount,
		unit:          unit,
		density:       density,
		weightInGrams: grams,
	}, nil
}

func (i Ingredient) Item() types.FoodItem   { return i.item }
func (i Ingredient) Amount() float64        { return i.amount }
func (i Ingredient) Unit() units.Unit       { return i.unit }
func (i Ingredient) Density() float64       { return i.density }
func (i Ingredient) WeightInGrams() float64 { return i.weightInGrams }

func (i Ingredient) Energy() float64  { return i.item.EnergyKcalPer100g * i.weightInGrams / 100 }
func (i Ingredient) Protein() float64 { return i.item.ProteinPer100g * i.weightInGrams / 100 }
func (i Ingredient) Fat() float64     { return i.item.FatPer100g * i.weightInGrams / 100 }
func (i Ingredient) Carbs() float64   { return i.item.CarbsPer100g * i.weightInGrams / 100 }

// Nutrients returns the ingredient's macros for its weight.
func (i Ingredient) Nutrients() Nutrients {
	return Nutrients{EnergyKcal: i.Energy(), Protein: i.Protein(), Fat: i.Fat(), Carbs: i.Carbs()}
}

// String renders the ingredient as entered, e.g. "2 cup Vetemjöl".
func (i Ingredient) String() string {
	return strconv.FormatFloat(i.amount, 'f', -1, 64) + " " + i.unit.String() + " " + i.item.Name
}

// Recipe is a named, ordered list of ingredients. Totals are computed on
// each call. A Recipe is not safe for concurrent mutation.
type Recipe struct {
	Name        string
	ingredients []Ingredient
}

// New returns an empty recipe.
func New(name string) *Recipe {
	return &Recipe{Name: name}
}

// AddIngredient appends item in the given quantity. On error the recipe is
// unchanged.
func (r *Recipe) AddIngredient(item types.FoodItem, amount float64, unit units.Unit, density float64) error {
	ing, err := NewIngredient(item, amount, unit, density)
	if err != nil {
		return err
	}
	r.ingredients = append(r.ingredients, ing)
	return nil
}

// RemoveIngredient removes the ingredient at index i, keeping the order of
// the rest.
func (r *Recipe) RemoveIngredient(i int) error {
	if i < 0 || i >= len(r.ingredients) {
		return fmt.Errorf("ingredient index %d out of range [0,%d)", i, len(r.ingredients))
	}
	r.ingredients = append(r.ingredients[:i:i], r.ingredients[i+1:]...)
	return nil
}

// Ingredients returns a copy of the ingredient list.
func (r *Recipe) Ingredients() []Ingredient {
	out := make([]Ingredient, len(r.ingredients))
	copy(out, r.ingredients)
	return out
}

// Len returns the number of ingredients.
func (r *Recipe) Len() int { return len(r.ingredients) }

// TotalWeight returns the summed ingredient weight in grams.
func (r *Recipe) TotalWeight() float64 {
	var sum float64
	for _, ing := range r.ingredients {
		sum += ing.weightInGrams
	}
	return sum
}

func (r *Recipe) TotalEnergy() float64  { return r.Totals().EnergyKcal }
func (r *Recipe) TotalProtein() float64 { return r.Totals().Protein }
func (r *Recipe) TotalFat() float64     { return r.Totals().Fat }
func (r *Recipe) TotalCarbs() float64   { return r.Totals().Carbs }

// Totals sums the macros of every ingredient.
func (r *Recipe) Totals() Nutrients {
	var sum Nutrients
	for _, ing := range r.ingredients {
		sum = sum.add(ing.Nutrients())
	}
	return sum
}
