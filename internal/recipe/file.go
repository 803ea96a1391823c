// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recipe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nutrition-engine/internal/units"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// ErrUnresolved reports an ingredient that no food could be found for.
var ErrUnresolved = errors.New("ingredient not resolved")

// File is the on-disk form of a recipe. Each ingredient names its food by
// search query, by barcode or inline with its nutrients.
type File struct {
	Name        string      `json:"name" yaml:"name"`
	Ingredients []FileEntry `json:"ingredients" yaml:"ingredients"`
}

// FileEntry is one ingredient line of a recipe file. Exactly one of Food,
// Barcode or Item identifies the food; Item takes precedence, then Barcode.
type FileEntry struct {
	Food    string          `json:"food,omitempty" yaml:"food,omitempty"`
	Barcode string          `json:"barcode,omitempty" yaml:"barcode,omitempty"`
	Item    *types.FoodItem `json:"item,omitempty" yaml:"item,omitempty"`
	Amount  float64         `json:"amount" yaml:"amount"`
	Unit    units.Unit      `json:"unit" yaml:"unit"`
	Density float64         `json:"density,omitempty" yaml:"density,omitempty"`
}

func (e FileEntry) label() string {
	switch {
	case e.Item != nil:
		return e.Item.Name
	case e.Barcode != "":
		return "barcode " + e.Barcode
	default:
		return e.Food
	}
}

// Resolver finds foods for recipe ingredients. search.Engine implements it.
type Resolver interface {
	SearchAndRank(ctx context.Context, query string, maxResults int) ([]types.FoodItem, error)
	LookupBarcode(ctx context.Context, barcode string) (types.FoodItem, bool, error)
}

// ReadFile loads a recipe file from disk.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing recipe file %s: %w", path, err)
	}
	return &f, nil
}

// WriteFile saves f to path as YAML.
func WriteFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling recipe file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ToFile converts r into a self-contained File with inline foods.
func ToFile(r *Recipe) *File {
	f := &File{Name: r.Name, Ingredients: make([]FileEntry, 0, r.Len())}
	for _, ing := range r.ingredients {
		item := ing.item
		entry := FileEntry{Item: &item, Amount: ing.amount, Unit: ing.unit}
		if ing.unit.IsVolume() {
			entry.Density = ing.density
		}
		f.Ingredients = append(f.Ingredients, entry)
	}
	return f
}

// Resolve builds a Recipe from f. Inline items are used as given, barcodes
// are looked up and food queries take the best search hit. res may be nil
// when every entry is inline. The first ingredient that cannot be resolved
// or converted aborts with an error naming it.
func Resolve(ctx context.Context, f *File, res Resolver) (*Recipe, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, fmt.Errorf("recipe has no name")
	}

	r := New(name)
	for i, e := range f.Ingredients {
		item, err := resolveEntry(ctx, e, res)
		if err != nil {
			return nil, fmt.Errorf("ingredient %d (%s): %w", i+1, e.label(), err)
		}
		if err := r.AddIngredient(item, e.Amount, e.Unit, e.Density); err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", i+1, err)
		}
	}
	return r, nil
}

func resolveEntry(ctx context.Context, e FileEntry, res Resolver) (types.FoodItem, error) {
	if e.Item != nil {
		return *e.Item, nil
	}
	if res == nil {
		return types.FoodItem{}, fmt.Errorf("%w: no food database available", ErrUnresolved)
	}

	if code := strings.TrimSpace(e.Barcode); code != "" {
		item, ok, err := res.LookupBarcode(ctx, code)
		if err != nil {
			return types.FoodItem{}, err
		}
		if !ok {
			return types.FoodItem{}, ErrUnresolved
		}
		return item, nil
	}

	if strings.TrimSpace(e.Food) == "" {
		return types.FoodItem{}, fmt.Errorf("%w: entry has no food, barcode or item", ErrUnresolved)
	}
	hits, err := res.SearchAndRank(ctx, e.Food, 1)
	if err != nil {
		return types.FoodItem{}, err
	}
	if len(hits) == 0 {
		return types.FoodItem{}, ErrUnresolved
	}
	return hits[0], nil
}
