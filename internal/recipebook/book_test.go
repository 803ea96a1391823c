package recipebook

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nutrition-engine/internal/recipe"
	"github.com/pdiddy/nutrition-engine/internal/units"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// --- test helpers ---

func testBook(t *testing.T) (*Book, string) {
	t.Helper()
	dir := t.TempDir()
	b, err := Open(types.RecipeBookConfig{
		Path:      filepath.Join(dir, "data", "recipes.db"),
		ExportDir: filepath.Join(dir, "export"),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })
	return b, dir
}

var (
	flour = types.FoodItem{Name: "Vetemjöl", EnergyKcalPer100g: 340, ProteinPer100g: 10, FatPer100g: 1.5, CarbsPer100g: 70}
	milk  = types.FoodItem{Name: "Mjölk", EnergyKcalPer100g: 64, ProteinPer100g: 3.4, FatPer100g: 3.6, CarbsPer100g: 4.8}
	egg   = types.FoodItem{Name: "Ägg", EnergyKcalPer100g: 143, ProteinPer100g: 12.6, FatPer100g: 9.5, CarbsPer100g: 0.7}
)

func pancakes(t *testing.T) *recipe.Recipe {
	t.Helper()
	r := recipe.New("Pannkakor")
	for _, add := range []struct {
		item    types.FoodItem
		amount  float64
		unit    units.Unit
		density float64
	}{
		{flour, 2, units.Cup, 0.53},
		{milk, 6, units.Tablespoon, 1.03},
		{egg, 120, units.Gram, 0},
	} {
		if err := r.AddIngredient(add.item, add.amount, add.unit, add.density); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

// --- tests ---

func TestSaveAndLoad(t *testing.T) {
	b, _ := testBook(t)
	ctx := context.Background()
	want := pancakes(t)

	id, err := b.Save(ctx, want)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("id %q is not a uuid: %v", id, err)
	}

	got, err := b.Load(ctx, "Pannkakor")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != want.Name {
		t.Errorf("name = %q, want %q", got.Name, want.Name)
	}
	if got.Len() != 3 {
		t.Fatalf("ingredients = %d, want 3", got.Len())
	}
	if got.Totals() != want.Totals() {
		t.Errorf("totals = %+v, want %+v", got.Totals(), want.Totals())
	}

	wantIngs, gotIngs := want.Ingredients(), got.Ingredients()
	for i := range wantIngs {
		if gotIngs[i].Item() != wantIngs[i].Item() {
			t.Errorf("ingredient %d item = %+v, want %+v", i, gotIngs[i].Item(), wantIngs[i].Item())
		}
		if gotIngs[i].Unit() != wantIngs[i].Unit() {
			t.Errorf("ingredient %d unit = %v, want %v", i, gotIngs[i].Unit(), wantIngs[i].Unit())
		}
		if gotIngs[i].WeightInGrams() != wantIngs[i].WeightInGrams() {
			t.Errorf("ingredient %d weight = %v, want %v", i, gotIngs[i].WeightInGrams(), wantIngs[i].WeightInGrams())
		}
	}
}

func TestSaveReplacesSameName(t *testing.T) {
	b, _ := testBook(t)
	ctx := context.Background()

	id1, err := b.Save(ctx, pancakes(t))
	if err != nil {
		t.Fatal(err)
	}

	smaller := recipe.New("Pannkakor")
	if err := smaller.AddIngredient(egg, 60, units.Gram, 0); err != nil {
		t.Fatal(err)
	}
	id2, err := b.Save(ctx, smaller)
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Errorf("id changed on resave: %s -> %s", id1, id2)
	}

	got, err := b.Load(ctx, "Pannkakor")
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 1 {
		t.Errorf("ingredients after replace = %d, want 1", got.Len())
	}
}

func TestLoadNotFound(t *testing.T) {
	b, _ := testBook(t)
	_, err := b.Load(context.Background(), "Saknas")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveEmptyName(t *testing.T) {
	b, _ := testBook(t)
	if _, err := b.Save(context.Background(), recipe.New("  ")); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestListAndDelete(t *testing.T) {
	b, _ := testBook(t)
	ctx := context.Background()

	p := pancakes(t)
	if _, err := b.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Save(ctx, recipe.New("Aaa tom")); err != nil {
		t.Fatal(err)
	}

	entries, err := b.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Name != "Aaa tom" || entries[0].Ingredients != 0 || entries[0].EnergyKcal != 0 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Name != "Pannkakor" || entries[1].Ingredients != 3 {
		t.Errorf("entries[1] = %+v", entries[1])
	}
	if diff := entries[1].EnergyKcal - p.TotalEnergy(); diff > 1e-6 || diff < -1e-6 {
		t.Errorf("listed energy = %v, want %v", entries[1].EnergyKcal, p.TotalEnergy())
	}
	if entries[1].UpdatedAt.IsZero() {
		t.Error("updated_at not parsed")
	}

	existed, err := b.Delete(ctx, "Pannkakor")
	if err != nil || !existed {
		t.Fatalf("Delete = %v, %v", existed, err)
	}
	existed, err = b.Delete(ctx, "Pannkakor")
	if err != nil || existed {
		t.Fatalf("second Delete = %v, %v", existed, err)
	}

	// Ingredients are removed with the recipe.
	var n int
	if err := b.db.QueryRow(`SELECT COUNT(*) FROM ingredients`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("orphan ingredients = %d", n)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	cfg := types.RecipeBookConfig{Path: filepath.Join(dir, "recipes.db")}

	b, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Save(context.Background(), pancakes(t)); err != nil {
		t.Fatal(err)
	}
	b.Close()

	b2, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer b2.Close()
	if _, err := b2.Load(context.Background(), "Pannkakor"); err != nil {
		t.Errorf("Load after reopen: %v", err)
	}
}

func TestExportYAMLAndJSON(t *testing.T) {
	b, dir := testBook(t)
	ctx := context.Background()
	p := pancakes(t)
	if _, err := b.Save(ctx, p); err != nil {
		t.Fatal(err)
	}

	yamlPath, err := b.ExportYAML(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "export", "export.yaml"); yamlPath != want {
		t.Errorf("yaml path = %s, want %s", yamlPath, want)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML []recipe.Summary
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatal(err)
	}
	if len(fromYAML) != 1 || fromYAML[0].Name != "Pannkakor" || len(fromYAML[0].Ingredients) != 3 {
		t.Fatalf("yaml export = %+v", fromYAML)
	}
	if fromYAML[0].Ingredients[0].Unit != "cup" {
		t.Errorf("unit = %q, want cup", fromYAML[0].Ingredients[0].Unit)
	}

	jsonPath, err := b.ExportJSON(ctx)
	if err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON []recipe.Summary
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatal(err)
	}
	if len(fromJSON) != 1 || fromJSON[0].Totals != p.Totals() {
		t.Errorf("json export = %+v", fromJSON)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(types.RecipeBookConfig{}); err == nil {
		t.Error("expected error for empty path")
	}
}
