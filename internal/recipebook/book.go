// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recipebook persists recipes in a SQLite database.
package recipebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/nutrition-engine/internal/recipe"
	"github.com/pdiddy/nutrition-engine/internal/units"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// ErrNotFound reports that no recipe has the requested name.
var ErrNotFound = errors.New("recipe not found")

const defaultExportDir = "."

// Book is a SQLite-backed recipe collection. Recipe names are unique.
type Book struct {
	db        *sql.DB
	exportDir string
}

// Entry is a listing row.
type Entry struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Ingredients int       `json:"ingredients" yaml:"ingredients"`
	EnergyKcal  float64   `json:"energy_kcal" yaml:"energy_kcal"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Open opens or creates the database at cfg.Path and its schema.
func Open(cfg types.RecipeBookConfig) (*Book, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("recipe book path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating recipe book directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = defaultExportDir
	}
	b := &Book{db: db, exportDir: exportDir}
	if err := b.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return b, nil
}

// Close releases the database connection.
func (b *Book) Close() error {
	return b.db.Close()
}

func (b *Book) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS recipes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ingredients (
			recipe_id TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			food_name TEXT NOT NULL,
			energy_kcal_100g REAL NOT NULL,
			protein_100g REAL NOT NULL,
			fat_100g REAL NOT NULL,
			carbs_100g REAL NOT NULL,
			amount REAL NOT NULL,
			unit TEXT NOT NULL,
			density REAL NOT NULL,
			weight_g REAL NOT NULL,
			PRIMARY KEY (recipe_id, position)
		)`,
	}
	for _, stmt := range statements {
		if _, err := b.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores r, replacing the ingredients of an existing recipe with the
// same name. It returns the recipe id, which is stable across saves.
func (b *Book) Save(ctx context.Context, r *recipe.Recipe) (string, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return "", fmt.Errorf("recipe has no name")
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM recipes WHERE name = ?`, name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			id, name, now, now,
		); err != nil {
			return "", fmt.Errorf("inserting recipe: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("looking up recipe %q: %w", name, err)
	default:
		if _, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE recipe_id = ?`, id); err != nil {
			return "", fmt.Errorf("deleting old ingredients: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE recipes SET updated_at = ? WHERE id = ?`, now, id); err != nil {
			return "", fmt.Errorf("updating recipe: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ingredients (recipe_id, position, food_name, energy_kcal_100g, protein_100g,
			fat_100g, carbs_100g, amount, unit, density, weight_g)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, ing := range r.Ingredients() {
		item := ing.Item()
		if _, err := stmt.ExecContext(ctx,
			id, i, item.Name, item.EnergyKcalPer100g, item.ProteinPer100g,
			item.FatPer100g, item.CarbsPer100g,
			ing.Amount(), ing.Unit().String(), ing.Density(), ing.WeightInGrams(),
		); err != nil {
			return "", fmt.Errorf("inserting ingredient %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing recipe: %w", err)
	}
	return id, nil
}

// Load rebuilds the named recipe. Weights are recomputed from the stored
// amount, unit and density.
func (b *Book) Load(ctx context.Context, name string) (*recipe.Recipe, error) {
	var id, stored string
	err := b.db.QueryRowContext(ctx,
		`SELECT id, name FROM recipes WHERE name = ?`, strings.TrimSpace(name),
	).Scan(&id, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up recipe %q: %w", name, err)
	}

	rows, err := b.db.QueryContext(ctx,
		`SELECT food_name, energy_kcal_100g, protein_100g, fat_100g, carbs_100g, amount, unit, density
		 FROM ingredients WHERE recipe_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying ingredients: %w", err)
	}
	defer rows.Close()

	r := recipe.New(stored)
	for rows.Next() {
		var (
			item            types.FoodItem
			amount, density float64
			unitText        string
		)
		if err := rows.Scan(&item.Name, &item.EnergyKcalPer100g, &item.ProteinPer100g,
			&item.FatPer100g, &item.CarbsPer100g, &amount, &unitText, &density); err != nil {
			return nil, fmt.Errorf("scanning ingredient: %w", err)
		}
		unit, err := units.Parse(unitText)
		if err != nil {
			return nil, fmt.Errorf("recipe %q: %w", stored, err)
		}
		if err := r.AddIngredient(item, amount, unit, density); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", stored, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingredients: %w", err)
	}
	return r, nil
}

// List returns every recipe ordered by name.
func (b *Book) List(ctx context.Context) ([]Entry, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT r.id, r.name, r.updated_at,
			COUNT(i.position),
			COALESCE(SUM(i.energy_kcal_100g * i.weight_g / 100.0), 0)
		 FROM recipes r LEFT JOIN ingredients i ON i.recipe_id = r.id
		 GROUP BY r.id
		 ORDER BY r.name`)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var updated string
		if err := rows.Scan(&e.ID, &e.Name, &updated, &e.Ingredients, &e.EnergyKcal); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the named recipe and its ingredients. It reports whether
// the recipe existed.
func (b *Book) Delete(ctx context.Context, name string) (bool, error) {
	res, err := b.db.ExecContext(ctx, `DELETE FROM recipes WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return false, fmt.Errorf("deleting recipe %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting recipe %q: %w", name, err)
	}
	return n > 0, nil
}
