// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recipebook

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nutrition-engine/internal/recipe"
)

// ExportYAML writes every recipe, with computed nutrients, to
// <export_dir>/export.yaml and returns the path.
func (b *Book) ExportYAML(ctx context.Context) (string, error) {
	summaries, err := b.exportSummaries(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return b.writeExport("export.yaml", data)
}

// ExportJSON writes every recipe, with computed nutrients, to
// <export_dir>/export.json and returns the path.
func (b *Book) ExportJSON(ctx context.Context) (string, error) {
	summaries, err := b.exportSummaries(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return b.writeExport("export.json", data)
}

func (b *Book) writeExport(name string, data []byte) (string, error) {
	if err := os.MkdirAll(b.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(b.exportDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}

func (b *Book) exportSummaries(ctx context.Context) ([]recipe.Summary, error) {
	entries, err := b.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	summaries := make([]recipe.Summary, 0, len(entries))
	for _, e := range entries {
		r, err := b.Load(ctx, e.Name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, recipe.Summarize(r))
	}
	return summaries, nil
}
