// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// ExportEntry is one cached query with its ranked results.
type ExportEntry struct {
	Query   string           `json:"query" yaml:"query"`
	Results []types.FoodItem `json:"results" yaml:"results"`
}

// Export returns every entry sorted by query.
func (s *Store) Export() []ExportEntry {
	snap := s.Snapshot()
	entries := make([]ExportEntry, 0, len(snap))
	for _, k := range s.Keys() {
		items, ok := snap[k]
		if !ok {
			continue
		}
		entries = append(entries, ExportEntry{Query: k, Results: items})
	}
	return entries
}

// WriteYAML writes the cache contents to w as a YAML list.
func (s *Store) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.Export()); err != nil {
		return fmt.Errorf("encoding cache YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes the cache contents to w as indented JSON.
func (s *Store) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Export())
}
