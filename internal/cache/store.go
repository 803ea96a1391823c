// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists ranked search results keyed by normalized query.
//
// The Store keeps every entry in memory and mirrors the whole map to a
// single JSON file: an object whose keys are normalized queries and whose
// values are arrays of FoodItem. The file is read once by Load and
// rewritten in full on every change. There is no expiry; a query is either
// a full hit or a full miss.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/nutrition-engine/internal/logging"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// IOError reports a failure reading or writing the cache file.
type IOError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NormalizeKey lower-cases and trims a query. All Store keys are normalized.
func NormalizeKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Store is a process-wide query→results cache with a JSON file mirror.
// It is safe for concurrent use; writers are serialized so the file always
// holds the last completed write.
type Store struct {
	path string
	log  *slog.Logger

	mu      sync.RWMutex
	entries map[string][]types.FoodItem
}

// NewStore returns an empty Store mirrored to path. An empty path keeps
// the cache in memory only. Call Load to read an existing file.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:    path,
		log:     logging.OrDiscard(logger).With("component", "cache"),
		entries: make(map[string][]types.FoodItem),
	}
}

// Open creates a Store and loads path. A load failure is logged and the
// store starts empty, so Open never fails.
func Open(path string, logger *slog.Logger) *Store {
	s := NewStore(path, logger)
	if err := s.Load(); err != nil {
		s.log.Warn("starting with empty cache", slog.String("error", err.Error()))
	}
	return s
}

// Path returns the file the store is mirrored to.
func (s *Store) Path() string { return s.path }

// Load replaces the in-memory entries with the file contents. A missing
// file is a cold start, not an error. An unreadable or malformed file
// returns an *IOError and leaves the store empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string][]types.FoodItem)
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &IOError{Op: "load", Path: s.path, Err: err}
	}

	var raw map[string][]types.FoodItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return &IOError{Op: "load", Path: s.path, Err: fmt.Errorf("parsing cache file: %w", err)}
	}

	for k, items := range raw {
		key := NormalizeKey(k)
		if key == "" {
			continue
		}
		s.entries[key] = items
	}

	s.log.Debug("cache loaded", slog.Int("entries", len(s.entries)), slog.String("path", s.path))
	return nil
}

// Get returns a copy of the results stored for query.
func (s *Store) Get(query string) ([]types.FoodItem, bool) {
	key := NormalizeKey(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return types.CopyItems(items, 0), true
}

// Put stores items under query, replacing any previous entry, and rewrites
// the cache file. On a write failure the in-memory entry is kept and an
// *IOError is returned.
func (s *Store) Put(query string, items []types.FoodItem) error {
	key := NormalizeKey(query)
	if key == "" {
		return fmt.Errorf("cache key is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = types.CopyItems(items, 0)
	return s.saveLocked()
}

// Delete removes query from the cache. It reports whether an entry existed.
func (s *Store) Delete(query string) (bool, error) {
	key := NormalizeKey(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false, nil
	}
	delete(s.entries, key)
	return true, s.saveLocked()
}

// Clear removes every entry and rewrites the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string][]types.FoodItem)
	return s.saveLocked()
}

// Keys returns the cached queries in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of cached queries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a deep copy of every entry.
func (s *Store) Snapshot() map[string][]types.FoodItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]types.FoodItem, len(s.entries))
	for k, v := range s.entries {
		out[k] = types.CopyItems(v, 0)
	}
	return out
}

// saveLocked writes the whole map to a temp file and renames it over the
// cache file so readers never observe a partial write. Caller holds s.mu.
func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}

	data, err := json.Marshal(s.entries)
	if err != nil {
		return &IOError{Op: "save", Path: s.path, Err: fmt.Errorf("marshaling cache: %w", err)}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "save", Path: s.path, Err: fmt.Errorf("creating directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "save", Path: s.path, Err: err}
	}

	s.log.Debug("cache saved", slog.Int("entries", len(s.entries)))
	return nil
}
