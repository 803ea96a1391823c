// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each regular file is one secret: the filename is the key and the trimmed
// contents are the value.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/nutrition-engine/internal/logging"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

const (
	// DefaultDir is the secrets directory relative to the working directory.
	DefaultDir = ".secrets"

	// LibreTranslateKey names the file holding the LibreTranslate API key.
	LibreTranslateKey = "libretranslate-api-key"
)

// Load reads every file in dir. A missing directory yields an empty map.
// Dotfiles, subdirectories and empty files are skipped; unreadable files
// are logged and skipped.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	log := logging.OrDiscard(logger)
	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", slog.String("name", name), slog.String("error", err.Error()))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Apply copies known secrets into cfg. Values already set in cfg, from a
// config file or the environment, take precedence.
func Apply(cfg *types.EngineConfig, secrets map[string]string) {
	if cfg.Translate.APIKey == "" {
		cfg.Translate.APIKey = secrets[LibreTranslateKey]
	}
}
