// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/nutrition-engine/internal/openfoodfacts"
	"github.com/pdiddy/nutrition-engine/internal/translate"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// setDefaults registers every configuration key with its default so that
// environment variables and Unmarshal see the full key set.
func setDefaults(v *viper.Viper) {
	v.SetDefault("locale", "")

	v.SetDefault("http.timeout", 15*time.Second)
	v.SetDefault("http.user_agent", "nutrition-engine/"+version)
	v.SetDefault("http.max_retries", 2)
	v.SetDefault("http.retry_base_delay", time.Second)

	v.SetDefault("search.base_url", openfoodfacts.DefaultBaseURL)
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.page_size", openfoodfacts.DefaultPageSize)

	v.SetDefault("translate.enabled", true)
	v.SetDefault("translate.url", translate.DefaultURL)
	v.SetDefault("translate.api_key", "")

	v.SetDefault("cache.path", defaultCachePath())
	v.SetDefault("cache.disabled", false)

	v.SetDefault("recipe_book.path", defaultDataPath("recipes.db"))
	v.SetDefault("recipe_book.export_dir", ".")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.request_timeout", 30*time.Second)
}

// loadConfig resolves the configuration from v. An unset locale falls
// back to the process environment.
func loadConfig(v *viper.Viper) (types.EngineConfig, error) {
	var c types.EngineConfig
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding configuration: %w", err)
	}
	if c.Locale == "" {
		c.Locale = envLocale()
	}
	return c, nil
}

// envLocale returns the POSIX locale of the process, or "en".
func envLocale() string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(k); v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return "en"
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".cache", "food_cache.json")
	}
	return filepath.Join(dir, "nutrition-engine", "food_cache.json")
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".data", name)
	}
	return filepath.Join(home, ".local", "share", "nutrition-engine", name)
}
