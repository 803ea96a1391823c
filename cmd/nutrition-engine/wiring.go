// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"
	"net/http"

	"github.com/pdiddy/nutrition-engine/internal/cache"
	"github.com/pdiddy/nutrition-engine/internal/openfoodfacts"
	"github.com/pdiddy/nutrition-engine/internal/recipebook"
	"github.com/pdiddy/nutrition-engine/internal/search"
	"github.com/pdiddy/nutrition-engine/internal/translate"
)

// openCache opens the search cache, or returns nil when caching is off.
func openCache() *cache.Store {
	if cfg.Cache.Disabled {
		return nil
	}
	return cache.Open(cfg.Cache.Path, logger)
}

// newEngine wires the food source, translator and cache from cfg.
func newEngine() *search.Engine {
	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	locale := translate.ResolveLocale(cfg.Locale)

	source := openfoodfacts.NewClient(client, cfg.Search, cfg.HTTP, logger)

	var translator translate.Translator
	noTranslate, _ := rootCmd.PersistentFlags().GetBool("no-translate")
	if cfg.Translate.Enabled && !noTranslate && !locale.IsEnglish() {
		lt := translate.NewLibreTranslate(client, cfg.Translate.URL, cfg.Translate.APIKey, logger)
		lt.UserAgent = cfg.HTTP.UserAgent
		lt.Retry.MaxRetries = cfg.HTTP.MaxRetries
		lt.Retry.BaseDelay = cfg.HTTP.RetryBaseDelay
		translator = lt
	}

	// A nil *cache.Store must not become a non-nil search.Cache.
	var c search.Cache
	if store := openCache(); store != nil {
		c = store
	}

	logger.Debug("engine configured",
		slog.String("locale", locale.String()),
		slog.Bool("translate", translator != nil),
		slog.Bool("cache", c != nil),
	)
	return search.NewEngine(source, translator, c, locale, logger)
}

// openBook opens the recipe book from cfg.
func openBook() (*recipebook.Book, error) {
	return recipebook.Open(cfg.RecipeBook)
}
