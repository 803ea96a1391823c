// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search finds foods by name in the device language and in English,
// merges and ranks the two result sets, and caches the ranked list.
package search

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/nutrition-engine/internal/cache"
	"github.com/pdiddy/nutrition-engine/internal/logging"
	"github.com/pdiddy/nutrition-engine/internal/openfoodfacts"
	"github.com/pdiddy/nutrition-engine/internal/translate"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// DefaultMaxResults is used when a caller asks for zero or fewer results.
const DefaultMaxResults = 5

// FoodSource is a remote food database. openfoodfacts.Client implements it.
type FoodSource interface {
	SearchByName(ctx context.Context, query, lang, country string) ([]types.ScoredFood, error)
	LookupByBarcode(ctx context.Context, barcode string) (types.FoodItem, error)
}

// Cache stores ranked results by normalized query. cache.Store implements it.
type Cache interface {
	Get(query string) ([]types.FoodItem, bool)
	Put(query string, items []types.FoodItem) error
}

// Engine answers food searches and barcode lookups. It is safe for
// concurrent use when its source, translator and cache are.
type Engine struct {
	source     FoodSource
	translator translate.Translator
	cache      Cache
	locale     translate.Locale
	log        *slog.Logger
}

// NewEngine returns an Engine searching source in locale's language. A nil
// translator disables the English pass; a nil cache disables caching.
func NewEngine(source FoodSource, translator translate.Translator, c Cache, locale translate.Locale, logger *slog.Logger) *Engine {
	if locale.Language == "" {
		locale = translate.English
	}
	return &Engine{
		source:     source,
		translator: translator,
		cache:      c,
		locale:     locale,
		log:        logging.OrDiscard(logger).With("component", "search"),
	}
}

// Locale returns the device locale the engine searches with.
func (e *Engine) Locale() translate.Locale { return e.locale }

// SearchAndRank returns up to maxResults foods matching query, best first.
//
// A cached query is answered from the cache without network access.
// Otherwise the query and its English translation are searched
// concurrently, merged by product name and ranked; the full ranked list is
// cached under the normalized query. Search failures on either side are
// logged and contribute no results. The only error returned is the
// context's, in which case nothing is cached.
func (e *Engine) SearchAndRank(ctx context.Context, query string, maxResults int) ([]types.FoodItem, error) {
	key := cache.NormalizeKey(query)
	if key == "" {
		return []types.FoodItem{}, nil
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	if e.cache != nil {
		if items, ok := e.cache.Get(key); ok {
			e.log.DebugContext(ctx, "cache hit", slog.String("query", key), slog.Int("results", len(items)))
			return types.CopyItems(items, maxResults), nil
		}
		e.log.DebugContext(ctx, "cache miss", slog.String("query", key))
	}

	english := cache.NormalizeKey(translate.ToEnglish(ctx, e.translator, key, e.locale.Language, e.log))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var original, translated []types.ScoredFood
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		original = e.searchPass(gctx, key, "original")
		return nil
	})
	if english != "" && english != key {
		g.Go(func() error {
			translated = e.searchPass(gctx, english, "translated")
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked := Merge(original, translated)
	if e.cache != nil && len(ranked) > 0 {
		if err := e.cache.Put(key, ranked); err != nil {
			e.log.WarnContext(ctx, "caching search results failed",
				slog.String("query", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return types.CopyItems(ranked, maxResults), nil
}

// searchPass runs one name search. Failures are logged and yield nil.
func (e *Engine) searchPass(ctx context.Context, query, pass string) []types.ScoredFood {
	results, err := e.source.SearchByName(ctx, query, e.locale.Language, e.locale.Country)
	if err != nil {
		if ctx.Err() == nil {
			e.log.WarnContext(ctx, "food search failed",
				slog.String("query", query),
				slog.String("pass", pass),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
	return results
}

// LookupBarcode returns the product with the given barcode. Unknown
// barcodes and transport failures report false with a nil error; the only
// error returned is the context's.
func (e *Engine) LookupBarcode(ctx context.Context, barcode string) (types.FoodItem, bool, error) {
	item, err := e.source.LookupByBarcode(ctx, barcode)
	if err == nil {
		return item, true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return types.FoodItem{}, false, ctxErr
	}
	if !errors.Is(err, openfoodfacts.ErrNotFound) {
		e.log.WarnContext(ctx, "barcode lookup failed",
			slog.String("barcode", barcode),
			slog.String("error", err.Error()),
		)
	}
	return types.FoodItem{}, false, nil
}
