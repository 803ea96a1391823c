// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"sort"
	"unicode/utf8"

	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// Pass weights applied to a product's relevance when merging. Matches in
// the device language outrank equally placed matches found only through
// the English translation.
const (
	originalWeight   = 2
	translatedWeight = 4
)

type candidate struct {
	item  types.FoodItem
	score int
	runes int
}

// Merge combines the results of the original-language and translated
// searches into one ranked list. Products are keyed by name and the first
// occurrence wins, with original results considered first. The list is
// ordered by weighted relevance, then by shorter name, then by the order
// products were first seen.
func Merge(original, translated []types.ScoredFood) []types.FoodItem {
	seen := make(map[string]struct{}, len(original)+len(translated))
	var merged []candidate

	add := func(results []types.ScoredFood, weight int) {
		for _, r := range results {
			if _, dup := seen[r.Item.Name]; dup {
				continue
			}
			seen[r.Item.Name] = struct{}{}
			merged = append(merged, candidate{
				item:  r.Item,
				score: r.Relevance * weight,
				runes: utf8.RuneCountInString(r.Item.Name),
			})
		}
	}
	add(original, originalWeight)
	add(translated, translatedWeight)

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].score != merged[j].score {
			return merged[i].score < merged[j].score
		}
		return merged[i].runes < merged[j].runes
	})

	items := make([]types.FoodItem, len(merged))
	for i, c := range merged {
		items[i] = c.item
	}
	return items
}
