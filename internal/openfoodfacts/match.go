// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openfoodfacts

import (
	"strings"
	"unicode/utf8"
)

// queryWords splits a query into lower-cased whitespace-separated words.
func queryWords(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// relevance returns the smallest rune position at which any word occurs in
// name, and false unless every word occurs. Matching is case-insensitive.
// Lower is more relevant.
func relevance(name string, words []string) (int, bool) {
	if len(words) == 0 {
		return 0, false
	}
	lower := strings.ToLower(name)
	best := -1
	for _, w := range words {
		idx := strings.Index(lower, w)
		if idx < 0 {
			return 0, false
		}
		pos := utf8.RuneCountInString(lower[:idx])
		if best < 0 || pos < best {
			best = pos
		}
	}
	return best, true
}
