// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import "strings"

// Locale is the language and country code pair sent to the food database
// (lc and cc parameters) and used as the translation source language.
type Locale struct {
	Language string
	Country  string
}

// English is the fallback locale for unrecognized device settings.
var English = Locale{Language: "en", Country: "us"}

// locales is the fixed set of recognized device languages. Polish has no
// country mapping and falls back to "us".
var locales = map[string]Locale{
	"sv": {Language: "sv", Country: "se"},
	"en": {Language: "en", Country: "gb"},
	"de": {Language: "de", Country: "de"},
	"es": {Language: "es", Country: "es"},
	"fr": {Language: "fr", Country: "fr"},
	"it": {Language: "it", Country: "it"},
	"pl": {Language: "pl", Country: "us"},
	"da": {Language: "da", Country: "dk"},
	"no": {Language: "no", Country: "no"},
	"fi": {Language: "fi", Country: "fi"},
}

// languageNames maps English language names, as reported by some device
// APIs, to ISO 639-1 codes.
var languageNames = map[string]string{
	"swedish":   "sv",
	"english":   "en",
	"german":    "de",
	"spanish":   "es",
	"french":    "fr",
	"italian":   "it",
	"polish":    "pl",
	"danish":    "da",
	"norwegian": "no",
	"finnish":   "fi",
}

// ResolveLocale maps a device locale to a Locale. It accepts ISO codes
// ("sv"), BCP 47 tags ("sv-SE"), POSIX locales ("sv_SE.UTF-8") and English
// language names ("Swedish"). Only the language part is used; the country
// always comes from the fixed table. Unrecognized input resolves to English.
func ResolveLocale(tag string) Locale {
	lang := strings.ToLower(strings.TrimSpace(tag))
	if code, ok := languageNames[lang]; ok {
		lang = code
	}
	if idx := strings.IndexAny(lang, "-_."); idx >= 0 {
		lang = lang[:idx]
	}
	if loc, ok := locales[lang]; ok {
		return loc
	}
	return English
}

// IsEnglish reports whether the locale's language is English.
func (l Locale) IsEnglish() bool {
	return l.Language == "en"
}

func (l Locale) String() string {
	return l.Language + "-" + l.Country
}
