package types

import "time"

// HTTPConfig holds shared HTTP settings used by every remote adapter.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests. Open Food
	// Facts asks clients to identify themselves (e.g. "nutrition-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 and 5xx responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RetryBaseDelay is the first backoff delay; it doubles per attempt.
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay" mapstructure:"retry_base_delay"`
}

// SearchConfig holds settings for food search and barcode lookup.
type SearchConfig struct {
	// BaseURL is the Open Food Facts host (default https://world.openfoodfacts.org).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults is the default number of ranked results returned (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// PageSize is the number of products requested per search (default 100).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
}

// TranslateConfig holds settings for the LibreTranslate adapter.
type TranslateConfig struct {
	// Enabled turns query translation on. When false every query is searched
	// in the device language only.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// URL is the translate endpoint (default https://libretranslate.com/translate).
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// APIKey is sent as api_key when set. Usually loaded from .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// CacheConfig holds settings for the on-disk search result cache.
type CacheConfig struct {
	// Path is the JSON cache file (default ~/.cache/nutrition-engine/food_cache.json).
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Disabled skips both loading and saving the cache.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
}

// RecipeBookConfig holds settings for the SQLite recipe book.
type RecipeBookConfig struct {
	// Path is the SQLite database file (default ~/.local/share/nutrition-engine/recipes.db).
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// ExportDir is where export.yaml and export.json are written.
	ExportDir string `json:"export_dir" yaml:"export_dir" mapstructure:"export_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr           string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" mapstructure:"request_timeout"`
}

// EngineConfig groups every setting of the nutrition-engine.
type EngineConfig struct {
	// Locale is the device locale (e.g. "sv", "sv_SE.UTF-8", "Swedish").
	Locale string `json:"locale" yaml:"locale" mapstructure:"locale"`

	HTTP       HTTPConfig       `json:"http" yaml:"http" mapstructure:"http"`
	Search     SearchConfig     `json:"search" yaml:"search" mapstructure:"search"`
	Translate  TranslateConfig  `json:"translate" yaml:"translate" mapstructure:"translate"`
	Cache      CacheConfig      `json:"cache" yaml:"cache" mapstructure:"cache"`
	RecipeBook RecipeBookConfig `json:"recipe_book" yaml:"recipe_book" mapstructure:"recipe_book"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
}
