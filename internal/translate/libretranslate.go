// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translate turns food queries into English so the food database
// can be searched in both the device language and English.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pdiddy/nutrition-engine/internal/httputil"
	"github.com/pdiddy/nutrition-engine/internal/logging"
)

// DefaultURL is the public LibreTranslate endpoint.
const DefaultURL = "https://libretranslate.com/translate"

// Translator translates text between ISO 639-1 languages.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// LibreTranslate calls a LibreTranslate-compatible /translate endpoint.
type LibreTranslate struct {
	Client    *http.Client
	URL       string
	APIKey    string
	UserAgent string
	Retry     httputil.Policy
	Log       *slog.Logger
}

// NewLibreTranslate returns a client for url. An empty url uses DefaultURL.
func NewLibreTranslate(client *http.Client, url, apiKey string, logger *slog.Logger) *LibreTranslate {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &LibreTranslate{
		Client: client,
		URL:    url,
		APIKey: apiKey,
		Log:    logging.OrDiscard(logger).With("adapter", "libretranslate"),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// Translate sends one translation request. Transport failures, non-2xx
// statuses and an empty translation are errors.
func (t *LibreTranslate) Translate(ctx context.Context, text, source, target string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: t.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("encoding translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	retry := t.Retry
	retry.Logger = t.Log
	resp, err := httputil.DoWithRetry(ctx, t.Client, req, retry)
	if err != nil {
		return "", fmt.Errorf("LibreTranslate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading LibreTranslate response: %w", err)
	}

	var tr translateResponse
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if json.Unmarshal(body, &tr) == nil && tr.Error != "" {
			return "", fmt.Errorf("LibreTranslate returned HTTP %d: %s", resp.StatusCode, tr.Error)
		}
		return "", fmt.Errorf("LibreTranslate returned HTTP %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("parsing LibreTranslate response: %w", err)
	}
	out := strings.TrimSpace(tr.TranslatedText)
	if out == "" {
		return "", fmt.Errorf("LibreTranslate returned an empty translation")
	}
	return out, nil
}

// ToEnglish translates text from source into English. It never fails: when
// source is already English it returns text without a request, and on any
// translation error it logs a warning and returns text unchanged. A nil
// translator also returns text.
func ToEnglish(ctx context.Context, t Translator, text, source string, logger *slog.Logger) string {
	if source == "en" || t == nil || strings.TrimSpace(text) == "" {
		return text
	}
	out, err := t.Translate(ctx, text, source, "en")
	if err != nil {
		logging.OrDiscard(logger).WarnContext(ctx, "translation failed, using original text",
			slog.String("text", text),
			slog.String("source", source),
			slog.String("error", err.Error()),
		)
		return text
	}
	return out
}
