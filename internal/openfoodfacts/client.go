// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openfoodfacts queries the Open Food Facts product database by
// name and by barcode and converts products into FoodItems.
package openfoodfacts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/nutrition-engine/internal/httputil"
	"github.com/pdiddy/nutrition-engine/internal/logging"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

const (
	// DefaultBaseURL is the global Open Food Facts host.
	DefaultBaseURL = "https://world.openfoodfacts.org"

	// DefaultPageSize is the number of products requested per name search.
	DefaultPageSize = 100

	// UnnamedProduct is the display name of a barcode product without any
	// usable name.
	UnnamedProduct = "(unnamed product)"
)

// Client talks to an Open Food Facts compatible server.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	PageSize  int
	Retry     httputil.Policy
	Log       *slog.Logger
}

// NewClient returns a Client configured from cfg and httpCfg. A nil client
// uses http.DefaultClient.
func NewClient(client *http.Client, cfg types.SearchConfig, httpCfg types.HTTPConfig, logger *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	log := logging.OrDiscard(logger).With("adapter", "openfoodfacts")
	return &Client{
		HTTP:      client,
		BaseURL:   strings.TrimRight(base, "/"),
		UserAgent: httpCfg.UserAgent,
		PageSize:  cfg.PageSize,
		Retry: httputil.Policy{
			MaxRetries: httpCfg.MaxRetries,
			BaseDelay:  httpCfg.RetryBaseDelay,
			Logger:     log,
		},
		Log: log,
	}
}

type searchResponse struct {
	Products []product `json:"products"`
}

type barcodeResponse struct {
	Status        int     `json:"status"`
	StatusVerbose string  `json:"status_verbose"`
	Product       product `json:"product"`
}

// SearchByName runs one full-text search and returns the products whose
// name contains every query word, in server order. lang and country are
// sent as the lc and cc parameters. An empty query returns nil without a
// request.
func (c *Client) SearchByName(ctx context.Context, query, lang, country string) ([]types.ScoredFood, error) {
	words := queryWords(query)
	if len(words) == 0 {
		return nil, nil
	}

	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	params := url.Values{
		"search_terms":  {strings.Join(words, " ")},
		"search_simple": {"1"},
		"action":        {"process"},
		"json":          {"1"},
		"page_size":     {strconv.Itoa(pageSize)},
	}
	if lang != "" {
		params.Set("lc", lang)
	}
	if country != "" {
		params.Set("cc", country)
	}

	var sr searchResponse
	if _, err := c.getJSON(ctx, "search", c.BaseURL+"/cgi/search.pl?"+params.Encode(), &sr); err != nil {
		return nil, err
	}

	var results []types.ScoredFood
	for i := range sr.Products {
		p := &sr.Products[i]
		name := strings.TrimSpace(p.ProductName)
		if name == "" {
			continue
		}
		rel, ok := relevance(name, words)
		if !ok {
			continue
		}
		results = append(results, types.ScoredFood{Item: p.toFoodItem(name), Relevance: rel})
	}

	c.Log.DebugContext(ctx, "search complete",
		slog.String("query", query),
		slog.String("lc", lang),
		slog.Int("products", len(sr.Products)),
		slog.Int("matches", len(results)),
	)
	return results, nil
}

// LookupByBarcode fetches one product. It returns ErrNotFound for an empty
// barcode or when the server reports no such product.
func (c *Client) LookupByBarcode(ctx context.Context, barcode string) (types.FoodItem, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return types.FoodItem{}, ErrNotFound
	}

	reqURL := c.BaseURL + "/api/v0/product/" + url.PathEscape(barcode) + ".json"

	var br barcodeResponse
	status, err := c.getJSON(ctx, "barcode", reqURL, &br)
	if err != nil {
		var te *TransportError
		if status == http.StatusNotFound && errors.As(err, &te) {
			c.Log.InfoContext(ctx, "product not found", slog.String("barcode", barcode))
			return types.FoodItem{}, ErrNotFound
		}
		return types.FoodItem{}, err
	}
	if br.Status != 1 {
		c.Log.InfoContext(ctx, "product not found",
			slog.String("barcode", barcode),
			slog.String("status", br.StatusVerbose),
		)
		return types.FoodItem{}, ErrNotFound
	}

	return br.Product.toFoodItem(productName(&br.Product)), nil
}

// productName picks the first non-empty name of a barcode product.
func productName(p *product) string {
	for _, n := range []string{p.ProductName, p.ProductNameSV, p.ProductNameEN} {
		if n = strings.TrimSpace(n); n != "" {
			return n
		}
	}
	return UnnamedProduct
}

// getJSON performs a GET and decodes a 2xx body into out. It returns the
// HTTP status (0 when no response arrived). Context cancellation is
// returned as is; every other failure is a *TransportError.
func (c *Client) getJSON(ctx context.Context, op, reqURL string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.Retry)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return resp.StatusCode, ctxErr
		}
		return resp.StatusCode, &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &TransportError{
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status: %s", bytes.TrimSpace(truncate(body, 200))),
		}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return resp.StatusCode, &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return resp.StatusCode, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
