// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openfoodfacts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/nutrition-engine/pkg/types"
)

func newTestClient(ts *httptest.Server, logger *slog.Logger) *Client {
	c := NewClient(ts.Client(), types.SearchConfig{BaseURL: ts.URL}, types.HTTPConfig{
		UserAgent:      "nutrition-engine-test/1.0",
		MaxRetries:     1,
		RetryBaseDelay: time.Millisecond,
	}, logger)
	return c
}

const chocolateSearchJSON = `{
  "count": 5,
  "products": [
    {"product_name": "Chokladkaka mörk", "nutriments": {"energy-kcal_100g": 540, "proteins_100g": 7.1, "fat_100g": 35, "carbohydrates_100g": 45}},
    {"product_name": "Kaka med choklad", "nutriments": {"energy-kcal_100g": "420.5", "fat_100g": 20}},
    {"product_name": "Choklad", "nutriments": {"energy-kcal_100g": 530}},
    {"product_name": "", "nutriments": {"energy-kcal_100g": 1}},
    {"product_name": "Mjuk kaka", "nutriments": {"energy-kcal_100g": -3, "proteins_100g": "n/a"}}
  ]
}`

func TestSearchByName_RequestParameters(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cgi/search.pl", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "choklad kaka", q.Get("search_terms"))
		assert.Equal(t, "1", q.Get("search_simple"))
		assert.Equal(t, "process", q.Get("action"))
		assert.Equal(t, "1", q.Get("json"))
		assert.Equal(t, "100", q.Get("page_size"))
		assert.Equal(t, "sv", q.Get("lc"))
		assert.Equal(t, "se", q.Get("cc"))
		assert.Equal(t, "nutrition-engine-test/1.0", r.Header.Get("User-Agent"))
		fmt.Fprint(w, `{"products":[]}`)
	}))
	defer ts.Close()

	results, err := newTestClient(ts, nil).SearchByName(context.Background(), "  Choklad   KAKA ", "sv", "se")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchByName_EveryWordMustMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chocolateSearchJSON)
	}))
	defer ts.Close()

	results, err := newTestClient(ts, nil).SearchByName(context.Background(), "choklad kaka", "sv", "se")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// "Choklad" lacks "kaka"; "Mjuk kaka" lacks "choklad"; the unnamed
	// product is skipped.
	assert.Equal(t, "Chokladkaka mörk", results[0].Item.Name)
	assert.Equal(t, 0, results[0].Relevance)
	assert.Equal(t, "Kaka med choklad", results[1].Item.Name)
	assert.Equal(t, 0, results[1].Relevance)
}

func TestSearchByName_Nutriments(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chocolateSearchJSON)
	}))
	defer ts.Close()

	results, err := newTestClient(ts, nil).SearchByName(context.Background(), "kaka", "sv", "se")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, types.FoodItem{Name: "Chokladkaka mörk", EnergyKcalPer100g: 540, ProteinPer100g: 7.1, FatPer100g: 35, CarbsPer100g: 45}, results[0].Item)
	assert.Equal(t, types.FoodItem{Name: "Kaka med choklad", EnergyKcalPer100g: 420.5, FatPer100g: 20}, results[1].Item)
	// Negative and non-numeric values become 0.
	assert.Equal(t, types.FoodItem{Name: "Mjuk kaka"}, results[2].Item)
}

func TestSearchByName_RelevanceIsRunePosition(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"products":[
			{"product_name":"Färsk mjölk"},
			{"product_name":"Mjölk"},
			{"product_name":"Ekologisk lättmjölk"}
		]}`)
	}))
	defer ts.Close()

	results, err := newTestClient(ts, nil).SearchByName(context.Background(), "mjölk", "sv", "se")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 6, results[0].Relevance)
	assert.Equal(t, 0, results[1].Relevance)
	assert.Equal(t, 14, results[2].Relevance)
}

func TestSearchByName_EmptyQueryMakesNoRequest(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	results, err := newTestClient(ts, nil).SearchByName(context.Background(), "   ", "sv", "se")
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSearchByName_TransportErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{"server error", http.StatusInternalServerError, "boom", http.StatusInternalServerError},
		{"malformed body", http.StatusOK, "{", http.StatusOK},
		{"retries exhausted", http.StatusServiceUnavailable, "", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			_, err := newTestClient(ts, nil).SearchByName(context.Background(), "milk", "en", "gb")
			var te *TransportError
			require.True(t, errors.As(err, &te), "want *TransportError, got %v", err)
			assert.Equal(t, tt.wantStatus, te.Status)
			assert.Equal(t, "search", te.Op)
		})
	}
}

func TestSearchByName_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := newTestClient(ts, nil)
	ts.Close()

	_, err := c.SearchByName(context.Background(), "milk", "en", "gb")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.Status)
}

func TestSearchByName_Cancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(ts, nil).SearchByName(ctx, "milk", "en", "gb")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLookupByBarcode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/product/7310865004703.json", r.URL.Path)
		fmt.Fprint(w, `{"status":1,"product":{"product_name":"Standardmjölk","nutriments":{"energy-kcal_100g":60,"proteins_100g":3.4,"fat_100g":3,"carbohydrates_100g":4.8}}}`)
	}))
	defer ts.Close()

	item, err := newTestClient(ts, nil).LookupByBarcode(context.Background(), "7310865004703")
	require.NoError(t, err)
	assert.Equal(t, types.FoodItem{Name: "Standardmjölk", EnergyKcalPer100g: 60, ProteinPer100g: 3.4, FatPer100g: 3, CarbsPer100g: 4.8}, item)
}

func TestLookupByBarcode_NameFallback(t *testing.T) {
	tests := []struct {
		name    string
		product string
		want    string
	}{
		{"swedish name", `{"product_name":"","product_name_sv":"Knäckebröd","product_name_en":"Crispbread"}`, "Knäckebröd"},
		{"english name", `{"product_name_en":"Crispbread"}`, "Crispbread"},
		{"no name", `{"nutriments":{"energy-kcal_100g":350}}`, UnnamedProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprintf(w, `{"status":1,"product":%s}`, tt.product)
			}))
			defer ts.Close()

			item, err := newTestClient(ts, nil).LookupByBarcode(context.Background(), "123")
			require.NoError(t, err)
			assert.Equal(t, tt.want, item.Name)
		})
	}
}

func TestLookupByBarcode_NotFound(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":0,"status_verbose":"product not found"}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts, logger).LookupByBarcode(context.Background(), "0000")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "barcode=0000")
}

func TestLookupByBarcode_HTTP404IsNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := newTestClient(ts, nil).LookupByBarcode(context.Background(), "0000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupByBarcode_EmptyMakesNoRequest(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	_, err := newTestClient(ts, nil).LookupByBarcode(context.Background(), " ")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestRelevance(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		want  int
		ok    bool
	}{
		{"Oat drink", []string{"drink"}, 4, true},
		{"Oat drink", []string{"drink", "oat"}, 0, true},
		{"Oat drink", []string{"milk"}, 0, false},
		{"Äpple juice", []string{"juice"}, 6, true},
		{"anything", nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := relevance(tt.name, tt.words)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}
