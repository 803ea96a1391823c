// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes food search, barcode lookup and recipe computation
// as a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/nutrition-engine/internal/logging"
	"github.com/pdiddy/nutrition-engine/internal/recipe"
	"github.com/pdiddy/nutrition-engine/internal/recipebook"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

const (
	defaultRequestTimeout = 30 * time.Second
	maxBodyBytes          = 1 << 20
)

// Engine answers searches and barcode lookups. search.Engine implements it.
type Engine interface {
	SearchAndRank(ctx context.Context, query string, maxResults int) ([]types.FoodItem, error)
	LookupBarcode(ctx context.Context, barcode string) (types.FoodItem, bool, error)
}

// RecipeStore reads saved recipes. recipebook.Book implements it.
type RecipeStore interface {
	List(ctx context.Context) ([]recipebook.Entry, error)
	Load(ctx context.Context, name string) (*recipe.Recipe, error)
}

// Server is the HTTP API.
type Server struct {
	engine     Engine
	recipes    RecipeStore
	log        *slog.Logger
	timeout    time.Duration
	maxResults int
	router     chi.Router
}

// Options configures a Server. Recipes may be nil, which disables the
// saved-recipe routes.
type Options struct {
	Recipes    RecipeStore
	Logger     *slog.Logger
	Timeout    time.Duration
	MaxResults int
}

// New creates a Server backed by engine.
func New(engine Engine, opts Options) *Server {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	s := &Server{
		engine:     engine,
		recipes:    opts.Recipes,
		log:        logging.OrDiscard(opts.Logger).With("component", "api"),
		timeout:    timeout,
		maxResults: opts.MaxResults,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/search", s.handleSearch)
	r.Get("/barcode/{code}", s.handleBarcode)

	r.Route("/recipes", func(r chi.Router) {
		r.Post("/compute", s.handleCompute)
		if s.recipes != nil {
			r.Get("/", s.handleListRecipes)
			r.Get("/{name}", s.handleGetRecipe)
		}
	})

	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.InfoContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// --- handlers ---

type searchResponse struct {
	Query   string           `json:"query"`
	Results []types.FoodItem `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	maxResults := s.maxResults
	if v := r.URL.Query().Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "max must be a positive integer")
			return
		}
		maxResults = n
	}

	results, err := s.engine.SearchAndRank(r.Context(), query, maxResults)
	if err != nil {
		s.writeContextError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results})
}

func (s *Server) handleBarcode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	item, ok, err := s.engine.LookupBarcode(r.Context(), code)
	if err != nil {
		s.writeContextError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no product for barcode "+code)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var f recipe.File
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid recipe: "+err.Error())
		return
	}

	rec, err := recipe.Resolve(r.Context(), &f, s.engine)
	switch {
	case err == nil:
	case r.Context().Err() != nil:
		s.writeContextError(w, r, err)
		return
	case errors.Is(err, recipe.ErrUnresolved):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	default:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recipe.Summarize(rec))
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	entries, err := s.recipes.List(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "listing recipes failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "listing recipes failed")
		return
	}
	if entries == nil {
		entries = []recipebook.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, err := s.recipes.Load(r.Context(), name)
	if errors.Is(err, recipebook.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no recipe named "+name)
		return
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "loading recipe failed", slog.String("name", name), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "loading recipe failed")
		return
	}
	writeJSON(w, http.StatusOK, recipe.Summarize(rec))
}

// writeContextError maps a cancelled or timed-out request to a status.
func (s *Server) writeContextError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, "request timed out")
		return
	}
	s.log.DebugContext(r.Context(), "request cancelled", slog.String("error", err.Error()))
	writeError(w, http.StatusServiceUnavailable, "request cancelled")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
