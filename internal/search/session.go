// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"sync"

	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// Session serializes the searches of one interactive caller, such as a
// search box: starting a search cancels the one still in flight, which then
// returns context.Canceled.
type Session struct {
	engine *Engine

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSession returns a Session running searches on e.
func NewSession(e *Engine) *Session {
	return &Session{engine: e}
}

// Search supersedes any in-flight search of the session and runs a new one.
func (s *Session) Search(ctx context.Context, query string, maxResults int) ([]types.FoodItem, error) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.gen == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	return s.engine.SearchAndRank(ctx, query, maxResults)
}

// Cancel aborts the in-flight search, if any.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
