// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the remote adapters.
package httputil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"
)

const (
	defaultMaxRetries = 2
	defaultBaseDelay  = 1 * time.Second
)

// Policy controls DoWithRetry. The zero value retries twice starting at
// one second and does not log.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt. Zero or
	// less uses the default (2).
	MaxRetries int

	// BaseDelay is the first backoff; it doubles each attempt. Zero or less
	// uses the default (1 s).
	BaseDelay time.Duration

	// Logger receives a warning per retry. Nil disables logging.
	Logger *slog.Logger
}

// Retryable reports whether an HTTP status is worth retrying: rate limits
// and transient upstream failures.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry executes req and retries on Retryable statuses with
// exponential backoff (BaseDelay, 2*BaseDelay, 4*BaseDelay, ...).
//
// Requests with a body must have GetBody set (http.NewRequest does this for
// bytes and strings readers) so the body can be replayed. Transport errors
// are returned immediately. If ctx is cancelled during a backoff wait the
// function returns ctx.Err(). After exhausting retries the last response is
// returned so the caller can inspect its status.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, p Policy) (*http.Response, error) {
	maxRetries := p.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	baseDelay := p.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("replaying request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * baseDelay
		if p.Logger != nil {
			p.Logger.WarnContext(ctx, "retrying request",
				slog.String("url", req.URL.Redacted()),
				slog.Int("status", resp.StatusCode),
				slog.Duration("backoff", backoff),
				slog.Int("attempt", attempt+1),
				slog.Int("max_retries", maxRetries),
			)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
