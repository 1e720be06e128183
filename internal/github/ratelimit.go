// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// rateLimitTracker tracks GitHub rate limit state from response headers.
// Every response updates the remaining count and reset timestamp; before
// a request is sent, the tracker blocks until the reset window when the
// limit is known to be exhausted.
type rateLimitTracker struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	known     bool // true after the first response with rate limit headers
	now       func() time.Time
}

func newRateLimitTracker(now func() time.Time) *rateLimitTracker {
	return &rateLimitTracker{now: now}
}

// update records rate limit state from response headers.
func (t *rateLimitTracker) update(header http.Header) {
	remainingStr := header.Get("X-RateLimit-Remaining")
	resetStr := header.Get("X-RateLimit-Reset")
	if remainingStr == "" || resetStr == "" {
		return
	}

	remaining, err := strconv.Atoi(remainingStr)
	if err != nil {
		return
	}
	resetUnix, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = remaining
	t.reset = time.Unix(resetUnix, 0)
	t.known = true
}

// wait blocks until the rate limit window resets if the limit is known to
// be exhausted. Returns immediately otherwise. Returns an error only when
// the context is cancelled while waiting.
func (t *rateLimitTracker) wait(ctx context.Context) error {
	t.mu.Lock()
	if !t.known || t.remaining > 0 {
		t.mu.Unlock()
		return nil
	}
	sleep := t.reset.Sub(t.now())
	t.mu.Unlock()

	if sleep <= 0 {
		return nil
	}

	select {
	case <-time.After(sleep):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAfter computes the backoff for a rate-limited response: the
// Retry-After header (secondary limits) first, then the X-RateLimit-Reset
// timestamp. Zero when no backoff information is available.
func (t *rateLimitTracker) retryAfter(header http.Header) time.Duration {
	if retryStr := header.Get("Retry-After"); retryStr != "" {
		if seconds, err := strconv.Atoi(retryStr); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	if resetStr := header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetUnix, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			if d := time.Unix(resetUnix, 0).Sub(t.now()); d > 0 {
				return d
			}
		}
	}

	return 0
}
