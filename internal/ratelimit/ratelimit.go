package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WindowLimiter caps how many requests each source may make inside a fixed
// time window. Buckets are process-local and keyed by source identifier;
// the limiter is owned by the orchestrator and handed to connectors so tests
// can construct a fresh instance per run.
type WindowLimiter struct {
	mu           sync.Mutex
	calls        map[string][]time.Time // key: source identifier
	window       time.Duration
	maxPerWindow int
	now          func() time.Time // injectable clock for tests
}

// NewWindowLimiter creates a limiter allowing maxPerWindow requests per
// source within each window.
func NewWindowLimiter(window time.Duration, maxPerWindow int) *WindowLimiter {
	return &WindowLimiter{
		calls:        make(map[string][]time.Time),
		window:       window,
		maxPerWindow: maxPerWindow,
		now:          time.Now,
	}
}

// Wait blocks until capacity is available in the window for the given source.
// Returns an error only if the context is cancelled while waiting.
func (l *WindowLimiter) Wait(ctx context.Context, source string) error {
	for {
		wait, ok := l.tryAcquire(source)
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limiter wait for %s: %w", source, ctx.Err())
		case <-time.After(wait):
		}
	}
}

// tryAcquire records a call if the window has capacity. Otherwise it returns
// how long until the oldest in-window call ages out.
func (l *WindowLimiter) tryAcquire(source string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Drop calls that have aged out of the window.
	kept := l.calls[source][:0]
	for _, t := range l.calls[source] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.calls[source] = kept

	if len(kept) < l.maxPerWindow {
		l.calls[source] = append(kept, now)
		return 0, true
	}

	return kept[0].Sub(cutoff), false
}
