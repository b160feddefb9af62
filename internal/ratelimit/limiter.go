package ratelimit

import (
	"context"
	"time"
)

// DefaultWindow is the window applied when a call site does not set one.
const DefaultWindow = time.Minute

// Limiter defines the interface for rate limiting.
type Limiter interface {
	// Allow checks if a request from the given key should be allowed.
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// FixedWindowLimiter implements rate limiting by counting requests in a
// trailing fixed window. Timestamps older than the window are purged on every
// check, and a denied request is not recorded against the window.
type FixedWindowLimiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewFixedWindowLimiter creates a new fixed window rate limiter.
func NewFixedWindowLimiter(store Store, limit int64, window time.Duration) *FixedWindowLimiter {
	if window <= 0 {
		window = DefaultWindow
	}

	return &FixedWindowLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	allowed, _, err := l.store.Take(ctx, key, l.limit, l.window)
	if err != nil {
		return false, err
	}

	return allowed, nil
}
