package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit data storage.
type Store interface {
	// Take checks whether a request under the given key is admitted.
	// It prunes entries older than the window, admits the request iff the
	// remaining count is below limit, and records the request only when
	// admitted. The returned count includes the current request when admitted.
	Take(ctx context.Context, key string, limit int64, window time.Duration) (allowed bool, count int64, err error)
}
