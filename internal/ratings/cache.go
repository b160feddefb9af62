package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is how long a successful fetch stays servable from the cache.
const DefaultTTL = 5 * time.Minute

// Kind tags the resource class a cache entry belongs to.
type Kind string

const (
	KindStats   Kind = "stats"
	KindProfile Kind = "profile"
	KindGames   Kind = "games"
)

// Payload is an opaque provider JSON document.
type Payload = json.RawMessage

// Period selects a monthly game archive.
type Period struct {
	Year  int
	Month time.Month
}

// Entry is a cached provider payload with its fetch time.
type Entry struct {
	Payload   Payload
	FetchedAt time.Time
}

// CacheStore is the narrow key-value surface the cache runs on, so the
// process-local map can later be swapped for a shared store without touching
// call sites.
type CacheStore interface {
	Get(key string) (Entry, bool)
	Put(key string, entry Entry)
	PurgeExpired(cutoff time.Time)
}

// Fetcher performs the one-shot upstream call on a miss.
type Fetcher func(ctx context.Context) (Payload, error)

// Cache memoizes successful provider fetches for a bounded time. Errors are
// never stored: an identical request right after a failure re-attempts the
// upstream call, so transient provider trouble clears as soon as it clears
// upstream instead of being replayed for a full TTL.
type Cache struct {
	store  CacheStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache creates a cache over the given store. A non-positive ttl falls
// back to DefaultTTL.
func NewCache(store CacheStore, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// GetOrFetch returns the live cached payload for the key, or invokes fetch.
// A successful fetch is stored with a fresh timestamp; a failed fetch is
// returned as-is and leaves the cache untouched.
func (c *Cache) GetOrFetch(ctx context.Context, kind Kind, username string, period *Period, fetch Fetcher) (Payload, error) {
	key := cacheKey(kind, username, period)

	if entry, ok := c.store.Get(key); ok && time.Since(entry.FetchedAt) < c.ttl {
		c.logger.Debug("cache hit", zap.String("key", key))

		return entry.Payload, nil
	}

	return c.Refresh(ctx, kind, username, period, fetch)
}

// Refresh bypasses any live entry and always invokes fetch, overwriting the
// cache on success. Bulk rating sync uses this to guarantee current data.
func (c *Cache) Refresh(ctx context.Context, kind Kind, username string, period *Period, fetch Fetcher) (Payload, error) {
	key := cacheKey(kind, username, period)

	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.store.Put(key, Entry{Payload: payload, FetchedAt: time.Now()})

	return payload, nil
}

// TTL reports the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// cacheKey builds the cache key from the resource kind, the lowercased
// username, and for game archives the month. Lowercasing up front means case
// variation in requests never splits entries.
func cacheKey(kind Kind, username string, period *Period) string {
	key := fmt.Sprintf("%s:%s", kind, NormalizeUsername(username))
	if period != nil {
		key = fmt.Sprintf("%s:%04d-%02d", key, period.Year, period.Month)
	}

	return key
}

// NormalizeUsername lowercases a provider username for keying and URLs.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
