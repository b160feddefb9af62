package store

import (
	"context"
	"sync"
	"time"
)

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
// State is process-local; counters for distinct identities accumulate until
// swept, so run Sweep periodically to keep the map bounded.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		requests: make(map[string][]time.Time),
	}
}

func (s *RateLimitMemoryStore) Take(_ context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-window)

	// Prune timestamps that have fallen out of the window
	timestamps := s.requests[key]
	valid := make([]time.Time, 0, len(timestamps)+1)

	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	count := int64(len(valid))
	if count >= limit {
		// Denied requests are not recorded, so a full window drains on its own
		s.requests[key] = valid

		return false, count, nil
	}

	valid = append(valid, now)
	s.requests[key] = valid

	return true, count + 1, nil
}

// Sweep drops identities whose newest timestamp is older than maxAge.
// It keeps the map from growing without bound across distinct callers.
func (s *RateLimitMemoryStore) Sweep(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)

	for key, timestamps := range s.requests {
		if len(timestamps) == 0 || !timestamps[len(timestamps)-1].After(cutoff) {
			delete(s.requests, key)
		}
	}
}

// Len reports the number of tracked identities.
func (s *RateLimitMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}
