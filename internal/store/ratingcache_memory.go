package store

import (
	"sync"
	"time"

	"github.com/echess/club-api/internal/ratings"
)

// RatingCacheMemoryStore is an in-memory implementation of
// ratings.CacheStore. Writes are add/replace only; stale entries are ignored
// by readers and reclaimed by PurgeExpired.
type RatingCacheMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]ratings.Entry
}

// NewRatingCacheMemoryStore creates a new in-memory rating cache store.
func NewRatingCacheMemoryStore() *RatingCacheMemoryStore {
	return &RatingCacheMemoryStore{
		entries: make(map[string]ratings.Entry),
	}
}

func (s *RatingCacheMemoryStore) Get(key string) (ratings.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]

	return entry, ok
}

func (s *RatingCacheMemoryStore) Put(key string, entry ratings.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry
}

// PurgeExpired drops entries fetched before the cutoff. Without it the map
// grows with the product of usernames, resource kinds, and archive months.
func (s *RatingCacheMemoryStore) PurgeExpired(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.entries {
		if entry.FetchedAt.Before(cutoff) {
			delete(s.entries, key)
		}
	}
}

// Sweep drops entries older than maxAge. It adapts PurgeExpired to the
// janitor's interface.
func (s *RatingCacheMemoryStore) Sweep(maxAge time.Duration) {
	s.PurgeExpired(time.Now().Add(-maxAge))
}

// Len reports the number of stored entries.
func (s *RatingCacheMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
