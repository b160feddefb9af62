package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/echess/club-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMemoryStore_Take(t *testing.T) {
	t.Run("admits requests under the limit", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		for i := range 3 {
			allowed, count, err := s.Take(context.Background(), "client1:reads", 3, time.Minute)

			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be admitted", i+1)
			assert.Equal(t, int64(i+1), count)
		}
	})

	t.Run("denies requests at the limit", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		for range 3 {
			_, _, err := s.Take(context.Background(), "client1:reads", 3, time.Minute)
			require.NoError(t, err)
		}

		allowed, count, err := s.Take(context.Background(), "client1:reads", 3, time.Minute)

		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, int64(3), count)
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		for range 3 {
			_, _, err := s.Take(context.Background(), "client1:reads", 3, time.Minute)
			require.NoError(t, err)
		}

		allowed, _, err := s.Take(context.Background(), "client2:reads", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "other clients keep their own counter")

		allowed, _, err = s.Take(context.Background(), "client1:login", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "other families keep their own counter")
	})

	t.Run("window expiry readmits", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()
		window := 100 * time.Millisecond

		for range 2 {
			allowed, _, err := s.Take(context.Background(), "client1:reads", 2, window)
			require.NoError(t, err)
			require.True(t, allowed)
		}

		allowed, _, err := s.Take(context.Background(), "client1:reads", 2, window)
		require.NoError(t, err)
		require.False(t, allowed)

		time.Sleep(window + 20*time.Millisecond)

		allowed, _, err = s.Take(context.Background(), "client1:reads", 2, window)
		require.NoError(t, err)
		assert.True(t, allowed, "should be admitted after the window passes")
	})

	t.Run("denied requests do not extend the window", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()
		window := 150 * time.Millisecond

		allowed, _, err := s.Take(context.Background(), "client1:reads", 1, window)
		require.NoError(t, err)
		require.True(t, allowed)

		// A denied attempt partway through must not reset the clock.
		time.Sleep(50 * time.Millisecond)

		allowed, _, err = s.Take(context.Background(), "client1:reads", 1, window)
		require.NoError(t, err)
		require.False(t, allowed)

		// Past the original window the key should be clear even though the
		// denied attempt was more recent.
		time.Sleep(window - 30*time.Millisecond)

		allowed, _, err = s.Take(context.Background(), "client1:reads", 1, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRateLimitMemoryStore_Sweep(t *testing.T) {
	s := store.NewRateLimitMemoryStore()

	_, _, err := s.Take(context.Background(), "stale", 10, time.Minute)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, _, err = s.Take(context.Background(), "fresh", 10, time.Minute)
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())

	s.Sweep(50 * time.Millisecond)

	assert.Equal(t, 1, s.Len(), "only the stale key should be dropped")
}
