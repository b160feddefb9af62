package ratings_test

import (
	"context"
	"testing"
	"time"

	"github.com/echess/club-api/internal/club"
	"github.com/echess/club-api/internal/ratings"
	"github.com/echess/club-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedFetcher struct {
	results map[string]ratings.Payload
	errs    map[string]error
	calls   []string
}

func (f *scriptedFetcher) RefreshStats(_ context.Context, username string) (ratings.Payload, error) {
	f.calls = append(f.calls, username)

	if err, ok := f.errs[username]; ok {
		return nil, err
	}

	return f.results[username], nil
}

func seedMembers(t *testing.T, repo club.MemberRepository, members ...club.Member) {
	t.Helper()

	for i := range members {
		require.NoError(t, repo.Create(context.Background(), &members[i]))
	}
}

func TestSyncer_RefreshAll(t *testing.T) {
	ctx := context.Background()

	t.Run("updates every member", func(t *testing.T) {
		repo := store.NewMemberMemoryStore()
		seedMembers(t, repo,
			club.Member{ID: "m1", Name: "Alice", ChessComUsername: "alice_c"},
			club.Member{ID: "m2", Name: "Bob", ChessComUsername: "bob_c"},
		)

		fetcher := &scriptedFetcher{results: map[string]ratings.Payload{
			"alice_c": []byte(`{"chess_rapid":{"last":{"rating":1500}}}`),
			"bob_c":   []byte(`{"chess_blitz":{"last":{"rating":1300}}}`),
		}}

		syncer := ratings.NewSyncer(fetcher, repo, 0, zap.NewNop())
		members, err := repo.List(ctx)
		require.NoError(t, err)

		outcome := syncer.RefreshAll(ctx, members)

		assert.Equal(t, 2, outcome.Updated)
		assert.Empty(t, outcome.Failures)

		alice, err := repo.Get(ctx, "m1")
		require.NoError(t, err)
		require.NotNil(t, alice.RapidRating)
		assert.Equal(t, 1500, *alice.RapidRating)

		bob, err := repo.Get(ctx, "m2")
		require.NoError(t, err)
		require.NotNil(t, bob.BlitzRating)
		assert.Equal(t, 1300, *bob.BlitzRating)
	})

	t.Run("a member failure does not stop the batch", func(t *testing.T) {
		repo := store.NewMemberMemoryStore()
		seedMembers(t, repo,
			club.Member{ID: "m1", Name: "Alice", ChessComUsername: "alice_c"},
			club.Member{ID: "m2", Name: "Bob", ChessComUsername: "bob_c"},
			club.Member{ID: "m3", Name: "Carol", ChessComUsername: "carol_c"},
		)

		fetcher := &scriptedFetcher{
			results: map[string]ratings.Payload{
				"alice_c": []byte(`{}`),
				"carol_c": []byte(`{}`),
			},
			errs: map[string]error{
				"bob_c": &ratings.ProviderError{Kind: ratings.KindNotFound, StatusCode: 404, Message: "not found"},
			},
		}

		syncer := ratings.NewSyncer(fetcher, repo, 0, zap.NewNop())
		members, err := repo.List(ctx)
		require.NoError(t, err)

		outcome := syncer.RefreshAll(ctx, members)

		assert.Equal(t, 2, outcome.Updated)
		require.Len(t, outcome.Failures, 1)
		assert.Equal(t, "Bob: not found", outcome.Failures[0])
		assert.Equal(t, []string{"alice_c", "bob_c", "carol_c"}, fetcher.calls, "batch processes every member in order")
	})

	t.Run("paces calls with the configured delay", func(t *testing.T) {
		repo := store.NewMemberMemoryStore()
		seedMembers(t, repo,
			club.Member{ID: "m1", Name: "Alice", ChessComUsername: "alice_c"},
			club.Member{ID: "m2", Name: "Bob", ChessComUsername: "bob_c"},
		)

		fetcher := &scriptedFetcher{results: map[string]ratings.Payload{
			"alice_c": []byte(`{}`),
			"bob_c":   []byte(`{}`),
		}}

		delay := 60 * time.Millisecond
		syncer := ratings.NewSyncer(fetcher, repo, delay, zap.NewNop())

		members, err := repo.List(ctx)
		require.NoError(t, err)

		start := time.Now()
		syncer.RefreshAll(ctx, members)

		assert.GreaterOrEqual(t, time.Since(start), delay, "one pause between two members")
	})

	t.Run("empty roster is a no-op", func(t *testing.T) {
		repo := store.NewMemberMemoryStore()
		fetcher := &scriptedFetcher{}
		syncer := ratings.NewSyncer(fetcher, repo, 0, zap.NewNop())

		outcome := syncer.RefreshAll(ctx, nil)

		assert.Equal(t, 0, outcome.Updated)
		assert.Empty(t, outcome.Failures)
		assert.Empty(t, fetcher.calls)
	})
}
