package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/echess/club-api/internal/club"
	"github.com/echess/club-api/internal/handlers"
	"github.com/echess/club-api/internal/ratings"
	"github.com/echess/club-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRatingClient scripts every provider fetch the rating handler makes.
type mockRatingClient struct {
	stats      ratings.Payload
	statsErr   error
	profile    ratings.Payload
	profileErr error
	games      ratings.Payload
	gamesErr   error

	gamesYear  int
	gamesMonth time.Month
}

func (m *mockRatingClient) FetchStats(_ context.Context, _ string) (ratings.Payload, error) {
	return m.stats, m.statsErr
}

func (m *mockRatingClient) FetchProfile(_ context.Context, _ string) (ratings.Payload, error) {
	return m.profile, m.profileErr
}

func (m *mockRatingClient) FetchGames(_ context.Context, _ string, year int, month time.Month) (ratings.Payload, error) {
	m.gamesYear = year
	m.gamesMonth = month

	return m.games, m.gamesErr
}

// mockRefresher returns a canned refresh outcome and remembers its input.
type mockRefresher struct {
	outcome *ratings.RefreshOutcome
	seen    []club.Member
}

func (m *mockRefresher) RefreshAll(_ context.Context, members []club.Member) *ratings.RefreshOutcome {
	m.seen = members

	return m.outcome
}

func TestGetPlayer(t *testing.T) {
	t.Run("returns stats and profile", func(t *testing.T) {
		client := &mockRatingClient{
			stats:   []byte(`{"chess_rapid":{}}`),
			profile: []byte(`{"username":"magnus"}`),
		}
		handler := handlers.NewRatingHandler(client, &mockRefresher{}, store.NewMemberMemoryStore(), zap.NewNop())

		resp, err := handler.GetPlayer(context.Background(), &handlers.PlayerRequest{Username: "magnus"})

		require.NoError(t, err)
		assert.JSONEq(t, `{"chess_rapid":{}}`, string(resp.Body.Stats))
		assert.JSONEq(t, `{"username":"magnus"}`, string(resp.Body.Profile))
	})

	t.Run("partial failure still answers", func(t *testing.T) {
		client := &mockRatingClient{
			statsErr: &ratings.ProviderError{Kind: ratings.KindUpstreamError, StatusCode: 502, Message: "API error (status 502)"},
			profile:  []byte(`{"username":"magnus"}`),
		}
		handler := handlers.NewRatingHandler(client, &mockRefresher{}, store.NewMemberMemoryStore(), zap.NewNop())

		resp, err := handler.GetPlayer(context.Background(), &handlers.PlayerRequest{Username: "magnus"})

		require.NoError(t, err)
		assert.Nil(t, resp.Body.Stats)
		assert.NotNil(t, resp.Body.Profile)
	})

	t.Run("404 only when the provider knows nothing", func(t *testing.T) {
		notFound := &ratings.ProviderError{Kind: ratings.KindNotFound, StatusCode: 404, Message: "not found"}
		client := &mockRatingClient{statsErr: notFound, profileErr: notFound}
		handler := handlers.NewRatingHandler(client, &mockRefresher{}, store.NewMemberMemoryStore(), zap.NewNop())

		_, err := handler.GetPlayer(context.Background(), &handlers.PlayerRequest{Username: "ghost"})

		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("provider throttling surfaces as 429", func(t *testing.T) {
		limited := &ratings.ProviderError{Kind: ratings.KindRateLimited, StatusCode: 429, Message: "rate limit exceeded"}
		client := &mockRatingClient{statsErr: limited, profileErr: limited}
		handler := handlers.NewRatingHandler(client, &mockRefresher{}, store.NewMemberMemoryStore(), zap.NewNop())

		_, err := handler.GetPlayer(context.Background(), &handlers.PlayerRequest{Username: "magnus"})

		assertStatus(t, err, http.StatusTooManyRequests)
	})
}

func TestGetPlayerGames(t *testing.T) {
	t.Run("passes the requested archive through", func(t *testing.T) {
		client := &mockRatingClient{games: []byte(`{"games":[]}`)}
		handler := handlers.NewRatingHandler(client, &mockRefresher{}, store.NewMemberMemoryStore(), zap.NewNop())

		resp, err := handler.GetPlayerGames(context.Background(), &handlers.PlayerGamesRequest{
			Username: "magnus",
			Year:     2025,
			Month:    3,
		})

		require.NoError(t, err)
		assert.JSONEq(t, `{"games":[]}`, string(resp.Body.Games))
		assert.Equal(t, 2025, client.gamesYear)
		assert.Equal(t, time.March, client.gamesMonth)
	})

	t.Run("provider errors map to their status", func(t *testing.T) {
		client := &mockRatingClient{
			gamesErr: &ratings.ProviderError{Kind: ratings.KindNotFound, StatusCode: 404, Message: "not found"},
		}
		handler := handlers.NewRatingHandler(client, &mockRefresher{}, store.NewMemberMemoryStore(), zap.NewNop())

		_, err := handler.GetPlayerGames(context.Background(), &handlers.PlayerGamesRequest{Username: "ghost"})

		assertStatus(t, err, http.StatusNotFound)
	})
}

func TestRefreshRatings(t *testing.T) {
	ctx := context.Background()
	members := store.NewMemberMemoryStore()
	require.NoError(t, members.Create(ctx, &club.Member{ID: "m1", Name: "Alice"}))
	require.NoError(t, members.Create(ctx, &club.Member{ID: "m2", Name: "Bob"}))

	refresher := &mockRefresher{
		outcome: &ratings.RefreshOutcome{Updated: 1, Failures: []string{"Bob: not found"}},
	}
	handler := handlers.NewRatingHandler(&mockRatingClient{}, refresher, members, zap.NewNop())

	resp, err := handler.RefreshRatings(ctx, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Body.Updated)
	assert.Equal(t, []string{"Bob: not found"}, resp.Body.Failures)
	assert.Len(t, refresher.seen, 2, "whole roster handed to the syncer")
}
