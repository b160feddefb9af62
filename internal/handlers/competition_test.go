package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/echess/club-api/internal/club"
	"github.com/echess/club-api/internal/handlers"
	"github.com/echess/club-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type competitionFixture struct {
	handler     *handlers.CompetitionHandler
	matches     *store.MatchMemoryStore
	tournaments *store.TournamentMemoryStore
	members     *store.MemberMemoryStore
}

func newCompetitionFixture(t *testing.T) *competitionFixture {
	t.Helper()

	matches := store.NewMatchMemoryStore()
	tournaments := store.NewTournamentMemoryStore()
	members := store.NewMemberMemoryStore()

	require.NoError(t, members.Create(context.Background(), &club.Member{ID: "m1", Name: "Alice"}))
	require.NoError(t, members.Create(context.Background(), &club.Member{ID: "m2", Name: "Bob"}))

	return &competitionFixture{
		handler:     handlers.NewCompetitionHandler(matches, tournaments, members, noopPublish(), zap.NewNop()),
		matches:     matches,
		tournaments: tournaments,
		members:     members,
	}
}

func createMatchReq(player1, player2, result string) *handlers.CreateMatchRequest {
	req := &handlers.CreateMatchRequest{}
	req.Body.Player1ID = player1
	req.Body.Player2ID = player2
	req.Body.Result = result
	req.Body.Date = time.Date(2026, time.March, 14, 18, 0, 0, 0, time.UTC)

	return req
}

func TestCreateMatch(t *testing.T) {
	t.Run("records a game with resolved names", func(t *testing.T) {
		f := newCompetitionFixture(t)

		resp, err := f.handler.CreateMatch(context.Background(), createMatchReq("m1", "m2", "1-0"))

		require.NoError(t, err)
		assert.Equal(t, "Alice", resp.Body.Player1Name)
		assert.Equal(t, "Bob", resp.Body.Player2Name)
		assert.Equal(t, "1-0", resp.Body.Result)
	})

	t.Run("rejects a match against oneself", func(t *testing.T) {
		f := newCompetitionFixture(t)

		_, err := f.handler.CreateMatch(context.Background(), createMatchReq("m1", "m1", "1/2-1/2"))

		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("rejects unknown players", func(t *testing.T) {
		f := newCompetitionFixture(t)

		_, err := f.handler.CreateMatch(context.Background(), createMatchReq("ghost", "m2", "0-1"))
		assertStatus(t, err, http.StatusBadRequest)

		_, err = f.handler.CreateMatch(context.Background(), createMatchReq("m1", "ghost", "0-1"))
		assertStatus(t, err, http.StatusBadRequest)
	})
}

func TestDeleteMatch(t *testing.T) {
	f := newCompetitionFixture(t)

	created, err := f.handler.CreateMatch(context.Background(), createMatchReq("m1", "m2", "1-0"))
	require.NoError(t, err)

	_, err = f.handler.DeleteMatch(context.Background(), &handlers.DeleteMatchRequest{ID: created.Body.ID})
	require.NoError(t, err)

	_, err = f.handler.DeleteMatch(context.Background(), &handlers.DeleteMatchRequest{ID: created.Body.ID})
	assertStatus(t, err, http.StatusNotFound)
}

func createTournamentReq(name, status string) *handlers.CreateTournamentRequest {
	req := &handlers.CreateTournamentRequest{}
	req.Body.Name = name
	req.Body.StartDate = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
	req.Body.Status = status

	return req
}

func TestTournaments(t *testing.T) {
	t.Run("create defaults to upcoming", func(t *testing.T) {
		f := newCompetitionFixture(t)

		resp, err := f.handler.CreateTournament(context.Background(), createTournamentReq("Autumn Open", ""))

		require.NoError(t, err)
		assert.Equal(t, club.TournamentUpcoming, resp.Body.Status)
		assert.Empty(t, resp.Body.Participants)
	})

	t.Run("get returns a single tournament", func(t *testing.T) {
		f := newCompetitionFixture(t)

		created, err := f.handler.CreateTournament(context.Background(), createTournamentReq("Autumn Open", ""))
		require.NoError(t, err)

		resp, err := f.handler.GetTournament(context.Background(), &handlers.GetTournamentRequest{ID: created.Body.ID})

		require.NoError(t, err)
		assert.Equal(t, "Autumn Open", resp.Body.Name)
		assert.Equal(t, created.Body.ID, resp.Body.ID)
	})

	t.Run("get 404 for unknown tournament", func(t *testing.T) {
		f := newCompetitionFixture(t)

		_, err := f.handler.GetTournament(context.Background(), &handlers.GetTournamentRequest{ID: "missing"})

		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("join enrolls a member once", func(t *testing.T) {
		f := newCompetitionFixture(t)

		created, err := f.handler.CreateTournament(context.Background(), createTournamentReq("Autumn Open", ""))
		require.NoError(t, err)

		join := &handlers.JoinTournamentRequest{ID: created.Body.ID}
		join.Body.MemberID = "m1"

		resp, err := f.handler.JoinTournament(context.Background(), join)
		require.NoError(t, err)
		assert.Equal(t, []string{"m1"}, resp.Body.Participants)

		resp, err = f.handler.JoinTournament(context.Background(), join)
		require.NoError(t, err)
		assert.Equal(t, []string{"m1"}, resp.Body.Participants, "joining twice is a no-op")
	})

	t.Run("join rejects non-members", func(t *testing.T) {
		f := newCompetitionFixture(t)

		created, err := f.handler.CreateTournament(context.Background(), createTournamentReq("Autumn Open", ""))
		require.NoError(t, err)

		join := &handlers.JoinTournamentRequest{ID: created.Body.ID}
		join.Body.MemberID = "ghost"

		_, err = f.handler.JoinTournament(context.Background(), join)
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("completed tournaments are closed", func(t *testing.T) {
		f := newCompetitionFixture(t)

		created, err := f.handler.CreateTournament(context.Background(), createTournamentReq("Spring Open", club.TournamentCompleted))
		require.NoError(t, err)

		join := &handlers.JoinTournamentRequest{ID: created.Body.ID}
		join.Body.MemberID = "m1"

		_, err = f.handler.JoinTournament(context.Background(), join)
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("404 when joining an unknown tournament", func(t *testing.T) {
		f := newCompetitionFixture(t)

		join := &handlers.JoinTournamentRequest{ID: "missing"}
		join.Body.MemberID = "m1"

		_, err := f.handler.JoinTournament(context.Background(), join)
		assertStatus(t, err, http.StatusNotFound)
	})
}
