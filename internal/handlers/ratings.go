package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/club"
	"github.com/echess/club-api/internal/ratings"
	"go.uber.org/zap"
)

// RatingClient is the slice of the rating client the rating handler needs.
type RatingClient interface {
	FetchStats(ctx context.Context, username string) (ratings.Payload, error)
	FetchProfile(ctx context.Context, username string) (ratings.Payload, error)
	FetchGames(ctx context.Context, username string, year int, month time.Month) (ratings.Payload, error)
}

// Refresher is the slice of the syncer the rating handler needs.
type Refresher interface {
	RefreshAll(ctx context.Context, members []club.Member) *ratings.RefreshOutcome
}

// RatingHandler proxies rating provider lookups and drives the bulk refresh.
type RatingHandler struct {
	client  RatingClient
	syncer  Refresher
	members club.MemberRepository
	logger  *zap.Logger
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(client RatingClient, syncer Refresher, members club.MemberRepository, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{
		client:  client,
		syncer:  syncer,
		members: members,
		logger:  logger,
	}
}

type PlayerRequest struct {
	Username string `doc:"Chess.com username" minLength:"1" path:"username"`
}

type PlayerResponse struct {
	Body struct {
		Stats   ratings.Payload `json:"stats,omitempty"`
		Profile ratings.Payload `json:"profile,omitempty"`
	}
}

// GetPlayer returns a player's stats and profile in one response. Either
// section may be absent when its fetch fails; the call is a 404 only when the
// provider knows nothing about the username at all.
func (h *RatingHandler) GetPlayer(ctx context.Context, req *PlayerRequest) (*PlayerResponse, error) {
	stats, statsErr := h.client.FetchStats(ctx, req.Username)
	profile, profileErr := h.client.FetchProfile(ctx, req.Username)

	if statsErr != nil && profileErr != nil {
		var perr *ratings.ProviderError
		if errors.As(profileErr, &perr) && perr.Kind == ratings.KindNotFound {
			return nil, huma.Error404NotFound("player not found on chess.com")
		}

		return nil, providerHTTPError(profileErr)
	}

	resp := &PlayerResponse{}
	resp.Body.Stats = stats
	resp.Body.Profile = profile

	return resp, nil
}

type PlayerGamesRequest struct {
	Username string `doc:"Chess.com username"                 minLength:"1"    path:"username"`
	Year     int    `doc:"Archive year (defaults to current)" maximum:"2100"   minimum:"0"     query:"year"`
	Month    int    `doc:"Archive month (1-12)"               maximum:"12"     minimum:"0"     query:"month"`
}

type PlayerGamesResponse struct {
	Body struct {
		Games ratings.Payload `json:"games"`
	}
}

// GetPlayerGames returns a player's monthly game archive.
func (h *RatingHandler) GetPlayerGames(ctx context.Context, req *PlayerGamesRequest) (*PlayerGamesResponse, error) {
	payload, err := h.client.FetchGames(ctx, req.Username, req.Year, time.Month(req.Month))
	if err != nil {
		return nil, providerHTTPError(err)
	}

	resp := &PlayerGamesResponse{}
	resp.Body.Games = payload

	return resp, nil
}

type RefreshRatingsResponse struct {
	Body struct {
		Updated  int      `json:"updated"`
		Failures []string `json:"failures,omitempty"`
	}
}

// RefreshRatings force-refreshes every member's ratings from the provider.
// The run is sequential and throttled, so large rosters take a while; the
// response reports per-member failures without failing the batch.
func (h *RatingHandler) RefreshRatings(ctx context.Context, _ *struct{}) (*RefreshRatingsResponse, error) {
	members, err := h.members.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list members")
	}

	outcome := h.syncer.RefreshAll(ctx, members)

	resp := &RefreshRatingsResponse{}
	resp.Body.Updated = outcome.Updated
	resp.Body.Failures = outcome.Failures

	return resp, nil
}
