package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/auth"
	"github.com/echess/club-api/internal/ratelimit"
)

// Handlers bundles the API surface for route registration.
type Handlers struct {
	Members     *MemberHandler
	Ratings     *RatingHandler
	Auth        *AuthHandler
	Competition *CompetitionHandler
	Content     *ContentHandler
	Admin       *AdminHandler
}

type RootResponse struct {
	Body struct {
		Service string `json:"service"`
		Status  string `json:"status"`
	}
}

func root(_ context.Context, _ *struct{}) (*RootResponse, error) {
	resp := &RootResponse{}
	resp.Body.Service = "chess club api"
	resp.Body.Status = "ok"

	return resp, nil
}

// RegisterRoutes registers all routes with per-endpoint rate limit
// configuration and auth guards. Unannotated endpoints run under the
// middleware's default quota.
func RegisterRoutes(api huma.API, verifier auth.Verifier, h *Handlers) {
	adminOnly := huma.Middlewares{auth.RequireAdmin(api, verifier)}
	memberOnly := huma.Middlewares{auth.RequireMember(api, verifier)}

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/",
		Summary: "Service info",
		Tags:    []string{"Service"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, root)

	// Member directory.
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/members",
		Summary: "List members",
		Tags:    []string{"Members"},
	}, h.Members.ListMembers)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/members/leaderboard",
		Summary: "Club leaderboard",
		Tags:    []string{"Members"},
	}, h.Members.Leaderboard)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/members/{id}",
		Summary: "Get member",
		Tags:    []string{"Members"},
	}, h.Members.GetMember)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/members",
		Summary:     "Create member",
		Middlewares: adminOnly,
		Tags:        []string{"Members"},
	}, h.Members.CreateMember)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPut,
		Path:        "/members/{id}",
		Summary:     "Update member",
		Middlewares: adminOnly,
		Tags:        []string{"Members"},
	}, h.Members.UpdateMember)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/members/{id}",
		Summary:     "Delete member",
		Middlewares: adminOnly,
		Tags:        []string{"Members"},
	}, h.Members.DeleteMember)

	// Chess.com proxy. Lookups share one tight quota because every cache miss
	// costs an upstream call.
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/chess-com/{username}",
		Summary: "Look up a chess.com player",
		Tags:    []string{"Ratings"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Family: "chess-com",
				Limit:  ratelimit.LimitConfig{Window: time.Minute, Max: 10},
			},
		},
	}, h.Ratings.GetPlayer)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/chess-com/{username}/games",
		Summary:     "Monthly game archive",
		Middlewares: memberOnly,
		Tags:        []string{"Ratings"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Family: "games",
				Limit:  ratelimit.LimitConfig{Window: time.Minute, Max: 5},
			},
		},
	}, h.Ratings.GetPlayerGames)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/admin/members/refresh-ratings",
		Summary:     "Refresh all member ratings",
		Middlewares: adminOnly,
		Tags:        []string{"Ratings"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Family: "refresh",
				Limit:  ratelimit.LimitConfig{Window: time.Minute, Max: 2},
			},
		},
	}, h.Ratings.RefreshRatings)

	// Accounts.
	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/admin/register",
		Summary: "Register admin account",
		Tags:    []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Family: "register",
				Limit:  ratelimit.LimitConfig{Window: time.Minute, Max: 3},
			},
		},
	}, h.Auth.RegisterAdmin)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/register",
		Summary: "Register member account",
		Tags:    []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Family: "register",
				Limit:  ratelimit.LimitConfig{Window: time.Minute, Max: 3},
			},
		},
	}, h.Auth.RegisterMember)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/admin/login",
		Summary: "Log in",
		Tags:    []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Family: "login",
				Limit:  ratelimit.LimitConfig{Window: time.Minute, Max: 5},
			},
		},
	}, h.Auth.Login)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/admin/me",
		Summary:     "Current account",
		Middlewares: memberOnly,
		Tags:        []string{"Auth"},
	}, h.Auth.Me)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/password-reset",
		Summary: "Request password reset",
		Tags:    []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Family: "reset",
				Limit:  ratelimit.LimitConfig{Window: time.Minute, Max: 3},
			},
		},
	}, h.Auth.RequestPasswordReset)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/auth/password-reset/confirm",
		Summary: "Confirm password reset",
		Tags:    []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Family: "reset",
				Limit:  ratelimit.LimitConfig{Window: time.Minute, Max: 3},
			},
		},
	}, h.Auth.ConfirmPasswordReset)

	// Matches.
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/matches",
		Summary: "List matches",
		Tags:    []string{"Competition"},
	}, h.Competition.ListMatches)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/matches",
		Summary:     "Record match",
		Middlewares: adminOnly,
		Tags:        []string{"Competition"},
	}, h.Competition.CreateMatch)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/matches/{id}",
		Summary:     "Delete match",
		Middlewares: adminOnly,
		Tags:        []string{"Competition"},
	}, h.Competition.DeleteMatch)

	// Tournaments.
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/tournaments",
		Summary: "List tournaments",
		Tags:    []string{"Competition"},
	}, h.Competition.ListTournaments)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/tournaments/{id}",
		Summary: "Get tournament",
		Tags:    []string{"Competition"},
	}, h.Competition.GetTournament)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/tournaments",
		Summary:     "Create tournament",
		Middlewares: adminOnly,
		Tags:        []string{"Competition"},
	}, h.Competition.CreateTournament)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPut,
		Path:        "/tournaments/{id}",
		Summary:     "Update tournament",
		Middlewares: adminOnly,
		Tags:        []string{"Competition"},
	}, h.Competition.UpdateTournament)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/tournaments/{id}/join",
		Summary:     "Join tournament",
		Middlewares: memberOnly,
		Tags:        []string{"Competition"},
	}, h.Competition.JoinTournament)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/tournaments/{id}",
		Summary:     "Delete tournament",
		Middlewares: adminOnly,
		Tags:        []string{"Competition"},
	}, h.Competition.DeleteTournament)

	// News.
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/news",
		Summary: "List news",
		Tags:    []string{"Content"},
	}, h.Content.ListNews)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/news/{id}",
		Summary: "Get news post",
		Tags:    []string{"Content"},
	}, h.Content.GetNews)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/news",
		Summary:     "Publish news",
		Middlewares: adminOnly,
		Tags:        []string{"Content"},
	}, h.Content.CreateNews)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPut,
		Path:        "/news/{id}",
		Summary:     "Update news post",
		Middlewares: adminOnly,
		Tags:        []string{"Content"},
	}, h.Content.UpdateNews)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/news/{id}",
		Summary:     "Delete news post",
		Middlewares: adminOnly,
		Tags:        []string{"Content"},
	}, h.Content.DeleteNews)

	// Events.
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/events",
		Summary: "List events",
		Tags:    []string{"Content"},
	}, h.Content.ListEvents)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/events",
		Summary:     "Create event",
		Middlewares: adminOnly,
		Tags:        []string{"Content"},
	}, h.Content.CreateEvent)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPut,
		Path:        "/events/{id}",
		Summary:     "Update event",
		Middlewares: adminOnly,
		Tags:        []string{"Content"},
	}, h.Content.UpdateEvent)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/events/{id}",
		Summary:     "Delete event",
		Middlewares: adminOnly,
		Tags:        []string{"Content"},
	}, h.Content.DeleteEvent)

	// Gallery.
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/gallery",
		Summary: "List gallery",
		Tags:    []string{"Content"},
	}, h.Content.ListGallery)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/gallery",
		Summary:     "Add gallery item",
		Middlewares: adminOnly,
		Tags:        []string{"Content"},
	}, h.Content.CreateGalleryItem)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/gallery/{id}",
		Summary:     "Delete gallery item",
		Middlewares: adminOnly,
		Tags:        []string{"Content"},
	}, h.Content.DeleteGalleryItem)

	// Admin dashboard.
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/admin/stats",
		Summary:     "Dashboard stats",
		Middlewares: adminOnly,
		Tags:        []string{"Admin"},
	}, h.Admin.DashboardStats)
}
