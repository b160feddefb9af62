package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/club"
	"go.uber.org/zap"
)

// AdminHandler serves the admin dashboard summary.
type AdminHandler struct {
	members     club.MemberRepository
	matches     club.MatchRepository
	tournaments club.TournamentRepository
	news        club.NewsRepository
	logger      *zap.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	members club.MemberRepository,
	matches club.MatchRepository,
	tournaments club.TournamentRepository,
	news club.NewsRepository,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		members:     members,
		matches:     matches,
		tournaments: tournaments,
		news:        news,
		logger:      logger,
	}
}

type DashboardStatsResponse struct {
	Body struct {
		Members     int64 `json:"members"`
		Matches     int64 `json:"matches"`
		Tournaments int64 `json:"tournaments"`
		News        int64 `json:"news"`
	}
}

// DashboardStats returns record counts for the admin dashboard.
func (h *AdminHandler) DashboardStats(ctx context.Context, _ *struct{}) (*DashboardStatsResponse, error) {
	resp := &DashboardStatsResponse{}

	counts := []struct {
		name  string
		count func(context.Context) (int64, error)
		dest  *int64
	}{
		{"members", h.members.Count, &resp.Body.Members},
		{"matches", h.matches.Count, &resp.Body.Matches},
		{"tournaments", h.tournaments.Count, &resp.Body.Tournaments},
		{"news", h.news.Count, &resp.Body.News},
	}

	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			h.logger.Error("failed to count records", zap.String("resource", c.name), zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to load dashboard stats")
		}

		*c.dest = n
	}

	return resp, nil
}
