package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/audit"
	"github.com/echess/club-api/internal/club"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompetitionHandler handles matches and tournaments.
type CompetitionHandler struct {
	matches     club.MatchRepository
	tournaments club.TournamentRepository
	members     club.MemberRepository
	publish     audit.Publish
	logger      *zap.Logger
}

// NewCompetitionHandler creates a new competition handler.
func NewCompetitionHandler(
	matches club.MatchRepository,
	tournaments club.TournamentRepository,
	members club.MemberRepository,
	publish audit.Publish,
	logger *zap.Logger,
) *CompetitionHandler {
	return &CompetitionHandler{
		matches:     matches,
		tournaments: tournaments,
		members:     members,
		publish:     publish,
		logger:      logger,
	}
}

// MatchDTO is the wire shape of a recorded match.
type MatchDTO struct {
	ID             string    `json:"id"`
	Player1ID      string    `json:"player1Id"`
	Player1Name    string    `json:"player1Name"`
	Player2ID      string    `json:"player2Id"`
	Player2Name    string    `json:"player2Name"`
	Result         string    `json:"result"`
	Date           time.Time `json:"date"`
	TournamentName string    `json:"tournamentName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func matchDTO(m *club.Match) MatchDTO {
	return MatchDTO{
		ID:             m.ID,
		Player1ID:      m.Player1ID,
		Player1Name:    m.Player1Name,
		Player2ID:      m.Player2ID,
		Player2Name:    m.Player2Name,
		Result:         m.Result,
		Date:           m.Date,
		TournamentName: m.TournamentName,
		CreatedAt:      m.CreatedAt,
	}
}

type ListMatchesResponse struct {
	Body struct {
		Matches []MatchDTO `json:"matches"`
	}
}

func (h *CompetitionHandler) ListMatches(ctx context.Context, _ *struct{}) (*ListMatchesResponse, error) {
	matches, err := h.matches.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list matches")
	}

	resp := &ListMatchesResponse{}
	resp.Body.Matches = make([]MatchDTO, 0, len(matches))

	for i := range matches {
		resp.Body.Matches = append(resp.Body.Matches, matchDTO(&matches[i]))
	}

	return resp, nil
}

type CreateMatchRequest struct {
	Body struct {
		Player1ID      string    `doc:"First player's member id"      json:"player1Id" minLength:"1"`
		Player2ID      string    `doc:"Second player's member id"     json:"player2Id" minLength:"1"`
		Result         string    `doc:"Game result"                   enum:"1-0,0-1,1/2-1/2" json:"result"`
		Date           time.Time `doc:"When the game was played"      json:"date"`
		TournamentName string    `doc:"Tournament label (optional)"   json:"tournamentName,omitempty" required:"false"`
	}
}

type CreateMatchResponse struct {
	Body MatchDTO
}

// CreateMatch records a finished game between two members. Player names are
// resolved from the directory at write time so the record survives later
// member renames.
func (h *CompetitionHandler) CreateMatch(ctx context.Context, req *CreateMatchRequest) (*CreateMatchResponse, error) {
	if req.Body.Player1ID == req.Body.Player2ID {
		return nil, huma.Error400BadRequest("a match needs two different players")
	}

	player1, err := h.members.Get(ctx, req.Body.Player1ID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error400BadRequest("player 1 is not a club member")
		}

		return nil, huma.Error500InternalServerError("failed to create match")
	}

	player2, err := h.members.Get(ctx, req.Body.Player2ID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error400BadRequest("player 2 is not a club member")
		}

		return nil, huma.Error500InternalServerError("failed to create match")
	}

	match := &club.Match{
		ID:             uuid.NewString(),
		Player1ID:      player1.ID,
		Player1Name:    player1.Name,
		Player2ID:      player2.ID,
		Player2Name:    player2.Name,
		Result:         req.Body.Result,
		Date:           req.Body.Date,
		TournamentName: req.Body.TournamentName,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.matches.Create(ctx, match); err != nil {
		return nil, huma.Error500InternalServerError("failed to create match")
	}

	publishAudit(ctx, h.publish, h.logger, "create", "match", match.ID)

	return &CreateMatchResponse{Body: matchDTO(match)}, nil
}

type DeleteMatchRequest struct {
	ID string `doc:"Match id" path:"id"`
}

type DeleteMatchResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *CompetitionHandler) DeleteMatch(ctx context.Context, req *DeleteMatchRequest) (*DeleteMatchResponse, error) {
	if err := h.matches.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("match not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete match")
	}

	publishAudit(ctx, h.publish, h.logger, "delete", "match", req.ID)

	resp := &DeleteMatchResponse{}
	resp.Body.Message = "match deleted"

	return resp, nil
}

// TournamentDTO is the wire shape of a tournament.
type TournamentDTO struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Status       string     `json:"status"`
	Participants []string   `json:"participants"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func tournamentDTO(t *club.Tournament) TournamentDTO {
	participants := t.Participants
	if participants == nil {
		participants = []string{}
	}

	return TournamentDTO{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		Status:       t.Status,
		Participants: participants,
		CreatedAt:    t.CreatedAt,
	}
}

type ListTournamentsResponse struct {
	Body struct {
		Tournaments []TournamentDTO `json:"tournaments"`
	}
}

func (h *CompetitionHandler) ListTournaments(ctx context.Context, _ *struct{}) (*ListTournamentsResponse, error) {
	tournaments, err := h.tournaments.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list tournaments")
	}

	resp := &ListTournamentsResponse{}
	resp.Body.Tournaments = make([]TournamentDTO, 0, len(tournaments))

	for i := range tournaments {
		resp.Body.Tournaments = append(resp.Body.Tournaments, tournamentDTO(&tournaments[i]))
	}

	return resp, nil
}

type GetTournamentRequest struct {
	ID string `doc:"Tournament id" path:"id"`
}

type GetTournamentResponse struct {
	Body TournamentDTO
}

func (h *CompetitionHandler) GetTournament(ctx context.Context, req *GetTournamentRequest) (*GetTournamentResponse, error) {
	tournament, err := h.tournaments.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("tournament not found")
		}

		return nil, huma.Error500InternalServerError("failed to get tournament")
	}

	return &GetTournamentResponse{Body: tournamentDTO(tournament)}, nil
}

type CreateTournamentRequest struct {
	Body struct {
		Name        string     `doc:"Tournament name"           json:"name" minLength:"1"`
		Description string     `doc:"Description (optional)"    json:"description,omitempty" required:"false"`
		StartDate   time.Time  `doc:"First round date"          json:"startDate"`
		EndDate     *time.Time `doc:"Last round date (optional)" json:"endDate,omitempty" required:"false"`
		Status      string     `default:"upcoming" doc:"Tournament status" enum:"upcoming,ongoing,completed" json:"status,omitempty" required:"false"`
	}
}

type CreateTournamentResponse struct {
	Body TournamentDTO
}

func (h *CompetitionHandler) CreateTournament(ctx context.Context, req *CreateTournamentRequest) (*CreateTournamentResponse, error) {
	status := req.Body.Status
	if status == "" {
		status = club.TournamentUpcoming
	}

	tournament := &club.Tournament{
		ID:           uuid.NewString(),
		Name:         req.Body.Name,
		Description:  req.Body.Description,
		StartDate:    req.Body.StartDate,
		EndDate:      req.Body.EndDate,
		Status:       status,
		Participants: []string{},
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.tournaments.Create(ctx, tournament); err != nil {
		return nil, huma.Error500InternalServerError("failed to create tournament")
	}

	publishAudit(ctx, h.publish, h.logger, "create", "tournament", tournament.ID)

	return &CreateTournamentResponse{Body: tournamentDTO(tournament)}, nil
}

type UpdateTournamentRequest struct {
	ID   string `doc:"Tournament id" path:"id"`
	Body struct {
		Name        string     `doc:"Tournament name"           json:"name" minLength:"1"`
		Description string     `doc:"Description (optional)"    json:"description,omitempty" required:"false"`
		StartDate   time.Time  `doc:"First round date"          json:"startDate"`
		EndDate     *time.Time `doc:"Last round date (optional)" json:"endDate,omitempty" required:"false"`
		Status      string     `doc:"Tournament status" enum:"upcoming,ongoing,completed" json:"status"`
	}
}

type UpdateTournamentResponse struct {
	Body TournamentDTO
}

func (h *CompetitionHandler) UpdateTournament(ctx context.Context, req *UpdateTournamentRequest) (*UpdateTournamentResponse, error) {
	tournament, err := h.tournaments.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("tournament not found")
		}

		return nil, huma.Error500InternalServerError("failed to get tournament")
	}

	tournament.Name = req.Body.Name
	tournament.Description = req.Body.Description
	tournament.StartDate = req.Body.StartDate
	tournament.EndDate = req.Body.EndDate
	tournament.Status = req.Body.Status

	if err := h.tournaments.Update(ctx, tournament); err != nil {
		return nil, huma.Error500InternalServerError("failed to update tournament")
	}

	publishAudit(ctx, h.publish, h.logger, "update", "tournament", tournament.ID)

	return &UpdateTournamentResponse{Body: tournamentDTO(tournament)}, nil
}

type JoinTournamentRequest struct {
	ID   string `doc:"Tournament id" path:"id"`
	Body struct {
		MemberID string `doc:"Member id to enroll" json:"memberId" minLength:"1"`
	}
}

type JoinTournamentResponse struct {
	Body TournamentDTO
}

// JoinTournament enrolls a member. Joining twice is a no-op, and completed
// tournaments are closed to new entries.
func (h *CompetitionHandler) JoinTournament(ctx context.Context, req *JoinTournamentRequest) (*JoinTournamentResponse, error) {
	tournament, err := h.tournaments.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("tournament not found")
		}

		return nil, huma.Error500InternalServerError("failed to get tournament")
	}

	if tournament.Status == club.TournamentCompleted {
		return nil, huma.Error400BadRequest("tournament is already completed")
	}

	if _, err := h.members.Get(ctx, req.Body.MemberID); err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error400BadRequest("member not found")
		}

		return nil, huma.Error500InternalServerError("failed to get member")
	}

	enrolled := false

	for _, id := range tournament.Participants {
		if id == req.Body.MemberID {
			enrolled = true

			break
		}
	}

	if !enrolled {
		tournament.Participants = append(tournament.Participants, req.Body.MemberID)

		if err := h.tournaments.Update(ctx, tournament); err != nil {
			return nil, huma.Error500InternalServerError("failed to update tournament")
		}
	}

	return &JoinTournamentResponse{Body: tournamentDTO(tournament)}, nil
}

type DeleteTournamentRequest struct {
	ID string `doc:"Tournament id" path:"id"`
}

type DeleteTournamentResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *CompetitionHandler) DeleteTournament(ctx context.Context, req *DeleteTournamentRequest) (*DeleteTournamentResponse, error) {
	if err := h.tournaments.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("tournament not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete tournament")
	}

	publishAudit(ctx, h.publish, h.logger, "delete", "tournament", req.ID)

	resp := &DeleteTournamentResponse{}
	resp.Body.Message = "tournament deleted"

	return resp, nil
}
