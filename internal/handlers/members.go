package handlers

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/audit"
	"github.com/echess/club-api/internal/club"
	"github.com/echess/club-api/internal/ratings"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProviderClient is the slice of the rating client the member handler needs.
type ProviderClient interface {
	FetchStats(ctx context.Context, username string) (ratings.Payload, error)
	VerifyUsername(ctx context.Context, username string) (bool, error)
}

// MemberHandler handles member directory operations.
type MemberHandler struct {
	members  club.MemberRepository
	provider ProviderClient
	publish  audit.Publish
	logger   *zap.Logger
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(members club.MemberRepository, provider ProviderClient, publish audit.Publish, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{
		members:  members,
		provider: provider,
		publish:  publish,
		logger:   logger,
	}
}

// MemberDTO is the wire shape of a member.
type MemberDTO struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Department       string    `json:"department"`
	ChessComUsername string    `json:"chessComUsername"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	RapidRating      *int      `json:"rapidRating"`
	BlitzRating      *int      `json:"blitzRating"`
	BulletRating     *int      `json:"bulletRating"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func memberDTO(m *club.Member) MemberDTO {
	return MemberDTO{
		ID:               m.ID,
		Name:             m.Name,
		Department:       m.Department,
		ChessComUsername: m.ChessComUsername,
		Email:            m.Email,
		Phone:            m.Phone,
		RapidRating:      m.RapidRating,
		BlitzRating:      m.BlitzRating,
		BulletRating:     m.BulletRating,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

type ListMembersResponse struct {
	Body struct {
		Members []MemberDTO `json:"members"`
	}
}

func (h *MemberHandler) ListMembers(ctx context.Context, _ *struct{}) (*ListMembersResponse, error) {
	members, err := h.members.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list members")
	}

	resp := &ListMembersResponse{}
	resp.Body.Members = make([]MemberDTO, 0, len(members))

	for i := range members {
		resp.Body.Members = append(resp.Body.Members, memberDTO(&members[i]))
	}

	return resp, nil
}

type GetMemberRequest struct {
	ID string `doc:"Member id" path:"id"`
}

type GetMemberResponse struct {
	Body MemberDTO
}

func (h *MemberHandler) GetMember(ctx context.Context, req *GetMemberRequest) (*GetMemberResponse, error) {
	member, err := h.members.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("member not found")
		}

		return nil, huma.Error500InternalServerError("failed to get member")
	}

	return &GetMemberResponse{Body: memberDTO(member)}, nil
}

type CreateMemberRequest struct {
	Body struct {
		Name             string `doc:"Full name"                json:"name"             minLength:"1"`
		Department       string `doc:"University department"    json:"department"       minLength:"1"`
		ChessComUsername string `doc:"Chess.com username"       json:"chessComUsername" minLength:"1"`
		Email            string `doc:"Contact email"            format:"email"          json:"email"`
		Phone            string `doc:"Contact phone (optional)" json:"phone,omitempty"  required:"false"`
	}
}

type CreateMemberResponse struct {
	Body MemberDTO
}

// CreateMember verifies the chess.com username against the provider and
// seeds the member's ratings from their current stats. A provider outage is
// tolerated: the member is created without ratings and picked up by the next
// bulk sync.
func (h *MemberHandler) CreateMember(ctx context.Context, req *CreateMemberRequest) (*CreateMemberResponse, error) {
	exists, err := h.provider.VerifyUsername(ctx, req.Body.ChessComUsername)
	if err != nil {
		h.logger.Warn("username verification unavailable",
			zap.String("username", req.Body.ChessComUsername),
			zap.Error(err),
		)
	} else if !exists {
		return nil, huma.Error400BadRequest("chess.com username does not exist")
	}

	now := time.Now().UTC()
	member := &club.Member{
		ID:               uuid.NewString(),
		Name:             req.Body.Name,
		Department:       req.Body.Department,
		ChessComUsername: req.Body.ChessComUsername,
		Email:            req.Body.Email,
		Phone:            req.Body.Phone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if payload, err := h.provider.FetchStats(ctx, member.ChessComUsername); err == nil {
		r := ratings.ExtractRatings(payload)
		member.RapidRating = r.Rapid
		member.BlitzRating = r.Blitz
		member.BulletRating = r.Bullet
	}

	if err := h.members.Create(ctx, member); err != nil {
		return nil, huma.Error500InternalServerError("failed to create member")
	}

	publishAudit(ctx, h.publish, h.logger, "create", "member", member.ID)

	return &CreateMemberResponse{Body: memberDTO(member)}, nil
}

type UpdateMemberRequest struct {
	ID   string `doc:"Member id" path:"id"`
	Body struct {
		Name             string `doc:"Full name"                json:"name"             minLength:"1"`
		Department       string `doc:"University department"    json:"department"       minLength:"1"`
		ChessComUsername string `doc:"Chess.com username"       json:"chessComUsername" minLength:"1"`
		Email            string `doc:"Contact email"            format:"email"          json:"email"`
		Phone            string `doc:"Contact phone (optional)" json:"phone,omitempty"  required:"false"`
	}
}

type UpdateMemberResponse struct {
	Body MemberDTO
}

// UpdateMember updates directory fields and re-fetches ratings when they are
// available, mirroring CreateMember's tolerance of provider trouble.
func (h *MemberHandler) UpdateMember(ctx context.Context, req *UpdateMemberRequest) (*UpdateMemberResponse, error) {
	member, err := h.members.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("member not found")
		}

		return nil, huma.Error500InternalServerError("failed to get member")
	}

	member.Name = req.Body.Name
	member.Department = req.Body.Department
	member.ChessComUsername = req.Body.ChessComUsername
	member.Email = req.Body.Email
	member.Phone = req.Body.Phone
	member.UpdatedAt = time.Now().UTC()

	if payload, err := h.provider.FetchStats(ctx, member.ChessComUsername); err == nil {
		r := ratings.ExtractRatings(payload)
		member.RapidRating = r.Rapid
		member.BlitzRating = r.Blitz
		member.BulletRating = r.Bullet
	}

	if err := h.members.Update(ctx, member); err != nil {
		return nil, huma.Error500InternalServerError("failed to update member")
	}

	publishAudit(ctx, h.publish, h.logger, "update", "member", member.ID)

	return &UpdateMemberResponse{Body: memberDTO(member)}, nil
}

type DeleteMemberRequest struct {
	ID string `doc:"Member id" path:"id"`
}

type DeleteMemberResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *MemberHandler) DeleteMember(ctx context.Context, req *DeleteMemberRequest) (*DeleteMemberResponse, error) {
	if err := h.members.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("member not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete member")
	}

	publishAudit(ctx, h.publish, h.logger, "delete", "member", req.ID)

	resp := &DeleteMemberResponse{}
	resp.Body.Message = "member deleted"

	return resp, nil
}

type LeaderboardRequest struct {
	TimeControl string `default:"rapid" doc:"Time control to rank by" enum:"rapid,blitz,bullet" query:"time_control"`
}

// LeaderboardRow is a ranked member.
type LeaderboardRow struct {
	Rank   int       `json:"rank"`
	Member MemberDTO `json:"member"`
	Rating int       `json:"rating"`
}

type LeaderboardResponse struct {
	Body struct {
		TimeControl string           `json:"timeControl"`
		Leaderboard []LeaderboardRow `json:"leaderboard"`
	}
}

// Leaderboard ranks members by the requested time control, descending.
// Members without a rating for that control are excluded.
func (h *MemberHandler) Leaderboard(ctx context.Context, req *LeaderboardRequest) (*LeaderboardResponse, error) {
	members, err := h.members.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list members")
	}

	type rated struct {
		member club.Member
		rating int
	}

	ranked := make([]rated, 0, len(members))

	for _, m := range members {
		var rating *int

		switch req.TimeControl {
		case "blitz":
			rating = m.BlitzRating
		case "bullet":
			rating = m.BulletRating
		default:
			rating = m.RapidRating
		}

		if rating != nil {
			ranked = append(ranked, rated{member: m, rating: *rating})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].rating > ranked[j].rating
	})

	resp := &LeaderboardResponse{}
	resp.Body.TimeControl = req.TimeControl
	resp.Body.Leaderboard = make([]LeaderboardRow, 0, len(ranked))

	for i, r := range ranked {
		member := r.member
		resp.Body.Leaderboard = append(resp.Body.Leaderboard, LeaderboardRow{
			Rank:   i + 1,
			Member: memberDTO(&member),
			Rating: r.rating,
		})
	}

	return resp, nil
}
