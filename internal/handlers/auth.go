package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/auth"
	"github.com/echess/club-api/internal/club"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// resetTokenTTL is how long a password reset token stays redeemable.
const resetTokenTTL = time.Hour

// TokenIssuer issues signed bearer tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(subject, name string, role club.Role) (string, error)
}

// AuthHandler handles account registration, login, and password resets.
type AuthHandler struct {
	accounts    club.AccountRepository
	resetTokens club.ResetTokenRepository
	tokens      TokenIssuer
	newToken    func() string
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler. newToken generates opaque
// password reset tokens.
func NewAuthHandler(
	accounts club.AccountRepository,
	resetTokens club.ResetTokenRepository,
	tokens TokenIssuer,
	newToken func() string,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		accounts:    accounts,
		resetTokens: resetTokens,
		tokens:      tokens,
		newToken:    newToken,
		logger:      logger,
	}
}

type credentialsBody struct {
	Username string `doc:"Account username" json:"username" maxLength:"64" minLength:"3"`
	Email    string `doc:"Account email"    format:"email"  json:"email"`
	Password string `doc:"Password"         json:"password" maxLength:"72" minLength:"8"`
}

type RegisterRequest struct {
	Body credentialsBody
}

type RegisterResponse struct {
	Body struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
}

// RegisterAdmin creates an admin account.
func (h *AuthHandler) RegisterAdmin(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	return h.register(ctx, req, club.RoleAdmin)
}

// RegisterMember creates a member account.
func (h *AuthHandler) RegisterMember(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	return h.register(ctx, req, club.RoleMember)
}

func (h *AuthHandler) register(ctx context.Context, req *RegisterRequest, role club.Role) (*RegisterResponse, error) {
	hash, err := auth.HashPassword(req.Body.Password)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to create account")
	}

	account := &club.Account{
		ID:           uuid.NewString(),
		Username:     req.Body.Username,
		Email:        req.Body.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, club.ErrAlreadyExists) {
			return nil, huma.Error409Conflict("username already taken")
		}

		return nil, huma.Error500InternalServerError("failed to create account")
	}

	h.logger.Info("account registered",
		zap.String("username", account.Username),
		zap.String("role", string(role)),
	)

	resp := &RegisterResponse{}
	resp.Body.ID = account.ID
	resp.Body.Username = account.Username
	resp.Body.Role = string(account.Role)

	return resp, nil
}

type LoginRequest struct {
	Body struct {
		Username string `doc:"Account username" json:"username" minLength:"1"`
		Password string `doc:"Password"         json:"password" minLength:"1"`
	}
}

type LoginResponse struct {
	Body struct {
		Token    string `json:"token"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
}

// Login checks credentials and issues a bearer token carrying the account's
// role. Unknown usernames and wrong passwords get the same answer.
func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	account, err := h.accounts.GetByUsername(ctx, req.Body.Username)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error401Unauthorized("invalid credentials")
		}

		return nil, huma.Error500InternalServerError("failed to log in")
	}

	if !auth.CheckPassword(req.Body.Password, account.PasswordHash) {
		return nil, huma.Error401Unauthorized("invalid credentials")
	}

	token, err := h.tokens.Issue(account.ID, account.Username, account.Role)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to issue token")
	}

	resp := &LoginResponse{}
	resp.Body.Token = token
	resp.Body.Username = account.Username
	resp.Body.Role = string(account.Role)

	return resp, nil
}

type MeResponse struct {
	Body struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
}

// Me returns the authenticated account behind the presented token.
func (h *AuthHandler) Me(ctx context.Context, _ *struct{}) (*MeResponse, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	account, err := h.accounts.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error401Unauthorized("account no longer exists")
		}

		return nil, huma.Error500InternalServerError("failed to load account")
	}

	resp := &MeResponse{}
	resp.Body.ID = account.ID
	resp.Body.Username = account.Username
	resp.Body.Role = string(account.Role)

	return resp, nil
}

type RequestPasswordResetRequest struct {
	Body struct {
		Username string `doc:"Account username" json:"username" minLength:"1"`
	}
}

type RequestPasswordResetResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// RequestPasswordReset issues a single-use reset token. The response is the
// same whether or not the username exists, so the endpoint cannot be used to
// enumerate accounts.
func (h *AuthHandler) RequestPasswordReset(ctx context.Context, req *RequestPasswordResetRequest) (*RequestPasswordResetResponse, error) {
	resp := &RequestPasswordResetResponse{}
	resp.Body.Message = "if the account exists, a reset token has been issued"

	account, err := h.accounts.GetByUsername(ctx, req.Body.Username)
	if err != nil {
		if !errors.Is(err, club.ErrNotFound) {
			h.logger.Error("failed to look up account for reset", zap.Error(err))
		}

		return resp, nil
	}

	now := time.Now().UTC()
	token := &club.PasswordResetToken{
		Token:     h.newToken(),
		AccountID: account.ID,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}

	if err := h.resetTokens.Create(ctx, token); err != nil {
		h.logger.Error("failed to store reset token", zap.Error(err))

		return resp, nil
	}

	// TODO: deliver the token by email once the club has an SMTP relay.
	h.logger.Info("password reset token issued", zap.String("account_id", account.ID))

	return resp, nil
}

type ConfirmPasswordResetRequest struct {
	Body struct {
		Token    string `doc:"Reset token" json:"token"    minLength:"1"`
		Password string `doc:"New password" json:"password" maxLength:"72" minLength:"8"`
	}
}

type ConfirmPasswordResetResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// ConfirmPasswordReset redeems a reset token and replaces the account's
// password. Tokens are single use and expire after an hour.
func (h *AuthHandler) ConfirmPasswordReset(ctx context.Context, req *ConfirmPasswordResetRequest) (*ConfirmPasswordResetResponse, error) {
	token, err := h.resetTokens.Get(ctx, req.Body.Token)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error400BadRequest("invalid or expired reset token")
		}

		return nil, huma.Error500InternalServerError("failed to reset password")
	}

	if time.Now().UTC().After(token.ExpiresAt) {
		_ = h.resetTokens.Delete(ctx, token.Token)

		return nil, huma.Error400BadRequest("invalid or expired reset token")
	}

	hash, err := auth.HashPassword(req.Body.Password)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to reset password")
	}

	if err := h.accounts.UpdatePassword(ctx, token.AccountID, hash); err != nil {
		return nil, huma.Error500InternalServerError("failed to reset password")
	}

	if err := h.resetTokens.Delete(ctx, token.Token); err != nil {
		h.logger.Error("failed to delete redeemed reset token", zap.Error(err))
	}

	resp := &ConfirmPasswordResetResponse{}
	resp.Body.Message = "password updated"

	return resp, nil
}
