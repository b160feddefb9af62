package auth

import (
	"context"
	"errors"
	"time"

	"github.com/echess/club-api/internal/club"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the verified identity carried by a bearer token.
type Claims struct {
	Subject string
	Name    string
	Role    club.Role
}

type tokenClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. One verifier serves
// both roles; authorization is decided by the guards, not by separate token
// formats.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the subject.
func (s *TokenService) Issue(subject, name string, role club.Role) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Name: name,
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token, returning its claims.
func (s *TokenService) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	return &Claims{
		Subject: claims.Subject,
		Name:    claims.Name,
		Role:    club.Role(claims.Role),
	}, nil
}

type claimsKey struct{}

// ContextWithClaims adds verified claims to the context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext extracts verified claims from the context, if present.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)

	return claims, ok
}
