package auth

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/club"
)

// Verifier is the slice of TokenService the guards need.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// RequireAdmin returns a middleware admitting only admin tokens.
func RequireAdmin(api huma.API, verifier Verifier) func(ctx huma.Context, next func(huma.Context)) {
	return guard(api, verifier, club.RoleAdmin)
}

// RequireMember returns a middleware admitting both member and admin tokens.
func RequireMember(api huma.API, verifier Verifier) func(ctx huma.Context, next func(huma.Context)) {
	return guard(api, verifier, club.RoleAdmin, club.RoleMember)
}

// guard verifies the bearer token and checks its role against the allowed
// set. Verified claims are placed on the request context for handlers.
func guard(api huma.API, verifier Verifier, roles ...club.Role) func(ctx huma.Context, next func(huma.Context)) {
	allowed := make(map[club.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		token := bearerToken(ctx)
		if token == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing bearer token")

			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, err.Error())

			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			_ = huma.WriteErr(api, ctx, http.StatusForbidden, "insufficient role")

			return
		}

		ctx = huma.WithContext(ctx, ContextWithClaims(ctx.Context(), claims))

		next(ctx)
	}
}

func bearerToken(ctx huma.Context) string {
	header := ctx.Header("Authorization")

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}
