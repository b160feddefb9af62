package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware enforcing per-endpoint quotas. Each
// endpoint family gets its own counter per caller, so hammering the rating
// proxy cannot lock a client out of member listings. Endpoints configure
// their quota via ratelimit.MetadataKey operation metadata; operations
// without one get defaultLimit keyed by their route template.
func RateLimiter(
	api huma.API,
	store ratelimit.Store,
	defaultLimit ratelimit.LimitConfig,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		limit := defaultLimit
		family := operationPath(ctx)

		if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil {
			if cfg.Disabled {
				next(ctx)

				return
			}

			if cfg.Family != "" {
				family = cfg.Family
			}

			if cfg.Limit.Max > 0 {
				limit = cfg.Limit
			}
		}

		if limit.Window <= 0 {
			limit.Window = ratelimit.DefaultWindow
		}

		key := fmt.Sprintf("%s:%s", clientIP(ctx), family)

		allowed, count, err := store.Take(ctx.Context(), key, limit.Max, limit.Window)
		if err != nil {
			logger.Error("rate limit check failed", zap.String("family", family), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			logger.Warn("rate limit exceeded",
				zap.String("family", family),
				zap.String("client_ip", clientIP(ctx)),
				zap.Int64("count", count),
				zap.Int64("max", limit.Max),
				zap.Duration("window", limit.Window),
			)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "too many requests")

			return
		}

		next(ctx)
	}
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	// Check X-Forwarded-For header (may contain multiple IPs)
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		// Take the first IP (original client)
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP header
	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host := ctx.Host()

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}
