package middleware

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

// RequestMeta holds HTTP request metadata used by audit logging.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

type requestMetaKey struct{}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// WithRequestMeta is a middleware that adds client IP and user-agent to the
// request context.
func WithRequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := RequestMeta{
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
		}

		ctx = huma.WithContext(ctx, ContextWithRequestMeta(ctx.Context(), meta))

		next(ctx)
	}
}
