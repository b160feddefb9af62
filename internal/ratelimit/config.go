package ratelimit

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// LimitConfig defines a single quota: at most Max requests per Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig defines per-endpoint rate limit configuration.
// It is attached to Huma operations via the Metadata field.
type EndpointConfig struct {
	// Family scopes the quota to an endpoint class, so the same caller gets
	// independent counters for e.g. login attempts and member listings. When
	// empty, the operation's route template is used.
	Family string

	// Limit is the quota applied to this endpoint family. A zero Limit falls
	// back to the middleware's default quota.
	Limit LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
