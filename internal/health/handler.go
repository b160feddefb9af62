package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/ratelimit"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresChecker adapts pgxpool.Pool to Checker interface.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

// NewPostgresChecker creates a new Postgres health checker.
func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

// Ping checks Postgres connectivity.
func (p *PostgresChecker) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Handler handles health check operations.
type Handler struct {
	redis    Checker
	postgres Checker
}

// NewHandler creates a new health handler. Either checker may be nil when the
// dependency is not configured; it is then reported as skipped.
func NewHandler(redis, postgres Checker) *Handler {
	return &Handler{redis: redis, postgres: postgres}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status   string `json:"status"`
		Redis    string `json:"redis"`
		Postgres string `json:"postgres"`
	}
}

// Check performs a health check of the application and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.Redis = check(ctx, h.redis, &resp.Body.Status)
	resp.Body.Postgres = check(ctx, h.postgres, &resp.Body.Status)

	return resp, nil
}

func check(ctx context.Context, c Checker, status *string) string {
	if c == nil {
		return "skipped"
	}

	if err := c.Ping(ctx); err != nil {
		*status = "degraded"

		return "unhealthy"
	}

	return "healthy"
}

// RegisterRoutes registers health check routes. Probes are exempt from rate
// limiting.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/health",
		Summary: "Health check",
		Tags:    []string{"Service"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Check)
}
