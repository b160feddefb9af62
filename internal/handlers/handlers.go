// Package handlers contains the HTTP API surface: typed Huma operations over
// the club repositories, the rating provider client, and the audit pipeline.
package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/audit"
	"github.com/echess/club-api/internal/auth"
	"github.com/echess/club-api/internal/middleware"
	"github.com/echess/club-api/internal/ratings"
	"go.uber.org/zap"
)

// providerHTTPError maps a typed provider error onto the caller-visible
// status. Provider failures are never treated as faults of this service.
func providerHTTPError(err error) error {
	var perr *ratings.ProviderError
	if errors.As(err, &perr) {
		return huma.NewError(perr.StatusCode, perr.Message)
	}

	return huma.Error500InternalServerError("rating provider failure")
}

// publishAudit emits an audit event for an admin mutation. Publish failures
// are logged and swallowed; the mutation itself already committed.
func publishAudit(ctx context.Context, publish audit.Publish, logger *zap.Logger, action, resource, resourceID string) {
	actor := ""
	if claims, ok := auth.ClaimsFromContext(ctx); ok {
		actor = claims.Subject
	}

	meta := middleware.RequestMetaFromContext(ctx)

	event := &audit.Event{
		Actor:      actor,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		ClientIP:   meta.ClientIP,
		OccurredAt: time.Now().UTC(),
	}

	if err := publish(event); err != nil {
		logger.Error("failed to publish audit event",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err),
		)
	}
}
