package ratings

import (
	"context"
	"fmt"
	"time"

	"github.com/echess/club-api/internal/club"
	"go.uber.org/zap"
)

// DefaultSyncDelay is the pause inserted between successive provider calls
// during a bulk refresh, to stay clear of the provider's own rate limiting.
const DefaultSyncDelay = 500 * time.Millisecond

// StatsFetcher is the slice of Client the syncer needs.
type StatsFetcher interface {
	RefreshStats(ctx context.Context, username string) (Payload, error)
}

// RefreshOutcome aggregates a single bulk sync run. It is returned once to
// the caller and not persisted.
type RefreshOutcome struct {
	Updated  int
	Failures []string
}

// Syncer drives bulk refresh of all members' ratings. Members are processed
// strictly in input order, one at a time, with a fixed delay between provider
// calls. A per-member failure is recorded and the batch continues; each
// member update commits independently, so an interrupted run keeps the
// updates already made.
type Syncer struct {
	fetcher StatsFetcher
	members club.MemberRepository
	delay   time.Duration
	logger  *zap.Logger
}

// NewSyncer creates a bulk rating syncer. A negative delay falls back to
// DefaultSyncDelay; zero disables the pause (used by tests).
func NewSyncer(fetcher StatsFetcher, members club.MemberRepository, delay time.Duration, logger *zap.Logger) *Syncer {
	if delay < 0 {
		delay = DefaultSyncDelay
	}

	return &Syncer{
		fetcher: fetcher,
		members: members,
		delay:   delay,
		logger:  logger,
	}
}

// RefreshAll force-refreshes stats for every given member and persists the
// extracted ratings. It never short-circuits on a member failure.
func (s *Syncer) RefreshAll(ctx context.Context, members []club.Member) *RefreshOutcome {
	outcome := &RefreshOutcome{}

	for i, member := range members {
		if i > 0 && s.delay > 0 {
			time.Sleep(s.delay)
		}

		payload, err := s.fetcher.RefreshStats(ctx, member.ChessComUsername)
		if err != nil {
			s.logger.Warn("rating refresh failed",
				zap.String("member", member.Name),
				zap.String("username", member.ChessComUsername),
				zap.Error(err),
			)
			outcome.Failures = append(outcome.Failures, fmt.Sprintf("%s: %s", member.Name, err))

			continue
		}

		if err := s.members.UpdateRatings(ctx, member.ID, ExtractRatings(payload)); err != nil {
			s.logger.Error("rating update failed",
				zap.String("member", member.Name),
				zap.Error(err),
			)
			outcome.Failures = append(outcome.Failures, fmt.Sprintf("%s: %s", member.Name, err))

			continue
		}

		outcome.Updated++
	}

	s.logger.Info("bulk rating refresh finished",
		zap.Int("updated", outcome.Updated),
		zap.Int("failed", len(outcome.Failures)),
	)

	return outcome
}
