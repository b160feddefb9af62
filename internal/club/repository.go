package club

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when a unique constraint would be violated.
var ErrAlreadyExists = errors.New("record already exists")

// MemberRepository stores club members.
type MemberRepository interface {
	List(ctx context.Context) ([]Member, error)
	Get(ctx context.Context, id string) (*Member, error)
	Create(ctx context.Context, member *Member) error
	Update(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id string) error

	// UpdateRatings persists freshly synced ratings and bumps updated_at.
	// Other member fields are left untouched.
	UpdateRatings(ctx context.Context, id string, ratings Ratings) error

	Count(ctx context.Context) (int64, error)
}

// AccountRepository stores login accounts.
type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	Get(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, account *Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// MatchRepository stores match records.
type MatchRepository interface {
	List(ctx context.Context) ([]Match, error)
	Create(ctx context.Context, match *Match) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// TournamentRepository stores tournaments.
type TournamentRepository interface {
	List(ctx context.Context) ([]Tournament, error)
	Get(ctx context.Context, id string) (*Tournament, error)
	Create(ctx context.Context, tournament *Tournament) error
	Update(ctx context.Context, tournament *Tournament) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// NewsRepository stores news posts, listed newest first.
type NewsRepository interface {
	List(ctx context.Context) ([]News, error)
	Get(ctx context.Context, id string) (*News, error)
	Create(ctx context.Context, news *News) error
	Update(ctx context.Context, news *News) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// EventRepository stores club events.
type EventRepository interface {
	List(ctx context.Context) ([]Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// GalleryRepository stores gallery items.
type GalleryRepository interface {
	List(ctx context.Context) ([]GalleryItem, error)
	Create(ctx context.Context, item *GalleryItem) error
	Delete(ctx context.Context, id string) error
}

// AuditRepository appends audit log entries.
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
}

// ResetTokenRepository stores password reset tokens.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	Get(ctx context.Context, token string) (*PasswordResetToken, error)
	Delete(ctx context.Context, token string) error
}
