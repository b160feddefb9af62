package club

import "time"

// Role identifies the authorization tier of an authenticated caller.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Member is a club member with their chess.com account and synced ratings.
type Member struct {
	ID               string
	Name             string
	Department       string
	ChessComUsername string
	Email            string
	Phone            string
	RapidRating      *int
	BlitzRating      *int
	BulletRating     *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Ratings holds the three time-control ratings extracted from a stats payload.
// Nil means the player has no rating for that time control.
type Ratings struct {
	Rapid  *int
	Blitz  *int
	Bullet *int
}

// Account is a login account. Role decides which guard admits its tokens:
// admins manage club content, members only reach member-tier endpoints.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Match records a finished over-the-board or online game between two members.
type Match struct {
	ID             string
	Player1ID      string
	Player1Name    string
	Player2ID      string
	Player2Name    string
	Result         string // "1-0", "0-1", "1/2-1/2"
	Date           time.Time
	TournamentName string
	CreatedAt      time.Time
}

// Tournament statuses.
const (
	TournamentUpcoming  = "upcoming"
	TournamentOngoing   = "ongoing"
	TournamentCompleted = "completed"
)

type Tournament struct {
	ID           string
	Name         string
	Description  string
	StartDate    time.Time
	EndDate      *time.Time
	Status       string
	Participants []string
	CreatedAt    time.Time
}

type News struct {
	ID        string
	Title     string
	Content   string
	ImageURL  string
	CreatedAt time.Time
}

type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Date        time.Time
	CreatedAt   time.Time
}

type GalleryItem struct {
	ID        string
	Title     string
	ImageURL  string
	CreatedAt time.Time
}

// AuditEntry records an admin mutation for the audit log.
type AuditEntry struct {
	ID         string
	Actor      string
	Action     string
	Resource   string
	ResourceID string
	ClientIP   string
	CreatedAt  time.Time
}

// PasswordResetToken is a single-use token issued to an account by email.
type PasswordResetToken struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
	CreatedAt time.Time
}
