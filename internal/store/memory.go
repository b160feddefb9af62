package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/echess/club-api/internal/club"
)

// MemberMemoryStore is an in-memory implementation of club.MemberRepository.
// List returns members in insertion order.
type MemberMemoryStore struct {
	mu      sync.RWMutex
	members []club.Member
}

// NewMemberMemoryStore creates a new in-memory member store.
func NewMemberMemoryStore() *MemberMemoryStore {
	return &MemberMemoryStore{}
}

func (m *MemberMemoryStore) List(_ context.Context) ([]club.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]club.Member, len(m.members))
	copy(out, m.members)

	return out, nil
}

func (m *MemberMemoryStore) Get(_ context.Context, id string) (*club.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.members {
		if m.members[i].ID == id {
			member := m.members[i]

			return &member, nil
		}
	}

	return nil, club.ErrNotFound
}

func (m *MemberMemoryStore) Create(_ context.Context, member *club.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.members = append(m.members, *member)

	return nil
}

func (m *MemberMemoryStore) Update(_ context.Context, member *club.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.members {
		if m.members[i].ID == member.ID {
			m.members[i] = *member

			return nil
		}
	}

	return club.ErrNotFound
}

func (m *MemberMemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.members {
		if m.members[i].ID == id {
			m.members = append(m.members[:i], m.members[i+1:]...)

			return nil
		}
	}

	return club.ErrNotFound
}

func (m *MemberMemoryStore) UpdateRatings(_ context.Context, id string, ratings club.Ratings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.members {
		if m.members[i].ID == id {
			m.members[i].RapidRating = ratings.Rapid
			m.members[i].BlitzRating = ratings.Blitz
			m.members[i].BulletRating = ratings.Bullet
			m.members[i].UpdatedAt = time.Now().UTC()

			return nil
		}
	}

	return club.ErrNotFound
}

func (m *MemberMemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.members)), nil
}

// AccountMemoryStore is an in-memory implementation of club.AccountRepository.
type AccountMemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]club.Account // id -> account
}

// NewAccountMemoryStore creates a new in-memory account store.
func NewAccountMemoryStore() *AccountMemoryStore {
	return &AccountMemoryStore{accounts: make(map[string]club.Account)}
}

func (m *AccountMemoryStore) GetByUsername(_ context.Context, username string) (*club.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, account := range m.accounts {
		if account.Username == username {
			out := account

			return &out, nil
		}
	}

	return nil, club.ErrNotFound
}

func (m *AccountMemoryStore) Get(_ context.Context, id string) (*club.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, club.ErrNotFound
	}

	return &account, nil
}

func (m *AccountMemoryStore) Create(_ context.Context, account *club.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.accounts {
		if existing.Username == account.Username {
			return club.ErrAlreadyExists
		}
	}

	m.accounts[account.ID] = *account

	return nil
}

func (m *AccountMemoryStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return club.ErrNotFound
	}

	account.PasswordHash = passwordHash
	m.accounts[id] = account

	return nil
}

// MatchMemoryStore is an in-memory implementation of club.MatchRepository.
type MatchMemoryStore struct {
	mu      sync.RWMutex
	matches []club.Match
}

// NewMatchMemoryStore creates a new in-memory match store.
func NewMatchMemoryStore() *MatchMemoryStore {
	return &MatchMemoryStore{}
}

func (m *MatchMemoryStore) List(_ context.Context) ([]club.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]club.Match, len(m.matches))
	copy(out, m.matches)

	return out, nil
}

func (m *MatchMemoryStore) Create(_ context.Context, match *club.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.matches = append(m.matches, *match)

	return nil
}

func (m *MatchMemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.matches {
		if m.matches[i].ID == id {
			m.matches = append(m.matches[:i], m.matches[i+1:]...)

			return nil
		}
	}

	return club.ErrNotFound
}

func (m *MatchMemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.matches)), nil
}

// TournamentMemoryStore is an in-memory implementation of club.TournamentRepository.
type TournamentMemoryStore struct {
	mu          sync.RWMutex
	tournaments []club.Tournament
}

// NewTournamentMemoryStore creates a new in-memory tournament store.
func NewTournamentMemoryStore() *TournamentMemoryStore {
	return &TournamentMemoryStore{}
}

func (m *TournamentMemoryStore) List(_ context.Context) ([]club.Tournament, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]club.Tournament, len(m.tournaments))
	copy(out, m.tournaments)

	return out, nil
}

func (m *TournamentMemoryStore) Get(_ context.Context, id string) (*club.Tournament, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.tournaments {
		if m.tournaments[i].ID == id {
			tournament := m.tournaments[i]

			return &tournament, nil
		}
	}

	return nil, club.ErrNotFound
}

func (m *TournamentMemoryStore) Create(_ context.Context, tournament *club.Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tournaments = append(m.tournaments, *tournament)

	return nil
}

func (m *TournamentMemoryStore) Update(_ context.Context, tournament *club.Tournament) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.tournaments {
		if m.tournaments[i].ID == tournament.ID {
			m.tournaments[i] = *tournament

			return nil
		}
	}

	return club.ErrNotFound
}

func (m *TournamentMemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.tournaments {
		if m.tournaments[i].ID == id {
			m.tournaments = append(m.tournaments[:i], m.tournaments[i+1:]...)

			return nil
		}
	}

	return club.ErrNotFound
}

func (m *TournamentMemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.tournaments)), nil
}

// NewsMemoryStore is an in-memory implementation of club.NewsRepository.
type NewsMemoryStore struct {
	mu   sync.RWMutex
	news []club.News
}

// NewNewsMemoryStore creates a new in-memory news store.
func NewNewsMemoryStore() *NewsMemoryStore {
	return &NewsMemoryStore{}
}

// List returns news posts newest first.
func (m *NewsMemoryStore) List(_ context.Context) ([]club.News, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]club.News, len(m.news))
	copy(out, m.news)

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (m *NewsMemoryStore) Get(_ context.Context, id string) (*club.News, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.news {
		if m.news[i].ID == id {
			news := m.news[i]

			return &news, nil
		}
	}

	return nil, club.ErrNotFound
}

func (m *NewsMemoryStore) Create(_ context.Context, news *club.News) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.news = append(m.news, *news)

	return nil
}

func (m *NewsMemoryStore) Update(_ context.Context, news *club.News) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.news {
		if m.news[i].ID == news.ID {
			m.news[i] = *news

			return nil
		}
	}

	return club.ErrNotFound
}

func (m *NewsMemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.news {
		if m.news[i].ID == id {
			m.news = append(m.news[:i], m.news[i+1:]...)

			return nil
		}
	}

	return club.ErrNotFound
}

func (m *NewsMemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.news)), nil
}

// EventMemoryStore is an in-memory implementation of club.EventRepository.
type EventMemoryStore struct {
	mu     sync.RWMutex
	events []club.Event
}

// NewEventMemoryStore creates a new in-memory event store.
func NewEventMemoryStore() *EventMemoryStore {
	return &EventMemoryStore{}
}

func (m *EventMemoryStore) List(_ context.Context) ([]club.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]club.Event, len(m.events))
	copy(out, m.events)

	return out, nil
}

func (m *EventMemoryStore) Create(_ context.Context, event *club.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, *event)

	return nil
}

func (m *EventMemoryStore) Update(_ context.Context, event *club.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].ID == event.ID {
			m.events[i] = *event

			return nil
		}
	}

	return club.ErrNotFound
}

func (m *EventMemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)

			return nil
		}
	}

	return club.ErrNotFound
}

// GalleryMemoryStore is an in-memory implementation of club.GalleryRepository.
type GalleryMemoryStore struct {
	mu    sync.RWMutex
	items []club.GalleryItem
}

// NewGalleryMemoryStore creates a new in-memory gallery store.
func NewGalleryMemoryStore() *GalleryMemoryStore {
	return &GalleryMemoryStore{}
}

func (m *GalleryMemoryStore) List(_ context.Context) ([]club.GalleryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]club.GalleryItem, len(m.items))
	copy(out, m.items)

	return out, nil
}

func (m *GalleryMemoryStore) Create(_ context.Context, item *club.GalleryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = append(m.items, *item)

	return nil
}

func (m *GalleryMemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)

			return nil
		}
	}

	return club.ErrNotFound
}

// AuditMemoryStore is an in-memory implementation of club.AuditRepository.
type AuditMemoryStore struct {
	mu      sync.RWMutex
	entries []club.AuditEntry
}

// NewAuditMemoryStore creates a new in-memory audit log store.
func NewAuditMemoryStore() *AuditMemoryStore {
	return &AuditMemoryStore{}
}

func (m *AuditMemoryStore) Append(_ context.Context, entry *club.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, *entry)

	return nil
}

// Entries returns a copy of the appended entries.
func (m *AuditMemoryStore) Entries() []club.AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]club.AuditEntry, len(m.entries))
	copy(out, m.entries)

	return out
}

// ResetTokenMemoryStore is an in-memory implementation of club.ResetTokenRepository.
type ResetTokenMemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]club.PasswordResetToken
}

// NewResetTokenMemoryStore creates a new in-memory reset token store.
func NewResetTokenMemoryStore() *ResetTokenMemoryStore {
	return &ResetTokenMemoryStore{tokens: make(map[string]club.PasswordResetToken)}
}

func (m *ResetTokenMemoryStore) Create(_ context.Context, token *club.PasswordResetToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[token.Token] = *token

	return nil
}

func (m *ResetTokenMemoryStore) Get(_ context.Context, token string) (*club.PasswordResetToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tokens[token]
	if !ok {
		return nil, club.ErrNotFound
	}

	return &t, nil
}

func (m *ResetTokenMemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, token)

	return nil
}

// Tokens returns a copy of all stored tokens, for inspection in tests.
func (m *ResetTokenMemoryStore) Tokens() []club.PasswordResetToken {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tokens := make([]club.PasswordResetToken, 0, len(m.tokens))
	for _, t := range m.tokens {
		tokens = append(tokens, t)
	}

	return tokens
}
