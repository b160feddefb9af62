package store

import (
	"context"
	"errors"

	"github.com/echess/club-api/internal/club"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchPostgresStore is a PostgreSQL implementation of club.MatchRepository.
type MatchPostgresStore struct {
	pool *pgxpool.Pool
}

// NewMatchPostgresStore creates a new PostgreSQL-backed match store.
func NewMatchPostgresStore(pool *pgxpool.Pool) *MatchPostgresStore {
	return &MatchPostgresStore{pool: pool}
}

func (p *MatchPostgresStore) List(ctx context.Context) ([]club.Match, error) {
	query := `
		SELECT id, player1_id, player1_name, player2_id, player2_name,
		       result, date, tournament_name, created_at
		FROM matches
		ORDER BY date DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []club.Match

	for rows.Next() {
		var m club.Match
		if err := rows.Scan(
			&m.ID, &m.Player1ID, &m.Player1Name, &m.Player2ID, &m.Player2Name,
			&m.Result, &m.Date, &m.TournamentName, &m.CreatedAt,
		); err != nil {
			return nil, err
		}

		matches = append(matches, m)
	}

	return matches, rows.Err()
}

func (p *MatchPostgresStore) Create(ctx context.Context, match *club.Match) error {
	query := `
		INSERT INTO matches (id, player1_id, player1_name, player2_id, player2_name,
		                     result, date, tournament_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := p.pool.Exec(ctx, query,
		match.ID, match.Player1ID, match.Player1Name, match.Player2ID,
		match.Player2Name, match.Result, match.Date, match.TournamentName,
		match.CreatedAt,
	)

	return err
}

func (p *MatchPostgresStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, p.pool, `DELETE FROM matches WHERE id = $1`, id)
}

func (p *MatchPostgresStore) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, p.pool, `SELECT COUNT(*) FROM matches`)
}

// TournamentPostgresStore is a PostgreSQL implementation of club.TournamentRepository.
type TournamentPostgresStore struct {
	pool *pgxpool.Pool
}

// NewTournamentPostgresStore creates a new PostgreSQL-backed tournament store.
func NewTournamentPostgresStore(pool *pgxpool.Pool) *TournamentPostgresStore {
	return &TournamentPostgresStore{pool: pool}
}

func (p *TournamentPostgresStore) List(ctx context.Context) ([]club.Tournament, error) {
	query := `
		SELECT id, name, description, start_date, end_date, status, participants, created_at
		FROM tournaments
		ORDER BY start_date DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tournaments []club.Tournament

	for rows.Next() {
		var t club.Tournament
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.StartDate, &t.EndDate,
			&t.Status, &t.Participants, &t.CreatedAt,
		); err != nil {
			return nil, err
		}

		tournaments = append(tournaments, t)
	}

	return tournaments, rows.Err()
}

func (p *TournamentPostgresStore) Get(ctx context.Context, id string) (*club.Tournament, error) {
	query := `
		SELECT id, name, description, start_date, end_date, status, participants, created_at
		FROM tournaments
		WHERE id = $1
	`

	var t club.Tournament

	err := p.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.StartDate, &t.EndDate,
		&t.Status, &t.Participants, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, club.ErrNotFound
		}

		return nil, err
	}

	return &t, nil
}

func (p *TournamentPostgresStore) Create(ctx context.Context, tournament *club.Tournament) error {
	query := `
		INSERT INTO tournaments (id, name, description, start_date, end_date,
		                         status, participants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		tournament.ID, tournament.Name, tournament.Description, tournament.StartDate,
		tournament.EndDate, tournament.Status, tournament.Participants,
		tournament.CreatedAt,
	)

	return err
}

func (p *TournamentPostgresStore) Update(ctx context.Context, tournament *club.Tournament) error {
	query := `
		UPDATE tournaments
		SET name = $2, description = $3, start_date = $4, end_date = $5,
		    status = $6, participants = $7
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		tournament.ID, tournament.Name, tournament.Description, tournament.StartDate,
		tournament.EndDate, tournament.Status, tournament.Participants,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return club.ErrNotFound
	}

	return nil
}

func (p *TournamentPostgresStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, p.pool, `DELETE FROM tournaments WHERE id = $1`, id)
}

func (p *TournamentPostgresStore) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, p.pool, `SELECT COUNT(*) FROM tournaments`)
}

// NewsPostgresStore is a PostgreSQL implementation of club.NewsRepository.
type NewsPostgresStore struct {
	pool *pgxpool.Pool
}

// NewNewsPostgresStore creates a new PostgreSQL-backed news store.
func NewNewsPostgresStore(pool *pgxpool.Pool) *NewsPostgresStore {
	return &NewsPostgresStore{pool: pool}
}

func (p *NewsPostgresStore) List(ctx context.Context) ([]club.News, error) {
	query := `
		SELECT id, title, content, image_url, created_at
		FROM news
		ORDER BY created_at DESC
		LIMIT 50
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var news []club.News

	for rows.Next() {
		var n club.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.ImageURL, &n.CreatedAt); err != nil {
			return nil, err
		}

		news = append(news, n)
	}

	return news, rows.Err()
}

func (p *NewsPostgresStore) Get(ctx context.Context, id string) (*club.News, error) {
	var n club.News

	err := p.pool.QueryRow(ctx,
		`SELECT id, title, content, image_url, created_at FROM news WHERE id = $1`, id,
	).Scan(&n.ID, &n.Title, &n.Content, &n.ImageURL, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, club.ErrNotFound
		}

		return nil, err
	}

	return &n, nil
}

func (p *NewsPostgresStore) Create(ctx context.Context, news *club.News) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO news (id, title, content, image_url, created_at) VALUES ($1, $2, $3, $4, $5)`,
		news.ID, news.Title, news.Content, news.ImageURL, news.CreatedAt,
	)

	return err
}

func (p *NewsPostgresStore) Update(ctx context.Context, news *club.News) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE news SET title = $2, content = $3, image_url = $4 WHERE id = $1`,
		news.ID, news.Title, news.Content, news.ImageURL,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return club.ErrNotFound
	}

	return nil
}

func (p *NewsPostgresStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, p.pool, `DELETE FROM news WHERE id = $1`, id)
}

func (p *NewsPostgresStore) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, p.pool, `SELECT COUNT(*) FROM news`)
}

// EventPostgresStore is a PostgreSQL implementation of club.EventRepository.
type EventPostgresStore struct {
	pool *pgxpool.Pool
}

// NewEventPostgresStore creates a new PostgreSQL-backed event store.
func NewEventPostgresStore(pool *pgxpool.Pool) *EventPostgresStore {
	return &EventPostgresStore{pool: pool}
}

func (p *EventPostgresStore) List(ctx context.Context) ([]club.Event, error) {
	query := `
		SELECT id, title, description, location, date, created_at
		FROM events
		ORDER BY date DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []club.Event

	for rows.Next() {
		var e club.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}

		events = append(events, e)
	}

	return events, rows.Err()
}

func (p *EventPostgresStore) Create(ctx context.Context, event *club.Event) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO events (id, title, description, location, date, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.Title, event.Description, event.Location, event.Date, event.CreatedAt,
	)

	return err
}

func (p *EventPostgresStore) Update(ctx context.Context, event *club.Event) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE events SET title = $2, description = $3, location = $4, date = $5 WHERE id = $1`,
		event.ID, event.Title, event.Description, event.Location, event.Date,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return club.ErrNotFound
	}

	return nil
}

func (p *EventPostgresStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, p.pool, `DELETE FROM events WHERE id = $1`, id)
}

// GalleryPostgresStore is a PostgreSQL implementation of club.GalleryRepository.
type GalleryPostgresStore struct {
	pool *pgxpool.Pool
}

// NewGalleryPostgresStore creates a new PostgreSQL-backed gallery store.
func NewGalleryPostgresStore(pool *pgxpool.Pool) *GalleryPostgresStore {
	return &GalleryPostgresStore{pool: pool}
}

func (p *GalleryPostgresStore) List(ctx context.Context) ([]club.GalleryItem, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, title, image_url, created_at FROM gallery ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []club.GalleryItem

	for rows.Next() {
		var g club.GalleryItem
		if err := rows.Scan(&g.ID, &g.Title, &g.ImageURL, &g.CreatedAt); err != nil {
			return nil, err
		}

		items = append(items, g)
	}

	return items, rows.Err()
}

func (p *GalleryPostgresStore) Create(ctx context.Context, item *club.GalleryItem) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO gallery (id, title, image_url, created_at) VALUES ($1, $2, $3, $4)`,
		item.ID, item.Title, item.ImageURL, item.CreatedAt,
	)

	return err
}

func (p *GalleryPostgresStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, p.pool, `DELETE FROM gallery WHERE id = $1`, id)
}

// AuditPostgresStore is a PostgreSQL implementation of club.AuditRepository.
type AuditPostgresStore struct {
	pool *pgxpool.Pool
}

// NewAuditPostgresStore creates a new PostgreSQL-backed audit log store.
func NewAuditPostgresStore(pool *pgxpool.Pool) *AuditPostgresStore {
	return &AuditPostgresStore{pool: pool}
}

func (p *AuditPostgresStore) Append(ctx context.Context, entry *club.AuditEntry) error {
	query := `
		INSERT INTO audit_log (id, actor, action, resource, resource_id, client_ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		entry.ID, entry.Actor, entry.Action, entry.Resource, entry.ResourceID,
		entry.ClientIP, entry.CreatedAt,
	)

	return err
}

// ResetTokenPostgresStore is a PostgreSQL implementation of club.ResetTokenRepository.
type ResetTokenPostgresStore struct {
	pool *pgxpool.Pool
}

// NewResetTokenPostgresStore creates a new PostgreSQL-backed reset token store.
func NewResetTokenPostgresStore(pool *pgxpool.Pool) *ResetTokenPostgresStore {
	return &ResetTokenPostgresStore{pool: pool}
}

func (p *ResetTokenPostgresStore) Create(ctx context.Context, token *club.PasswordResetToken) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO password_reset_tokens (token, account_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		token.Token, token.AccountID, token.ExpiresAt, token.CreatedAt,
	)

	return err
}

func (p *ResetTokenPostgresStore) Get(ctx context.Context, token string) (*club.PasswordResetToken, error) {
	var t club.PasswordResetToken

	err := p.pool.QueryRow(ctx,
		`SELECT token, account_id, expires_at, created_at FROM password_reset_tokens WHERE token = $1`, token,
	).Scan(&t.Token, &t.AccountID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, club.ErrNotFound
		}

		return nil, err
	}

	return &t, nil
}

func (p *ResetTokenPostgresStore) Delete(ctx context.Context, token string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE token = $1`, token)

	return err
}

func deleteByID(ctx context.Context, pool *pgxpool.Pool, query, id string) error {
	tag, err := pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return club.ErrNotFound
	}

	return nil
}

func countRows(ctx context.Context, pool *pgxpool.Pool, query string) (int64, error) {
	var count int64

	err := pool.QueryRow(ctx, query).Scan(&count)

	return count, err
}
