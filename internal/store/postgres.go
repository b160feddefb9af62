package store

import (
	"context"
	"errors"
	"time"

	"github.com/echess/club-api/internal/club"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// MemberPostgresStore is a PostgreSQL implementation of club.MemberRepository.
type MemberPostgresStore struct {
	pool *pgxpool.Pool
}

// NewMemberPostgresStore creates a new PostgreSQL-backed member store.
func NewMemberPostgresStore(pool *pgxpool.Pool) *MemberPostgresStore {
	return &MemberPostgresStore{pool: pool}
}

func (p *MemberPostgresStore) List(ctx context.Context) ([]club.Member, error) {
	query := `
		SELECT id, name, department, chess_com_username, email, phone,
		       rapid_rating, blitz_rating, bullet_rating, created_at, updated_at
		FROM members
		ORDER BY created_at
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []club.Member

	for rows.Next() {
		var m club.Member
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Department, &m.ChessComUsername, &m.Email, &m.Phone,
			&m.RapidRating, &m.BlitzRating, &m.BulletRating, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}

		members = append(members, m)
	}

	return members, rows.Err()
}

func (p *MemberPostgresStore) Get(ctx context.Context, id string) (*club.Member, error) {
	query := `
		SELECT id, name, department, chess_com_username, email, phone,
		       rapid_rating, blitz_rating, bullet_rating, created_at, updated_at
		FROM members
		WHERE id = $1
	`

	var m club.Member

	err := p.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Department, &m.ChessComUsername, &m.Email, &m.Phone,
		&m.RapidRating, &m.BlitzRating, &m.BulletRating, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, club.ErrNotFound
		}

		return nil, err
	}

	return &m, nil
}

func (p *MemberPostgresStore) Create(ctx context.Context, member *club.Member) error {
	query := `
		INSERT INTO members (id, name, department, chess_com_username, email, phone,
		                     rapid_rating, blitz_rating, bullet_rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := p.pool.Exec(ctx, query,
		member.ID, member.Name, member.Department, member.ChessComUsername,
		member.Email, member.Phone, member.RapidRating, member.BlitzRating,
		member.BulletRating, member.CreatedAt, member.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return club.ErrAlreadyExists
	}

	return err
}

func (p *MemberPostgresStore) Update(ctx context.Context, member *club.Member) error {
	query := `
		UPDATE members
		SET name = $2, department = $3, chess_com_username = $4, email = $5,
		    phone = $6, rapid_rating = $7, blitz_rating = $8, bullet_rating = $9,
		    updated_at = $10
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		member.ID, member.Name, member.Department, member.ChessComUsername,
		member.Email, member.Phone, member.RapidRating, member.BlitzRating,
		member.BulletRating, member.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return club.ErrNotFound
	}

	return nil
}

func (p *MemberPostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return club.ErrNotFound
	}

	return nil
}

func (p *MemberPostgresStore) UpdateRatings(ctx context.Context, id string, ratings club.Ratings) error {
	query := `
		UPDATE members
		SET rapid_rating = $2, blitz_rating = $3, bullet_rating = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		id, ratings.Rapid, ratings.Blitz, ratings.Bullet, time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return club.ErrNotFound
	}

	return nil
}

func (p *MemberPostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM members`).Scan(&count)

	return count, err
}

// AccountPostgresStore is a PostgreSQL implementation of club.AccountRepository.
type AccountPostgresStore struct {
	pool *pgxpool.Pool
}

// NewAccountPostgresStore creates a new PostgreSQL-backed account store.
func NewAccountPostgresStore(pool *pgxpool.Pool) *AccountPostgresStore {
	return &AccountPostgresStore{pool: pool}
}

func (p *AccountPostgresStore) GetByUsername(ctx context.Context, username string) (*club.Account, error) {
	return p.get(ctx, `SELECT id, username, email, password_hash, role, created_at FROM accounts WHERE username = $1`, username)
}

func (p *AccountPostgresStore) Get(ctx context.Context, id string) (*club.Account, error) {
	return p.get(ctx, `SELECT id, username, email, password_hash, role, created_at FROM accounts WHERE id = $1`, id)
}

func (p *AccountPostgresStore) get(ctx context.Context, query, arg string) (*club.Account, error) {
	var a club.Account

	err := p.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, club.ErrNotFound
		}

		return nil, err
	}

	return &a, nil
}

func (p *AccountPostgresStore) Create(ctx context.Context, account *club.Account) error {
	query := `
		INSERT INTO accounts (id, username, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		account.ID, account.Username, account.Email, account.PasswordHash,
		account.Role, account.CreatedAt,
	)
	if isUniqueViolation(err) {
		return club.ErrAlreadyExists
	}

	return err
}

func (p *AccountPostgresStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE accounts SET password_hash = $2 WHERE id = $1`, id, passwordHash,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return club.ErrNotFound
	}

	return nil
}
