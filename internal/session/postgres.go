package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorarc/backend/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS live_sessions (
	id         BIGSERIAL PRIMARY KEY,
	userurl    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists live sessions in PostgreSQL. Id allocation
// rides on the table's sequence, which is strictly increasing and
// collision-free under concurrent creates.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the live_sessions table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure live_sessions schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, userURL string) (domain.LiveSession, error) {
	row := domain.LiveSession{UserURL: userURL}
	err := s.db.QueryRow(ctx,
		`INSERT INTO live_sessions (userurl) VALUES ($1)
		 RETURNING id, created_at, updated_at`,
		userURL,
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return domain.LiveSession{}, fmt.Errorf("insert live session: %w", err)
	}
	return row, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]domain.LiveSession, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, userurl, created_at, updated_at
		 FROM live_sessions ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list live sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.LiveSession, 0)
	for rows.Next() {
		var row domain.LiveSession
		if err := rows.Scan(&row.ID, &row.UserURL, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan live session: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list live sessions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (domain.LiveSession, error) {
	var row domain.LiveSession
	err := s.db.QueryRow(ctx,
		`SELECT id, userurl, created_at, updated_at
		 FROM live_sessions WHERE id = $1`, id,
	).Scan(&row.ID, &row.UserURL, &row.CreatedAt, &row.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LiveSession{}, ErrNotFound
	}
	if err != nil {
		return domain.LiveSession{}, fmt.Errorf("get live session: %w", err)
	}
	return row, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, userURL string) (domain.LiveSession, error) {
	var row domain.LiveSession
	err := s.db.QueryRow(ctx,
		`UPDATE live_sessions SET userurl = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING id, userurl, created_at, updated_at`,
		id, userURL,
	).Scan(&row.ID, &row.UserURL, &row.CreatedAt, &row.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LiveSession{}, ErrNotFound
	}
	if err != nil {
		return domain.LiveSession{}, fmt.Errorf("update live session: %w", err)
	}
	return row, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) (domain.LiveSession, error) {
	var row domain.LiveSession
	err := s.db.QueryRow(ctx,
		`DELETE FROM live_sessions WHERE id = $1
		 RETURNING id, userurl, created_at, updated_at`,
		id,
	).Scan(&row.ID, &row.UserURL, &row.CreatedAt, &row.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LiveSession{}, ErrNotFound
	}
	if err != nil {
		return domain.LiveSession{}, fmt.Errorf("delete live session: %w", err)
	}
	return row, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
