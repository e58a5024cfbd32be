package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

const postgresSchema = `
CREATE TABLE IF NOT EXISTS progress_records (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS progress_events (
	id           BIGSERIAL PRIMARY KEY,
	progress_key TEXT NOT NULL,
	event_type   TEXT NOT NULL,
	data         JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS progress_events_key_idx ON progress_events (progress_key, created_at);
`

// PostgresStore is a PostgreSQL-backed Store. Updates serialize on a
// transaction-scoped advisory lock derived from the key.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the store and its tables if they do not exist.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create progress schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value::text FROM progress_records WHERE key = $1`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := s.pool.Exec(ctx, upsertPostgres, key, string(value)); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := s.pool.Exec(ctx, `DELETE FROM progress_records WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update %s: %w", key, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The row may not exist yet, so lock the key rather than the row.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}

	var current string
	found := true
	err = tx.QueryRow(ctx, `SELECT value::text FROM progress_records WHERE key = $1`, key).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		found = false
	} else if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}

	next, err := fn([]byte(current), found)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, upsertPostgres, key, string(next)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const upsertPostgres = `INSERT INTO progress_records (key, value, updated_at)
	VALUES ($1, $2::jsonb, NOW())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
