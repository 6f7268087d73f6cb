package slot

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgExecutor is the subset of *pgxpool.Pool the Postgres store needs.
type PgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Compile-time check that *pgxpool.Pool satisfies PgExecutor.
var _ PgExecutor = (*pgxpool.Pool)(nil)

const pgSchema = `
CREATE TABLE IF NOT EXISTS slot (
	key TEXT PRIMARY KEY,
	value BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore implements Store on a Postgres table.
type PostgresStore struct {
	db PgExecutor
}

// Compile-time check that *PostgresStore satisfies Store.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates the slot table if needed and returns a store over it.
// PRE: db is connected
// POST: slot table exists
func NewPostgresStore(ctx context.Context, db PgExecutor) (*PostgresStore, error) {
	if _, err := db.Exec(ctx, pgSchema); err != nil {
		return nil, fmt.Errorf("create slot table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// OpenPostgres connects a pool to url and verifies it with a ping.
// POST: caller closes the returned pool
func OpenPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// Get retrieves the blob stored under key.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM slot WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get slot %s: %w", key, err)
	}
	return value, true, nil
}

// Put upserts the blob under key.
func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO slot (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("put slot %s: %w", key, err)
	}
	return nil
}

// Delete removes the row for key.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM slot WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

// Keys lists populated slots in ascending order.
func (s *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.QueryRow(ctx, `SELECT coalesce(array_agg(key ORDER BY key), '{}') FROM slot`).Scan(&keys)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return keys, nil
}
