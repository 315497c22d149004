package pgstore

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/cachesession/core/cache"
	"github.com/dmitrymomot/cachesession/integration/database/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the schema for the session_cache table in goose format.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate applies the store schema using table to record versions.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string, logger *slog.Logger) error {
	return pg.Migrate(ctx, pool, Migrations(), table, logger)
}

const (
	upsertQuery = `
INSERT INTO session_cache (key, value, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	selectQuery = `
SELECT value FROM session_cache
WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`

	deleteQuery        = `DELETE FROM session_cache WHERE key = $1`
	deleteExpiredQuery = `DELETE FROM session_cache WHERE expires_at IS NOT NULL AND expires_at <= $1`
)

// Store keeps entries in the session_cache table. Expired rows are hidden
// from Get and removed by DeleteExpired.
//
// Calls join a transaction carried by the context (see pg.WithTx).
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New wraps pool. Run Migrate once before use.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{pool: pool, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := pg.Conn(ctx, s.pool).QueryRow(ctx, selectQuery, key, s.now()).Scan(&value)
	if pg.IsNotFoundError(err) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set implements cache.Store. A ttl <= 0 stores the row without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := s.now().Add(ttl)
		expiresAt = &t
	}
	_, err := pg.Conn(ctx, s.pool).Exec(ctx, upsertQuery, key, value, expiresAt)
	return err
}

// Delete implements cache.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := pg.Conn(ctx, s.pool).Exec(ctx, deleteQuery, key)
	return err
}

// DeleteExpired removes expired rows and returns how many were deleted.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := pg.Conn(ctx, s.pool).Exec(ctx, deleteExpiredQuery, s.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ cache.Store = (*Store)(nil)
