package pgstore_test

import (
	"context"
	"io/fs"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachesession/core/cache"
	"github.com/dmitrymomot/cachesession/integration/cache/pgstore"
	"github.com/dmitrymomot/cachesession/integration/database/pg"
)

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(pgstore.Migrations(), ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_create_session_cache.sql", entries[0].Name())
}

var (
	poolOnce sync.Once
	testPool *pgxpool.Pool
	poolErr  error
)

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}
	poolOnce.Do(func() {
		ctx := context.Background()
		testPool, poolErr = pg.Connect(ctx, pg.Config{ConnectionString: url, RetryAttempts: 1})
		if poolErr == nil {
			poolErr = pgstore.Migrate(ctx, testPool, "pgstore_test_migrations", nil)
		}
	})
	require.NoError(t, poolErr)
	return testPool
}

func TestStore(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()

	now := time.Now()
	clock := func() time.Time { return now }
	s := pgstore.New(pool, pgstore.WithClock(clock))
	key := "pgstore-test:" + now.Format(time.RFC3339Nano)
	t.Cleanup(func() { _ = s.Delete(ctx, key) })

	_, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, s.Set(ctx, key, []byte(`{"a":1}`), time.Minute))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, s.Set(ctx, key, []byte(`{"a":2}`), time.Minute), "upsert")
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, cache.ErrNotFound, "expired rows are hidden")

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	require.NoError(t, s.Delete(ctx, key), "deleting a missing key")
}

func TestStoreWithTx(t *testing.T) {
	pool := connect(t)
	ctx := context.Background()
	s := pgstore.New(pool)
	key := "pgstore-tx:" + time.Now().Format(time.RFC3339Nano)

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	txCtx := pg.WithTx(ctx, tx)

	require.NoError(t, s.Set(txCtx, key, []byte(`{}`), 0))
	_, err = s.Get(txCtx, key)
	require.NoError(t, err)

	require.NoError(t, tx.Rollback(ctx))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
