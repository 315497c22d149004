package simple

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/cachesession/core/cache"
	"github.com/dmitrymomot/cachesession/core/config"
	"github.com/dmitrymomot/cachesession/core/logger"
	"github.com/dmitrymomot/cachesession/integration/cache/mongostore"
	"github.com/dmitrymomot/cachesession/integration/cache/pgstore"
	"github.com/dmitrymomot/cachesession/integration/cache/redisstore"
	"github.com/dmitrymomot/cachesession/integration/database/mongo"
	"github.com/dmitrymomot/cachesession/integration/database/pg"
	"github.com/dmitrymomot/cachesession/integration/database/redis"
)

// janitorInterval is how often expired Postgres rows are purged.
const janitorInterval = 5 * time.Minute

// backend is an opened cache.Store with its probe and shutdown hook.
type backend struct {
	name    string
	store   cache.Store
	probe   func(context.Context) error
	janitor func(context.Context)
	close   func()
}

// openBackend connects the store named by name. Connection settings come
// from the backend's own environment variables.
func openBackend(ctx context.Context, name string, cfg Config, log *slog.Logger) (*backend, error) {
	log = log.With(logger.Component("backend"), slog.String("backend", name))

	switch name {
	case "", BackendMemory:
		return &backend{
			name:  BackendMemory,
			store: cache.NewMemory(),
			probe: func(context.Context) error { return nil },
			close: func() {},
		}, nil

	case BackendRedis:
		var rc redis.Config
		if err := config.Load(&rc); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "connected")
		return &backend{
			name:  name,
			store: redisstore.New(client, redisstore.WithPrefix(cfg.AppName+":")),
			probe: redis.Healthcheck(client),
			close: func() { _ = client.Close() },
		}, nil

	case BackendPostgres:
		var pc pg.Config
		if err := config.Load(&pc); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pc)
		if err != nil {
			return nil, err
		}
		if err := pgstore.Migrate(ctx, pool, pc.MigrationsTable, log); err != nil {
			pool.Close()
			return nil, err
		}
		log.InfoContext(ctx, "connected")
		store := pgstore.New(pool)
		return &backend{
			name:  name,
			store: store,
			probe: pg.Healthcheck(pool),
			janitor: func(ctx context.Context) {
				n, err := store.DeleteExpired(ctx)
				if err != nil {
					log.ErrorContext(ctx, "purge expired sessions", logger.Error(err))
					return
				}
				log.DebugContext(ctx, "purged expired sessions", logger.Count("deleted", int(n)))
			},
			close: pool.Close,
		}, nil

	case BackendMongo:
		var mc mongo.Config
		if err := config.Load(&mc); err != nil {
			return nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, mc, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		store := mongostore.New(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = db.Client().Disconnect(ctx)
			return nil, err
		}
		log.InfoContext(ctx, "connected")
		return &backend{
			name:  name,
			store: store,
			probe: mongo.Healthcheck(db.Client()),
			close: func() { _ = db.Client().Disconnect(context.Background()) },
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// runJanitor calls b.janitor every interval until ctx is done.
func (b *backend) runJanitor(ctx context.Context, interval time.Duration) {
	if b.janitor == nil {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.janitor(ctx)
		}
	}
}
