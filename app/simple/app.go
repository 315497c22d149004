package simple

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/cachesession/core/cache"
	"github.com/dmitrymomot/cachesession/core/config"
	"github.com/dmitrymomot/cachesession/core/logger"
	"github.com/dmitrymomot/cachesession/core/server"
	"github.com/dmitrymomot/cachesession/core/session"
	"github.com/dmitrymomot/cachesession/middleware"
)

// App wires a session manager over the configured backend to an HTTP router
// and server.
type App struct {
	config   Config
	logger   *slog.Logger
	backend  *backend
	session  *session.Manager
	registry *prometheus.Registry
	router   chi.Router
	server   *server.Server
}

// AppOption customizes an App before its dependencies are built.
type AppOption func(*App) error

// NewApp loads Config from the environment and builds the App. Call Close
// when done to release the backend.
func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return NewAppWithConfig(ctx, cfg, opts...)
}

// NewAppWithConfig builds the App from cfg.
func NewAppWithConfig(ctx context.Context, cfg Config, opts ...AppOption) (*App, error) {
	app := &App{config: cfg}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = newLogger(cfg)
	}
	if app.registry == nil {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if app.backend == nil {
		b, err := openBackend(ctx, cfg.Backend, cfg, app.logger)
		if err != nil {
			return nil, err
		}
		app.backend = b
	}

	if app.session == nil {
		metrics, err := session.NewMetrics(app.registry)
		if err != nil {
			app.backend.close()
			return nil, err
		}
		mgr, err := session.NewFromConfig(cfg.Session, app.backend.store,
			session.WithLogger(app.logger.With(logger.Component("session"))),
			session.WithMetrics(metrics),
		)
		if err != nil {
			app.backend.close()
			return nil, err
		}
		app.session = mgr
	}

	if app.server == nil {
		srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger.With(logger.Component("server"))))
		if err != nil {
			app.backend.close()
			return nil, err
		}
		app.server = srv
	}

	app.router = app.routes()
	return app, nil
}

// WithLogger replaces the application logger.
func WithLogger(l *slog.Logger) AppOption {
	return func(app *App) error {
		if l == nil {
			return ErrNilOption
		}
		app.logger = l
		return nil
	}
}

// WithStore uses store instead of opening the configured backend.
func WithStore(store cache.Store) AppOption {
	return func(app *App) error {
		if store == nil {
			return ErrNilOption
		}
		app.backend = &backend{
			name:  "custom",
			store: store,
			probe: func(context.Context) error { return nil },
			close: func() {},
		}
		return nil
	}
}

// WithRegistry collects metrics into reg.
func WithRegistry(reg *prometheus.Registry) AppOption {
	return func(app *App) error {
		if reg == nil {
			return ErrNilOption
		}
		app.registry = reg
		return nil
	}
}

// WithServer replaces the HTTP server.
func WithServer(srv *server.Server) AppOption {
	return func(app *App) error {
		if srv == nil {
			return ErrNilOption
		}
		app.server = srv
		return nil
	}
}

// WithSessionManager replaces the session manager.
func WithSessionManager(mgr *session.Manager) AppOption {
	return func(app *App) error {
		if mgr == nil {
			return ErrNilOption
		}
		app.session = mgr
		return nil
	}
}

// Handler returns the application's HTTP handler.
func (a *App) Handler() http.Handler { return a.router }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Session returns the session manager.
func (a *App) Session() *session.Manager { return a.session }

// Run serves HTTP until ctx is done, running the backend janitor alongside.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting",
		slog.String("backend", a.backend.name),
		slog.String("addr", a.server.Addr()),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.backend.runJanitor(ctx, janitorInterval)
		return nil
	})
	g.Go(func() error {
		return a.server.Run(ctx, a.router)
	})
	return g.Wait()
}

// Close releases the backend connection.
func (a *App) Close() {
	if a.backend != nil {
		a.backend.close()
	}
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{logger.WithContextExtractors(middleware.RequestIDExtractor)}
	if cfg.IsProduction() {
		opts = append(opts, logger.WithProduction(cfg.AppName))
	} else {
		opts = append(opts, logger.WithDevelopment(cfg.AppName))
	}

	var level slog.Level
	if cfg.LogLevel != "" && level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))) == nil {
		opts = append(opts, logger.WithLevel(level))
	}
	return logger.New(opts...)
}
