package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/cachesession/core/cache"
	"github.com/dmitrymomot/cachesession/core/cookie"
	"github.com/dmitrymomot/cachesession/core/logger"
	"github.com/dmitrymomot/cachesession/core/sessionid"
)

const tracerName = "github.com/dmitrymomot/cachesession/core/session"

type options struct {
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// WithLogger sets the logger. Identifiers are logged as fingerprints only.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer sets the OpenTelemetry tracer. The global provider is used by default.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithClock overrides the time source used for identifier expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Manager loads a request's session from the cache before the handler runs
// and persists or drops it afterwards. Its configuration is fixed at
// construction and it is safe for concurrent use.
type Manager struct {
	cfg     Config
	codec   *sessionid.Codec
	store   *cache.Segment
	cookies *cookie.Manager
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// New creates a Manager from DefaultConfig with opts applied.
func New(store cache.Store, opts ...Option) (*Manager, error) {
	return NewFromConfig(DefaultConfig(), store, opts...)
}

// NewFromConfig creates a Manager from cfg with opts applied on top. The
// result of Resolve is what the manager uses.
func NewFromConfig(cfg Config, store cache.Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil cache store", ErrInvalidConfig)
	}

	o := &options{
		cfg:    cfg,
		logger: logger.Discard(),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	resolved, err := Resolve(o.cfg)
	if err != nil {
		return nil, err
	}

	codec := sessionid.New(sessionid.Options{
		Size:      resolved.Size,
		Key:       []byte(resolved.Key),
		Algorithm: resolved.Algorithm,
		ExpiresIn: resolved.ExpiresIn,
	}, sessionid.WithClock(o.now))

	return &Manager{
		cfg:     resolved,
		codec:   codec,
		store:   cache.NewSegment(store, resolved.CacheSegment, resolved.CacheExpiresIn),
		cookies: cookie.NewFromConfig(resolved.Cookie),
		logger:  o.logger.With(logger.Component("session"), logger.Segment(resolved.CacheSegment)),
		metrics: o.metrics,
		tracer:  o.tracer,
	}, nil
}

// Config returns the resolved configuration.
func (m *Manager) Config() Config {
	cfg := m.cfg
	cfg.VHost = slices.Clone(m.cfg.VHost)
	return cfg
}

// Codec returns the identifier codec.
func (m *Manager) Codec() *sessionid.Codec {
	return m.codec
}

// Applies reports whether r's host is covered by the VHost list.
func (m *Manager) Applies(r *http.Request) bool {
	if len(m.cfg.VHost) == 0 {
		return true
	}
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else {
		host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	}
	return slices.Contains(m.cfg.VHost, strings.ToLower(host))
}

// Load returns the session for r. A missing, invalid or expired cookie and a
// cache miss all yield a fresh empty session; in the last three cases the
// stale cookie is cleared on w. Cache failures return ErrCacheUnavailable
// and never degrade to an empty session.
func (m *Manager) Load(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	ctx, span := m.tracer.Start(ctx, "session.load")
	defer span.End()

	sess, result, err := m.load(ctx, w, r)
	m.metrics.load(result)
	span.SetAttributes(attribute.String("session.result", result))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.ErrorContext(ctx, "session load failed", logger.Host(r.Host), logger.Error(err))
		return nil, err
	}
	return sess, nil
}

func (m *Manager) load(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, string, error) {
	raw, err := m.cookies.Get(r, m.cfg.Name)
	if err != nil {
		// net/http drops values with invalid octets; clear them anyway.
		if hasRawCookie(r, m.cfg.Name) {
			m.cookies.Delete(w, m.cfg.Name)
			return newSession(), LoadInvalid, nil
		}
		return newSession(), LoadFresh, nil
	}

	res := m.codec.Validate(raw)
	if !res.Valid {
		m.cookies.Delete(w, m.cfg.Name)
		if res.Expired {
			return newSession(), LoadExpired, nil
		}
		return newSession(), LoadInvalid, nil
	}

	start := time.Now()
	payload, err := m.store.Get(ctx, raw)
	m.metrics.observe("get", start)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		m.cookies.Delete(w, m.cfg.Name)
		return newSession(), LoadMiss, nil
	case err != nil:
		return nil, LoadError, errors.Join(ErrCacheUnavailable, err)
	}

	sess, ok := newLoaded(raw, payload)
	if !ok {
		m.logger.DebugContext(ctx, "cache entry is not a session object", logger.SessionRef(raw))
		m.cookies.Delete(w, m.cfg.Name)
		return newSession(), LoadMiss, nil
	}
	return sess, LoadHit, nil
}

// Store persists sess after the handler ran. Unmodified sessions cause no
// I/O. A fresh session gets its identifier minted and its cookie staged only
// after the cache write succeeded. A removed session has its cache entry
// dropped before the cookie is cleared. A nil sess is a no-op.
func (m *Manager) Store(ctx context.Context, w http.ResponseWriter, r *http.Request, sess *Session) error {
	if sess == nil {
		return nil
	}
	if !sess.IsModified() {
		m.metrics.store(StoreClean)
		return nil
	}

	ctx, span := m.tracer.Start(ctx, "session.store")
	defer span.End()

	result, err := m.persist(ctx, w, sess)
	m.metrics.store(result)
	span.SetAttributes(attribute.String("session.result", result))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.ErrorContext(ctx, "session store failed", logger.Host(r.Host), logger.Error(err))
		return err
	}
	m.logger.DebugContext(ctx, "session stored", logger.SessionRef(sess.ID()), logger.Result(result))
	return nil
}

func (m *Manager) persist(ctx context.Context, w http.ResponseWriter, sess *Session) (string, error) {
	id, pendingDrop, payload, err := sess.snapshot()
	if err != nil {
		return StoreError, err
	}

	if pendingDrop {
		if id != "" {
			start := time.Now()
			err := m.store.Delete(ctx, id)
			m.metrics.observe("delete", start)
			if err != nil && !errors.Is(err, cache.ErrNotFound) {
				return StoreError, errors.Join(ErrCacheUnavailable, err)
			}
		}
		m.cookies.Delete(w, m.cfg.Name)
		sess.dropped()
		if sess.Len() == 0 {
			return StoreDeleted, nil
		}
		id = ""
	}

	minted := id == ""
	if minted {
		if id, err = m.codec.Construct(); err != nil {
			return StoreError, errors.Join(ErrIdentifierConstruction, err)
		}
	}

	start := time.Now()
	err = m.store.Set(ctx, id, payload, 0)
	m.metrics.observe("set", start)
	if err != nil {
		return StoreError, errors.Join(ErrCacheUnavailable, err)
	}

	if minted {
		if err := m.cookies.Set(w, m.cfg.Name, id); err != nil {
			return StoreError, fmt.Errorf("session: stage cookie: %w", err)
		}
	}
	sess.committed(id, payload)

	if minted {
		return StoreMinted, nil
	}
	return StoreSaved, nil
}

// hasRawCookie reports whether the Cookie header carries a name= pair,
// including values net/http refuses to parse.
func hasRawCookie(r *http.Request, name string) bool {
	for _, line := range r.Header.Values("Cookie") {
		for _, part := range strings.Split(line, ";") {
			k, _, ok := strings.Cut(strings.TrimSpace(part), "=")
			if ok && k == name {
				return true
			}
		}
	}
	return false
}
