package session

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/cachesession/core/cookie"
	"github.com/dmitrymomot/cachesession/core/sessionid"
)

// MaxCacheTTL is the longest entry lifetime handed to a cache, 2^31-1 ms.
const MaxCacheTTL = time.Duration(1<<31-1) * time.Millisecond

const (
	// DefaultName is the cookie name used when Config.Name is empty.
	DefaultName = "id"
	// DefaultSegment is the cache segment used when Config.CacheSegment is empty.
	DefaultSegment = "session"
	anyHost        = "*"
)

// Config holds session settings. Zero values fall back to defaults in Resolve.
type Config struct {
	// Name of the cookie carrying the identifier.
	Name string `env:"SESSION_NAME" envDefault:"id"`
	// Key enables the MAC and, with ExpiresIn, the expiry field.
	Key string `env:"SESSION_KEY"`
	// Algorithm is the MAC hash. Unsupported names fail when minting.
	Algorithm string `env:"SESSION_ALGORITHM" envDefault:"sha256"`
	// Size is the number of random bytes per identifier.
	Size int `env:"SESSION_SIZE" envDefault:"16"`
	// ExpiresIn is the identifier lifetime. Requires Key.
	ExpiresIn time.Duration `env:"SESSION_EXPIRES_IN"`
	// VHost limits sessions to these hosts. "*" matches every host.
	VHost []string `env:"SESSION_VHOST" envDefault:"*" envSeparator:","`

	CacheSegment   string        `env:"SESSION_CACHE_SEGMENT" envDefault:"session"`
	CacheExpiresIn time.Duration `env:"SESSION_CACHE_EXPIRES_IN"`

	Cookie cookie.Config `envPrefix:"SESSION_"`
}

// DefaultConfig returns the defaults: cookie "id", 16 random bytes, sha256,
// segment "session", any host and a Secure, HttpOnly, SameSite=Lax cookie on "/".
func DefaultConfig() Config {
	return Config{
		Name:         DefaultName,
		Algorithm:    sessionid.DefaultAlgorithm,
		Size:         sessionid.DefaultSize,
		VHost:        []string{anyHost},
		CacheSegment: DefaultSegment,
		Cookie:       cookie.DefaultConfig(),
	}
}

// Option modifies the configuration or the manager's collaborators.
type Option func(*options)

// WithName sets the cookie name.
func WithName(name string) Option {
	return func(o *options) { o.cfg.Name = name }
}

// WithKey sets the integrity key.
func WithKey(key string) Option {
	return func(o *options) { o.cfg.Key = key }
}

// WithAlgorithm sets the MAC hash name.
func WithAlgorithm(name string) Option {
	return func(o *options) { o.cfg.Algorithm = name }
}

// WithSize sets the number of random bytes per identifier.
func WithSize(size int) Option {
	return func(o *options) { o.cfg.Size = size }
}

// WithExpiresIn sets the identifier lifetime.
func WithExpiresIn(d time.Duration) Option {
	return func(o *options) { o.cfg.ExpiresIn = d }
}

// WithVHost restricts sessions to the given hosts.
func WithVHost(hosts ...string) Option {
	return func(o *options) { o.cfg.VHost = hosts }
}

// WithCacheSegment sets the cache key namespace.
func WithCacheSegment(name string) Option {
	return func(o *options) { o.cfg.CacheSegment = name }
}

// WithCacheExpiresIn sets the lifetime of cache entries.
func WithCacheExpiresIn(d time.Duration) Option {
	return func(o *options) { o.cfg.CacheExpiresIn = d }
}

// WithCookie replaces the cookie attributes.
func WithCookie(c cookie.Config) Option {
	return func(o *options) { o.cfg.Cookie = c }
}

// Resolve fills derived defaults and validates cfg. It does not modify its
// argument.
//
// Derived values: the cache lifetime defaults to ExpiresIn, or MaxCacheTTL
// when unset, and is capped at MaxCacheTTL. The cookie Max-Age defaults to
// ExpiresIn. A VHost list containing "*" is dropped.
func Resolve(cfg Config) (Config, error) {
	defaults := DefaultConfig()

	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = defaults.Algorithm
	}
	if cfg.Size == 0 {
		cfg.Size = defaults.Size
	}
	if cfg.CacheSegment == "" {
		cfg.CacheSegment = defaults.CacheSegment
	}
	if cfg.Cookie.Path == "" {
		cfg.Cookie.Path = defaults.Cookie.Path
	}
	if cfg.Cookie.SameSite == 0 {
		cfg.Cookie.SameSite = defaults.Cookie.SameSite
	}

	switch {
	case cfg.Size < 0:
		return Config{}, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, cfg.Size)
	case cfg.ExpiresIn < 0:
		return Config{}, fmt.Errorf("%w: negative expiry %s", ErrInvalidConfig, cfg.ExpiresIn)
	case cfg.CacheExpiresIn < 0:
		return Config{}, fmt.Errorf("%w: negative cache expiry %s", ErrInvalidConfig, cfg.CacheExpiresIn)
	case cfg.ExpiresIn > 0 && cfg.Key == "":
		return Config{}, ErrExpiryWithoutKey
	}
	if err := (&http.Cookie{Name: cfg.Name, Value: "x"}).Valid(); err != nil {
		return Config{}, fmt.Errorf("%w: cookie name %q: %v", ErrInvalidConfig, cfg.Name, err)
	}

	if cfg.CacheExpiresIn == 0 {
		cfg.CacheExpiresIn = cfg.ExpiresIn
	}
	if cfg.CacheExpiresIn == 0 || cfg.CacheExpiresIn > MaxCacheTTL {
		cfg.CacheExpiresIn = MaxCacheTTL
	}

	if cfg.Cookie.MaxAge == 0 && cfg.ExpiresIn > 0 {
		cfg.Cookie.MaxAge = max(1, int(cfg.ExpiresIn/time.Second))
	}

	cfg.VHost = normalizeHosts(cfg.VHost)
	cfg.Cookie.MaxSize = max(cfg.Cookie.MaxSize, 0)

	return cfg, nil
}

func normalizeHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == anyHost {
			return nil
		}
		if h != "" && !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
