package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachesession/core/cache"
	"github.com/dmitrymomot/cachesession/core/config"
	"github.com/dmitrymomot/cachesession/core/session"
)

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := session.Resolve(session.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "id", cfg.Name)
	assert.Equal(t, "sha256", cfg.Algorithm)
	assert.Equal(t, 16, cfg.Size)
	assert.Equal(t, "session", cfg.CacheSegment)
	assert.Equal(t, session.MaxCacheTTL, cfg.CacheExpiresIn)
	assert.Nil(t, cfg.VHost)
	assert.True(t, cfg.Cookie.Secure)
	assert.True(t, cfg.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cfg.Cookie.SameSite)
	assert.Equal(t, "/", cfg.Cookie.Path)
	assert.Zero(t, cfg.Cookie.MaxAge)
}

func TestResolveZeroConfig(t *testing.T) {
	t.Parallel()

	cfg, err := session.Resolve(session.Config{})
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.Name)
	assert.Equal(t, 16, cfg.Size)
	assert.Equal(t, http.SameSiteLaxMode, cfg.Cookie.SameSite)
}

func TestResolveDerived(t *testing.T) {
	t.Parallel()

	t.Run("cache and cookie ttl follow expiry", func(t *testing.T) {
		t.Parallel()
		in := session.DefaultConfig()
		in.Key = "secret"
		in.ExpiresIn = 90 * time.Minute

		cfg, err := session.Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, cfg.CacheExpiresIn)
		assert.Equal(t, 5400, cfg.Cookie.MaxAge)
	})

	t.Run("sub-second expiry keeps a positive max-age", func(t *testing.T) {
		t.Parallel()
		in := session.DefaultConfig()
		in.Key = "secret"
		in.ExpiresIn = time.Second / 2

		cfg, err := session.Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Cookie.MaxAge)
	})

	t.Run("cache ttl capped", func(t *testing.T) {
		t.Parallel()
		in := session.DefaultConfig()
		in.Key = "secret"
		in.ExpiresIn = 365 * 24 * time.Hour

		cfg, err := session.Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, session.MaxCacheTTL, cfg.CacheExpiresIn)
	})

	t.Run("explicit cache ttl wins", func(t *testing.T) {
		t.Parallel()
		in := session.DefaultConfig()
		in.CacheExpiresIn = time.Minute

		cfg, err := session.Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, time.Minute, cfg.CacheExpiresIn)
	})

	t.Run("vhost normalization", func(t *testing.T) {
		t.Parallel()
		in := session.DefaultConfig()
		in.VHost = []string{" Example.com ", "example.com", "api.example.com"}

		cfg, err := session.Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, []string{"example.com", "api.example.com"}, cfg.VHost)
		assert.Equal(t, " Example.com ", in.VHost[0], "input untouched")
	})

	t.Run("wildcard disables vhost filter", func(t *testing.T) {
		t.Parallel()
		in := session.DefaultConfig()
		in.VHost = []string{"example.com", "*"}

		cfg, err := session.Resolve(in)
		require.NoError(t, err)
		assert.Nil(t, cfg.VHost)
	})
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*session.Config)
		want   error
	}{
		{"expiry without key", func(c *session.Config) { c.ExpiresIn = time.Second }, session.ErrExpiryWithoutKey},
		{"negative size", func(c *session.Config) { c.Size = -1 }, session.ErrInvalidConfig},
		{"negative expiry", func(c *session.Config) { c.Key = "k"; c.ExpiresIn = -time.Second }, session.ErrInvalidConfig},
		{"negative cache expiry", func(c *session.Config) { c.CacheExpiresIn = -time.Second }, session.ErrInvalidConfig},
		{"invalid cookie name", func(c *session.Config) { c.Name = "bad name;" }, session.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := session.DefaultConfig()
			tt.modify(&cfg)
			_, err := session.Resolve(cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Parallel()

	var cfg session.Config
	require.NoError(t, config.Parse(&cfg, map[string]string{
		"SESSION_NAME":             "sid",
		"SESSION_KEY":              "secret",
		"SESSION_EXPIRES_IN":       "1h",
		"SESSION_VHOST":            "a.test,b.test",
		"SESSION_COOKIE_SECURE":    "false",
		"SESSION_COOKIE_DOMAIN":    "a.test",
		"SESSION_CACHE_EXPIRES_IN": "30m",
	}))

	assert.Equal(t, "sid", cfg.Name)
	assert.Equal(t, time.Hour, cfg.ExpiresIn)
	assert.Equal(t, []string{"a.test", "b.test"}, cfg.VHost)
	assert.False(t, cfg.Cookie.Secure)
	assert.Equal(t, "a.test", cfg.Cookie.Domain)
	assert.Equal(t, 30*time.Minute, cfg.CacheExpiresIn)
	assert.Equal(t, 16, cfg.Size)
	assert.Equal(t, "sha256", cfg.Algorithm)
}

func TestManagerApplies(t *testing.T) {
	t.Parallel()

	mgr, err := session.New(cache.NewMemory(), session.WithVHost("example.com"))
	require.NoError(t, err)

	tests := []struct {
		host string
		want bool
	}{
		{"example.com", true},
		{"EXAMPLE.com:8443", true},
		{"other.com", false},
		{"sub.example.com", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = tt.host
		assert.Equal(t, tt.want, mgr.Applies(r), tt.host)
	}

	v6, err := session.New(cache.NewMemory(), session.WithVHost("::1"))
	require.NoError(t, err)
	for _, host := range []string{"[::1]", "[::1]:8080"} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = host
		assert.True(t, v6.Applies(r), host)
	}

	all, err := session.New(cache.NewMemory())
	require.NoError(t, err)
	assert.True(t, all.Applies(httptest.NewRequest(http.MethodGet, "http://anything.test/", nil)))
}
