package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachesession/core/cookie"
)

func TestManager_Get(t *testing.T) {
	t.Parallel()

	m := cookie.New()

	t.Run("existing cookie", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "id", Value: "abc"})

		v, err := m.Get(r, "id")
		require.NoError(t, err)
		assert.Equal(t, "abc", v)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := m.Get(r, "id")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})
}

func TestManager_Set(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults and overrides", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecure(true))
		w := httptest.NewRecorder()

		require.NoError(t, m.Set(w, "id", "abc", cookie.WithMaxAge(60)))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "id", c.Name)
		assert.Equal(t, "abc", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 60, c.MaxAge)
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})

	t.Run("replaces staged cookie with same name", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		w := httptest.NewRecorder()
		w.Header().Add("Set-Cookie", "other=1")

		m.Delete(w, "id")
		require.NoError(t, m.Set(w, "id", "fresh"))

		lines := w.Header().Values("Set-Cookie")
		require.Len(t, lines, 2)
		assert.Equal(t, "other=1", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "id=fresh"))
	})

	t.Run("does not touch cookies sharing a name prefix", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		w := httptest.NewRecorder()

		require.NoError(t, m.Set(w, "idx", "1"))
		require.NoError(t, m.Set(w, "id", "2"))

		assert.Len(t, w.Header().Values("Set-Cookie"), 2)
	})

	t.Run("rejects oversized cookie", func(t *testing.T) {
		t.Parallel()

		m := cookie.NewWithOptions(nil, cookie.WithMaxSize(32))
		w := httptest.NewRecorder()

		err := m.Set(w, "id", strings.Repeat("a", 64))

		var tooLarge cookie.ErrCookieTooLarge
		require.ErrorAs(t, err, &tooLarge)
		assert.Equal(t, "id", tooLarge.Name)
		assert.Equal(t, 32, tooLarge.Max)
		assert.Empty(t, w.Header().Values("Set-Cookie"))
	})

	t.Run("rejects invalid name", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		w := httptest.NewRecorder()

		err := m.Set(w, "bad name", "v")
		assert.ErrorIs(t, err, cookie.ErrInvalidName)
	})
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecure(true))
	w := httptest.NewRecorder()

	m.Delete(w, "id")

	line := w.Header().Get("Set-Cookie")
	assert.Contains(t, line, "id=;")
	assert.Contains(t, line, "Max-Age=0")
	assert.Contains(t, line, "Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	assert.Contains(t, line, "Secure")
	assert.Contains(t, line, "HttpOnly")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := cookie.DefaultConfig()
	cfg.Domain = "example.com"
	cfg.SameSite = http.SameSiteStrictMode

	m := cookie.NewFromConfig(cfg, cookie.WithPath("/app"))
	d := m.Defaults()

	assert.Equal(t, "/app", d.Path)
	assert.Equal(t, "example.com", d.Domain)
	assert.True(t, d.Secure)
	assert.True(t, d.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, d.SameSite)
}

func TestNewFromConfig_ZeroValueKeepsDefaults(t *testing.T) {
	t.Parallel()

	d := cookie.NewFromConfig(cookie.Config{}).Defaults()

	assert.Equal(t, "/", d.Path)
	assert.Equal(t, http.SameSiteLaxMode, d.SameSite)
	assert.False(t, d.HttpOnly)
	assert.False(t, d.Secure)
}

func TestNewFromConfig_DisabledFlags(t *testing.T) {
	t.Parallel()

	cfg := cookie.DefaultConfig()
	cfg.HttpOnly = false
	cfg.Secure = false
	m := cookie.NewFromConfig(cfg)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Set(rec, "id", "v"))

	line := rec.Header().Get("Set-Cookie")
	assert.NotContains(t, line, "HttpOnly")
	assert.NotContains(t, line, "Secure")
}
