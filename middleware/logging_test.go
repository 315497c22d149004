package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachesession/core/cache"
	"github.com/dmitrymomot/cachesession/core/handler"
	"github.com/dmitrymomot/cachesession/core/logger"
	"github.com/dmitrymomot/cachesession/core/response"
	"github.com/dmitrymomot/cachesession/core/session"
	"github.com/dmitrymomot/cachesession/middleware"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("records request with session", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
		mgr := newManager(t, cache.NewMemory())

		h := handler.Handler(newContext,
			sessionJSON(func(s *session.Session) { s.Set("k", "v") }),
			handler.WithMiddleware(
				middleware.LoggingWithLogger[ctx](log),
				middleware.RequestIDWithConfig[ctx](middleware.RequestIDConfig{Generator: func() string { return "r1" }}),
				middleware.Session[ctx](mgr),
			),
		)
		w := serve(h, "")
		require.Equal(t, http.StatusOK, w.Code)

		rec := decodeRecord(t, &buf)
		assert.Equal(t, "HTTP request completed", rec["msg"])
		assert.Equal(t, "GET", rec["method"])
		assert.Equal(t, "/", rec["path"])
		assert.EqualValues(t, 200, rec["status_code"])
		assert.Equal(t, "r1", rec["request_id"])
		assert.Equal(t, "populated", rec["session"])
		assert.NotEmpty(t, rec["session_ref"])
		assert.NotContains(t, buf.String(), sessionCookie(w).Value)
	})

	t.Run("server errors at error level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
		h := handler.Handler(newContext, func(c ctx) handler.Response {
			return response.StringWithStatus("down", http.StatusServiceUnavailable)
		}, handler.WithMiddleware(middleware.LoggingWithLogger[ctx](log)))

		serve(h, "")
		rec := decodeRecord(t, &buf)
		assert.Equal(t, slog.LevelError.String(), rec["level"])
		assert.Equal(t, "absent", rec["session"])
	})

	t.Run("nil response reaches error handler", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var got error
		log := logger.New(logger.WithOutput(&buf))
		h := handler.Handler(newContext,
			func(c ctx) handler.Response { return nil },
			handler.WithMiddleware(middleware.LoggingWithLogger[ctx](log)),
			handler.WithErrorHandler(func(c ctx, err error) {
				got = err
				c.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)

		w := serve(h, "")
		assert.ErrorIs(t, got, handler.ErrNilResponse)
		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))
		h := handler.Handler(newContext, func(c ctx) handler.Response {
			return response.NoContent()
		}, handler.WithMiddleware(middleware.LoggingWithConfig[ctx](middleware.LoggingConfig{
			Logger: log,
			Skip:   func(c handler.Context) bool { return true },
		})))

		serve(h, "")
		assert.Empty(t, buf.String())
	})
}
