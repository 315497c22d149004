package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachesession/core/handler"
	"github.com/dmitrymomot/cachesession/core/logger"
	"github.com/dmitrymomot/cachesession/core/response"
	"github.com/dmitrymomot/cachesession/middleware"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates uuid", func(t *testing.T) {
		t.Parallel()

		var seen string
		h := handler.Handler(newContext, func(c ctx) handler.Response {
			seen, _ = middleware.GetRequestID(c)
			return response.NoContent()
		}, handler.WithMiddleware(middleware.RequestID[ctx]()))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
	})

	t.Run("reuses incoming header", func(t *testing.T) {
		t.Parallel()

		h := handler.Handler(newContext, func(c ctx) handler.Response {
			return response.NoContent()
		}, handler.WithMiddleware(middleware.RequestIDWithConfig[ctx](middleware.RequestIDConfig{
			HeaderName:  "X-Trace",
			UseExisting: true,
		})))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Trace", "abc")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, "abc", w.Header().Get("X-Trace"))
	})

	t.Run("header present on error responses", func(t *testing.T) {
		t.Parallel()

		h := handler.Handler(newContext, func(c ctx) handler.Response {
			return response.Error(response.ErrNotFound)
		}, handler.WithMiddleware(middleware.RequestIDWithConfig[ctx](middleware.RequestIDConfig{
			Generator: func() string { return "fixed" },
		})))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "fixed", w.Header().Get("X-Request-ID"))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	)

	h := handler.Handler(newContext, func(c ctx) handler.Response {
		log.InfoContext(c, "inside")
		return response.NoContent()
	}, handler.WithMiddleware(middleware.RequestIDWithConfig[ctx](middleware.RequestIDConfig{
		Generator: func() string { return "req-7" },
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-7", rec["request_id"])

	_, ok := middleware.RequestIDExtractor(context.Background())
	assert.False(t, ok)
}
