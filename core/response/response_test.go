package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachesession/core/handler"
	"github.com/dmitrymomot/cachesession/core/response"
)

type statusErr struct{ status int }

func (e statusErr) Error() string   { return "status error" }
func (e statusErr) StatusCode() int { return e.status }

func serve(t *testing.T, fn handler.HandlerFunc[*handler.BaseContext], eh handler.ErrorHandler[*handler.BaseContext]) *httptest.ResponseRecorder {
	t.Helper()
	h := handler.Handler(func(w http.ResponseWriter, r *http.Request) *handler.BaseContext {
		return handler.NewBaseContext(w, r, nil)
	}, fn, handler.WithErrorHandler(eh))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestString(t *testing.T) {
	t.Parallel()

	rec := serve(t, func(ctx *handler.BaseContext) handler.Response {
		return response.String("hello")
	}, response.ErrorHandler[*handler.BaseContext])

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestJSONWithStatus(t *testing.T) {
	t.Parallel()

	t.Run("nil data defaults to no content", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, func(ctx *handler.BaseContext) handler.Response {
			return response.JSONWithStatus(nil, 0)
		}, response.ErrorHandler[*handler.BaseContext])
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("custom status", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, func(ctx *handler.BaseContext) handler.Response {
			return response.JSONWithStatus(map[string]int{"n": 1}, http.StatusCreated)
		}, response.ErrorHandler[*handler.BaseContext])
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"n":1}`, rec.Body.String())
	})
}

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"plain error", errors.New("x"), http.StatusInternalServerError, "internal_server_error"},
		{"http error", response.ErrNotFound, http.StatusNotFound, "not_found"},
		{"status coder", statusErr{http.StatusServiceUnavailable}, http.StatusServiceUnavailable, "service_unavailable"},
		{"wrapped status coder", fmt.Errorf("load: %w", statusErr{http.StatusConflict}), http.StatusConflict, "conflict"},
		{"uncatalogued status", statusErr{http.StatusTeapot}, http.StatusTeapot, "error"},
		{"invalid status", statusErr{799}, http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := response.AsHTTPError(tt.err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestHTTPErrorWithError(t *testing.T) {
	t.Parallel()

	cause := errors.New("redis down")
	err := response.ErrServiceUnavailable.WithError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, response.ErrServiceUnavailable.Unwrap())

	b, jerr := json.Marshal(err)
	require.NoError(t, jerr)
	assert.NotContains(t, string(b), "redis down")
}

func TestErrorHandlers(t *testing.T) {
	t.Parallel()

	t.Run("plain text", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, func(ctx *handler.BaseContext) handler.Response {
			return response.Error(statusErr{http.StatusServiceUnavailable})
		}, response.ErrorHandler[*handler.BaseContext])

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Service Unavailable", rec.Body.String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, func(ctx *handler.BaseContext) handler.Response {
			return response.Error(response.ErrForbidden.WithMessage("nope"))
		}, response.JSONErrorHandler[*handler.BaseContext])

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"code":"forbidden","message":"nope"}`, rec.Body.String())
	})

	t.Run("skips when response already written", func(t *testing.T) {
		t.Parallel()
		rec := serve(t, func(ctx *handler.BaseContext) handler.Response {
			return func(w http.ResponseWriter, r *http.Request) error {
				w.WriteHeader(http.StatusAccepted)
				return errors.New("late failure")
			}
		}, response.ErrorHandler[*handler.BaseContext])

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
