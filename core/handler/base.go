package handler

import (
	"context"
	"net/http"
	"time"
)

// BaseContext is the default Context. It delegates context.Context methods to
// the request's context and keeps values set through SetValue on the request,
// so they are visible to anything holding the updated *http.Request.
type BaseContext struct {
	w     http.ResponseWriter
	r     *http.Request
	param func(r *http.Request, key string) string
}

// NewBaseContext creates a context for one request. param resolves route
// parameters (for example chi.URLParam) and may be nil.
func NewBaseContext(w http.ResponseWriter, r *http.Request, param func(r *http.Request, key string) string) *BaseContext {
	return &BaseContext{w: w, r: r, param: param}
}

// Deadline returns the time when work done on behalf of this context should be canceled.
func (c *BaseContext) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done returns a channel that's closed when work done on behalf of this context should be canceled.
func (c *BaseContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err returns a non-nil error value after Done is closed.
func (c *BaseContext) Err() error {
	return c.r.Context().Err()
}

// Value returns the value associated with this context for key, or nil if no value is associated with key.
func (c *BaseContext) Value(key any) any {
	return c.r.Context().Value(key)
}

// SetValue stores a value in the request's context.
func (c *BaseContext) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

// Request returns the HTTP request associated with this context.
func (c *BaseContext) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the HTTP response writer associated with this context.
func (c *BaseContext) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the route parameter for the given key.
func (c *BaseContext) Param(key string) string {
	if c.param == nil {
		return ""
	}
	return c.param(c.r, key)
}
