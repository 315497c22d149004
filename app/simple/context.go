package simple

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/cachesession/core/handler"
)

// Context is the request context passed to application handlers.
type Context struct {
	*handler.BaseContext
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{BaseContext: handler.NewBaseContext(w, r, chi.URLParam)}
}
