package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// ErrNilResponse is passed to the error handler when a handler returns nil.
var ErrNilResponse = errors.New("handler returned nil response")

// PanicError carries a recovered panic value and the stack it was raised on.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

type adapter[C Context] struct {
	newContext   func(http.ResponseWriter, *http.Request) C
	errorHandler ErrorHandler[C]
	middlewares  []Middleware[C]
	logger       *slog.Logger
}

// AdapterOption configures Handler.
type AdapterOption[C Context] func(*adapter[C])

// WithErrorHandler sets the handler for render errors, nil responses and panics.
func WithErrorHandler[C Context](h ErrorHandler[C]) AdapterOption[C] {
	return func(a *adapter[C]) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithMiddleware appends middleware; the first one runs outermost.
func WithMiddleware[C Context](mws ...Middleware[C]) AdapterOption[C] {
	return func(a *adapter[C]) {
		a.middlewares = append(a.middlewares, mws...)
	}
}

// WithLogger sets the logger used for panics after the response was written.
func WithLogger[C Context](l *slog.Logger) AdapterOption[C] {
	return func(a *adapter[C]) {
		if l != nil {
			a.logger = l
		}
	}
}

// Handler adapts fn to net/http. Middleware runs before the returned Response
// is rendered, so middleware may still stage headers after fn returns.
func Handler[C Context](newContext func(http.ResponseWriter, *http.Request) C, fn HandlerFunc[C], opts ...AdapterOption[C]) http.Handler {
	a := &adapter[C]{
		newContext:   newContext,
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}

	h := Chain(fn, a.middlewares...)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := newResponseWriter(w)
		ctx := a.newContext(ww, r)

		defer func() {
			if p := recover(); p != nil {
				perr := &PanicError{Value: p, Stack: debug.Stack()}
				if ww.Written() {
					a.logger.Error("panic after response written",
						"value", perr.Value,
						"stack", string(perr.Stack),
						"path", r.URL.Path,
						"method", r.Method,
						"status", ww.Status(),
					)
					return
				}
				a.errorHandler(ctx, perr)
			}
		}()

		resp := h(ctx)
		if resp == nil {
			a.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp(ww, ctx.Request()); err != nil {
			a.errorHandler(ctx, err)
		}
	})
}

// Chain wraps endpoint in middlewares so the first middleware runs first.
func Chain[C Context](endpoint HandlerFunc[C], middlewares ...Middleware[C]) HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type statusCoder interface {
	StatusCode() int
}

// defaultErrorHandler writes a plain-text error unless a response is already out.
func defaultErrorHandler[C Context](ctx C, err error) {
	w := ctx.ResponseWriter()
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	var sc statusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	http.Error(w, http.StatusText(status), status)
}
