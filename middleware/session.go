package middleware

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/cachesession/core/handler"
	"github.com/dmitrymomot/cachesession/core/logger"
	"github.com/dmitrymomot/cachesession/core/response"
	"github.com/dmitrymomot/cachesession/core/session"
)

// SessionConfig configures the session middleware.
type SessionConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific requests.
	// Skipped requests get no session.
	Skip func(ctx C) bool
	// Logger for structured logging (default: discard)
	Logger *slog.Logger
	// ErrorHandler renders load and store failures.
	// Default: 503 for session.ErrCacheUnavailable, 500 otherwise.
	ErrorHandler func(ctx C, err error) handler.Response
}

// Session creates middleware that loads the request's session before the
// handler and stores it after the handler returned, before the response is
// rendered. Requests to hosts outside the manager's VHost list pass through
// without a session.
//
//	r.Use(middleware.Session[*handler.BaseContext](mgr))
//
//	func visit(ctx *handler.BaseContext) handler.Response {
//		sess := middleware.MustGetSession(ctx)
//		n, _ := sess.Get("visits")
//		...
//	}
func Session[C handler.Context](mgr *session.Manager) handler.Middleware[C] {
	return SessionWithConfig(mgr, SessionConfig[C]{})
}

// SessionWithConfig creates a session middleware with custom configuration.
func SessionWithConfig[C handler.Context](mgr *session.Manager, cfg SessionConfig[C]) handler.Middleware[C] {
	if mgr == nil {
		panic("session middleware: manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx C, err error) handler.Response {
			return response.Error(SessionError(err))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}
			if !mgr.Applies(ctx.Request()) {
				return next(ctx)
			}

			sess, err := mgr.Load(ctx, ctx.ResponseWriter(), ctx.Request())
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return response.Error(ctxErr)
				}
				cfg.Logger.ErrorContext(ctx, "session middleware: load failed", logger.Error(err))
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.SetValue(session.ContextKey, sess)

			resp := next(ctx)

			if err := mgr.Store(ctx, ctx.ResponseWriter(), ctx.Request(), sess); err != nil {
				cfg.Logger.ErrorContext(ctx, "session middleware: store failed", logger.Error(err))
				return cfg.ErrorHandler(ctx, err)
			}

			return resp
		}
	}
}

// SessionError maps a session failure to the HTTP error reported to the client.
func SessionError(err error) response.HTTPError {
	if errors.Is(err, session.ErrCacheUnavailable) {
		return response.ErrServiceUnavailable.WithError(err)
	}
	return response.ErrInternalServerError.WithError(err)
}

// GetSession retrieves the request's session.
func GetSession(ctx handler.Context) (*session.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	return session.FromContext(ctx)
}

// MustGetSession retrieves the request's session or panics if the middleware did not run.
func MustGetSession(ctx handler.Context) *session.Session {
	sess, ok := GetSession(ctx)
	if !ok {
		panic("session not found in context")
	}
	return sess
}
