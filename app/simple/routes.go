package simple

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/cachesession/core/handler"
	"github.com/dmitrymomot/cachesession/core/health"
	"github.com/dmitrymomot/cachesession/core/logger"
	"github.com/dmitrymomot/cachesession/core/response"
	"github.com/dmitrymomot/cachesession/core/session"
	"github.com/dmitrymomot/cachesession/middleware"
)

// sessionView is the JSON body of the session endpoints. The identifier
// itself is never echoed since the cookie is HttpOnly.
type sessionView struct {
	State  string         `json:"state"`
	Fresh  bool           `json:"fresh"`
	Values map[string]any `json:"values"`
}

func viewOf(sess *session.Session) sessionView {
	if sess == nil {
		return sessionView{State: session.StateAbsent.String(), Values: map[string]any{}}
	}
	return sessionView{
		State:  sess.State().String(),
		Fresh:  sess.IsFresh(),
		Values: sess.Values(),
	}
}

func (a *App) routes() chi.Router {
	r := chi.NewRouter()

	headers := middleware.DefaultHeaders
	headers.IsDevelopment = !a.config.IsProduction()

	wrap := func(fn handler.HandlerFunc[*Context]) http.Handler {
		return handler.Handler(newContext, fn,
			handler.WithErrorHandler[*Context](response.JSONErrorHandler[*Context]),
			handler.WithLogger[*Context](a.logger),
			handler.WithMiddleware[*Context](
				middleware.RequestID[*Context](),
				middleware.HeadersWithConfig[*Context](headers),
				middleware.LoggingWithLogger[*Context](a.logger.With(logger.Component("http"))),
				middleware.SessionWithConfig(a.session, middleware.SessionConfig[*Context]{
					Logger: a.logger.With(logger.Component("session")),
				}),
			),
		)
	}

	r.Method(http.MethodGet, "/", wrap(a.show))
	r.Method(http.MethodGet, "/write", wrap(a.write))
	r.Method(http.MethodPost, "/logout", wrap(a.logout))

	r.Method(http.MethodGet, "/livez", handler.Handler(newContext, health.Liveness[*Context]))
	r.Method(http.MethodGet, "/healthz", handler.Handler(newContext, health.Readiness[*Context](
		a.logger.With(logger.Component("health")),
		health.Check{Name: a.backend.name, Probe: a.backend.probe},
	)))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))

	return r
}

func (a *App) show(ctx *Context) handler.Response {
	sess, _ := middleware.GetSession(ctx)
	return response.JSON(viewOf(sess))
}

func (a *App) write(ctx *Context) handler.Response {
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		return response.Error(response.ErrNotFound.WithMessage("sessions are not enabled for this host"))
	}

	q := ctx.Request().URL.Query()
	key := q.Get("key")
	if key == "" {
		return response.Error(response.ErrBadRequest.WithMessage("key is required"))
	}
	sess.Set(key, q.Get("value"))
	return response.JSON(viewOf(sess))
}

func (a *App) logout(ctx *Context) handler.Response {
	if sess, ok := middleware.GetSession(ctx); ok {
		sess.Remove()
	}
	return response.NoContent()
}
