// Package handler provides type-safe HTTP handlers with deferred rendering.
//
// A HandlerFunc returns a Response instead of writing to the connection. The
// Response is rendered only after every middleware has returned, which lets
// middleware stage headers such as Set-Cookie after the endpoint ran:
//
//	h := handler.Handler(newContext, endpoint,
//		handler.WithMiddleware(sessionMiddleware),
//		handler.WithErrorHandler(response.ErrorHandler[*handler.BaseContext]),
//	)
//	router.Method(http.MethodGet, "/", h)
//
// BaseContext is the default Context implementation. Values stored with
// SetValue travel on the request so later middleware and the endpoint see them.
//
// Handler recovers panics and reports them to the error handler as *PanicError.
// A nil Response is reported as ErrNilResponse.
package handler
