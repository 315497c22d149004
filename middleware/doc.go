// Package middleware provides handler.Middleware implementations for the
// request pipeline.
//
// All middleware are generic over the handler.Context type and follow the
// same pattern: a default constructor plus a WithConfig variant whose config
// struct carries an optional Skip func.
//
//	h := handler.Handler(newContext, show, handler.WithMiddleware(
//		middleware.RequestID[*Context](),
//		middleware.Headers[*Context](),
//		middleware.Logging[*Context](),
//		middleware.Session[*Context](mgr),
//	))
//
// # Session
//
// Session loads the request's session before the handler and stores it after
// the handler returned, before the response renders, so the Set-Cookie
// header is staged in time. Handlers read it with GetSession or
// MustGetSession. Load and store failures render through ErrorHandler:
// 503 when the cache is unavailable and 500 when no identifier could be
// minted.
//
// # RequestID
//
// RequestID reuses an incoming X-Request-ID header or generates a UUID and
// echoes it on the response. RequestIDExtractor adds it to log records
// through logger.WithContextExtractors.
//
// # Logging
//
// Logging writes one record per request with method, path, status, duration,
// request id and session state. The identifier is logged only as a short
// fingerprint.
//
// # Headers
//
// Headers marks responses as not storable by shared caches and adds a small
// set of security headers.
package middleware
