package middleware

import (
	"maps"
	"net/http"

	"github.com/dmitrymomot/cachesession/core/handler"
)

// HeadersConfig lists the response headers added by the Headers middleware.
// Empty fields are not sent.
type HeadersConfig struct {
	Skip func(ctx handler.Context) bool

	// CacheControl keeps shared caches from storing responses that may carry
	// a session cookie.
	CacheControl            string
	Vary                    string
	ContentTypeOptions      string
	FrameOptions            string
	ReferrerPolicy          string
	StrictTransportSecurity string
	Custom                  map[string]string

	// IsDevelopment drops HSTS.
	IsDevelopment bool
}

// DefaultHeaders is the configuration used by Headers.
var DefaultHeaders = HeadersConfig{
	CacheControl:            "no-store",
	Vary:                    "Cookie",
	ContentTypeOptions:      "nosniff",
	FrameOptions:            "DENY",
	ReferrerPolicy:          "strict-origin-when-cross-origin",
	StrictTransportSecurity: "max-age=31536000; includeSubDomains",
}

// Headers adds DefaultHeaders to every response.
func Headers[C handler.Context]() handler.Middleware[C] {
	return HeadersWithConfig[C](DefaultHeaders)
}

// HeadersWithConfig adds the configured headers just before the response
// renders, so they are present on error responses too.
func HeadersWithConfig[C handler.Context](cfg HeadersConfig) handler.Middleware[C] {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	headers := make(map[string]string, 6+len(cfg.Custom))
	for name, value := range map[string]string{
		"Cache-Control":             cfg.CacheControl,
		"Vary":                      cfg.Vary,
		"X-Content-Type-Options":    cfg.ContentTypeOptions,
		"X-Frame-Options":           cfg.FrameOptions,
		"Referrer-Policy":           cfg.ReferrerPolicy,
		"Strict-Transport-Security": cfg.StrictTransportSecurity,
	} {
		if value != "" {
			headers[name] = value
		}
	}
	maps.Copy(headers, cfg.Custom)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				for name, value := range headers {
					w.Header().Set(name, value)
				}
				return resp(w, r)
			}
		}
	}
}
