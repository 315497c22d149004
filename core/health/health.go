package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/cachesession/core/handler"
	"github.com/dmitrymomot/cachesession/core/logger"
	"github.com/dmitrymomot/cachesession/core/response"
)

const (
	StatusOK          = "ok"
	StatusReady       = "ready"
	StatusUnavailable = "unavailable"
)

// Check is a named dependency probe.
type Check struct {
	Name  string
	Probe func(context.Context) error
}

// Report is the JSON body written by Readiness.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Liveness reports that the process is serving requests.
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ALIVE")
}

// Readiness runs every check and answers 200 when all pass and 503
// otherwise. Failures are logged, never returned to the client.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx C) handler.Response {
		report := Report{Status: StatusReady, Checks: make(map[string]string, len(checks))}
		for _, c := range checks {
			if err := c.Probe(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Component(c.Name), logger.Error(err))
				report.Checks[c.Name] = StatusUnavailable
				report.Status = StatusUnavailable
				continue
			}
			report.Checks[c.Name] = StatusOK
		}

		if report.Status != StatusReady {
			return response.JSONWithStatus(report, http.StatusServiceUnavailable)
		}
		return response.JSON(report)
	}
}
