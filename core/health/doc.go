// Package health provides liveness and readiness handlers.
//
//	r.Method(http.MethodGet, "/livez", handler.Handler(newContext, health.Liveness[*Context]))
//	r.Method(http.MethodGet, "/healthz", handler.Handler(newContext, health.Readiness[*Context](
//		log,
//		health.Check{Name: "redis", Probe: redis.Healthcheck(client)},
//	)))
//
// Probes follow the func(context.Context) error signature returned by the
// Healthcheck helpers of the integration packages.
package health
