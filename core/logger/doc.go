// Package logger builds slog loggers and provides attribute helpers.
//
//	log := logger.New(
//		logger.WithProduction("sessiond"),
//		logger.WithContextExtractors(requestIDFromContext),
//	)
//	log.Info("session stored", logger.SessionRef(id), logger.Result("saved"))
//
// Attribute helpers return an empty slog.Attr for empty input, which slog
// drops, so callers never need nil checks. Session identifiers are bearer
// credentials: log them through SessionRef, which emits a short hash.
package logger
