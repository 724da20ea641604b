// Package logger builds slog loggers with per-record context extraction and
// optional Sentry forwarding.
//
// Extractors run on every log call, so request-scoped values stay fresh:
//
//	log := logger.New(logger.WithExtractors(func(ctx context.Context) (slog.Attr, bool) {
//		if id, ok := ctx.Value(requestIDKey).(string); ok {
//			return slog.String("request_id", id), true
//		}
//		return slog.Attr{}, false
//	}))
//	log.InfoContext(ctx, "request handled", slog.Int("status", 200))
//
// NewWithSentry adds error reporting on top of the local handler; with an
// empty DSN it degrades to local-only, so the same construction works in
// development and production.
package logger
