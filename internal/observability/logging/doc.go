// Package logging builds the process logger and carries request-scoped
// loggers through context.Context.
//
// A single JSON logger is built in cmd/api from LOG_LEVEL and passed down.
// The HTTP logging middleware stores a per-request child carrying
// request_id; handlers retrieve it with FromContext:
//
//	logger := logging.FromContext(r.Context())
//	logger.Info("article created", slog.String("article_id", id))
package logging
