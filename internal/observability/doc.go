// Package observability groups the process-wide telemetry helpers.
//
// Subpackages:
//   - logging: the JSON slog logger and request-scoped context loggers
//   - metrics: business gauges and counters for articles and users
//   - tracing: OpenTelemetry provider setup and the server-span middleware
//
// HTTP request metrics live next to the middleware in internal/handler/http.
package observability
