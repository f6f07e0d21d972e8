// Package tracing wires OpenTelemetry into the HTTP server: a tracer
// provider with W3C trace context propagation and a server-span middleware
// that echoes the trace ID in X-Trace-Id.
package tracing
