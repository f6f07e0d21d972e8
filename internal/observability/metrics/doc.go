// Package metrics holds the business-level Prometheus metrics: content
// totals refreshed on a schedule and per-operation article outcomes.
package metrics
