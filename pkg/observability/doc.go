// Package observability provides structured logging, Prometheus metrics,
// health probes and graceful shutdown for the depot server.
//
// # Overview
//
// Logging uses stdlib slog with a JSON handler; the Logger type carries
// contextual fields (request ID, user) through the request path. Metrics
// are registered on a private Prometheus registry and served from the
// health mux alongside liveness and readiness probes.
//
// # Usage Example
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//
//	handler = observability.HTTPMetricsMiddleware(metrics)(handler)
//
// # Related Packages
//
//   - pkg/storage: exports cache and record-count metrics through Metrics
//   - pkg/api: wraps its router with the HTTP middleware
package observability
