// Package middleware provides drop-in navigation observers:
// Prometheus metrics and OpenTelemetry tracing for every navigation a
// controller runs.
package middleware
