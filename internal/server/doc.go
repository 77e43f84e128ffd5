// Package server exposes the operational endpoints of watch mode.
//
// A single HTTP server carries:
//   - /metrics: Prometheus scrape endpoint, when the Prometheus exporter is on
//   - /healthz: liveness
//   - /readyz: readiness, failing while shutting down
//   - /healthz/detailed: uptime and the outcome of the last inbox run
//
// RunState is updated by the scheduler around every run and read by the
// health handlers.
package server
