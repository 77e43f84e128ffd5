package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teemow/inboxagent/internal/instrumentation"
	"github.com/teemow/inboxagent/internal/logging"
)

const (
	// DefaultMetricsAddr is the default address for the metrics server.
	DefaultMetricsAddr = ":9090"

	// DefaultMetricsReadTimeout is the default read timeout for the metrics server.
	DefaultMetricsReadTimeout = 10 * time.Second

	// DefaultMetricsWriteTimeout is the default write timeout for the metrics server.
	DefaultMetricsWriteTimeout = 10 * time.Second

	// DefaultMetricsIdleTimeout is the default idle timeout for the metrics server.
	DefaultMetricsIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful server shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServerConfig holds configuration for the metrics server.
type MetricsServerConfig struct {
	// Addr is the address to bind the metrics server to (e.g., ":9090").
	Addr string

	// InstrumentationProvider provides the Prometheus metrics handler.
	// /metrics is only served when it has Prometheus enabled.
	InstrumentationProvider *instrumentation.Provider

	// Health serves the probe endpoints. A default checker is used when nil.
	Health *HealthChecker

	Logger *slog.Logger
}

// MetricsServer serves metrics and health probes on a dedicated port.
type MetricsServer struct {
	httpServer *http.Server
	handler    http.Handler
	addr       string
	logger     *slog.Logger
}

// NewMetricsServer creates a new metrics server with the given configuration.
func NewMetricsServer(config MetricsServerConfig) *MetricsServer {
	if config.Addr == "" {
		config.Addr = DefaultMetricsAddr
	}
	if config.Health == nil {
		config.Health = NewHealthChecker(nil)
	}

	mux := http.NewServeMux()
	if p := config.InstrumentationProvider; p != nil && p.Enabled() && p.PrometheusEnabled() {
		// The OpenTelemetry prometheus exporter registers metrics to the global
		// Prometheus registry, which promhttp.Handler() exposes.
		mux.Handle("/metrics", promhttp.Handler())
	}
	config.Health.RegisterHealthEndpoints(mux)

	return &MetricsServer{
		handler: mux,
		addr:    config.Addr,
		logger:  logging.OrDefault(config.Logger),
	}
}

// Handler returns the server's routes.
func (s *MetricsServer) Handler() http.Handler {
	return s.handler
}

// Start starts the metrics server in a blocking manner.
// Call this in a goroutine if you need non-blocking operation.
func (s *MetricsServer) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: DefaultMetricsReadTimeout,
		WriteTimeout:      DefaultMetricsWriteTimeout,
		IdleTimeout:       DefaultMetricsIdleTimeout,
	}

	s.logger.Info("starting metrics server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("shutting down metrics server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured address for the metrics server.
func (s *MetricsServer) Addr() string {
	return s.addr
}
