package instrumentation

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"
)

// Config controls how the agent exports metrics and traces.
//
// Every field can be set through the environment, see DefaultConfig.
type Config struct {
	// ServiceName is reported as service.name (default: inboxagent).
	ServiceName string

	// ServiceVersion is the binary version.
	ServiceVersion string

	// InstanceID distinguishes concurrent agents watching different
	// mailboxes. Defaults to the hostname.
	InstanceID string

	// Enabled turns metrics and tracing on (default: true).
	Enabled bool

	// MetricsExporter is one of prometheus, otlp, stdout or none
	// (default: prometheus).
	MetricsExporter string

	// TracingExporter is one of otlp, stdout or none (default: none).
	TracingExporter string

	// OTLPEndpoint is the collector address without scheme, for example
	// "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure disables TLS towards the collector. Spans carry email
	// ids and categories, so only use it against a local collector.
	OTLPInsecure bool

	// TraceSamplingRate is the ratio of inbox runs that are traced
	// (0.0 to 1.0, default: 0.1).
	TraceSamplingRate float64

	// MetricInterval is how often push exporters (otlp, stdout) flush.
	MetricInterval time.Duration

	// AuditLogging configures the per-email processing audit log.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	Enabled bool

	// IncludeSubject controls whether email subjects are included in audit
	// records. Subjects may carry PII and are omitted by default.
	IncludeSubject bool
}

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout, ExporterNone}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// DefaultConfig reads the configuration from the environment:
//
//	OTEL_SERVICE_NAME, OTEL_SERVICE_INSTANCE_ID, INSTRUMENTATION_ENABLED,
//	METRICS_EXPORTER, METRICS_EXPORT_INTERVAL, TRACING_EXPORTER,
//	OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE,
//	OTEL_TRACES_SAMPLER_ARG, AUDIT_LOGGING_ENABLED and
//	AUDIT_LOGGING_INCLUDE_SUBJECT.
func DefaultConfig() Config {
	return Config{
		ServiceName:       getEnvOrDefault("OTEL_SERVICE_NAME", "inboxagent"),
		ServiceVersion:    "unknown",
		InstanceID:        getEnvOrDefault("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:           getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   getEnvOrDefault("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: getEnvFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
		MetricInterval:    getEnvDurationOrDefault("METRICS_EXPORT_INTERVAL", DefaultMetricInterval),
		AuditLogging: AuditLoggingConfig{
			Enabled:        getEnvBoolOrDefault("AUDIT_LOGGING_ENABLED", true),
			IncludeSubject: getEnvBoolOrDefault("AUDIT_LOGGING_INCLUDE_SUBJECT", false),
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}
	if c.MetricInterval < 0 {
		return fmt.Errorf("metric interval must not be negative, got %s", c.MetricInterval)
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: %v", c.MetricsExporter, metricsExporters)
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: %v", c.TracingExporter, tracingExporters)
	}
	if c.OTLPEndpoint == "" && (c.TracingExporter == ExporterOTLP || c.MetricsExporter == ExporterOTLP) {
		return fmt.Errorf("OTLP endpoint is required when using the OTLP exporter")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	parsed, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	parsed, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	parsed, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return parsed
}

// Constants for metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"
	StatusSkipped = "skipped"

	DirectionInput  = "input"
	DirectionOutput = "output"

	LookupSearch  = "search"
	LookupDetails = "details"
	LookupLink    = "link"

	MailFetch   = "fetch"
	MailArchive = "archive"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	DefaultMetricInterval = 30 * time.Second
)
