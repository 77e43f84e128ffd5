package instrumentation

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("INSTRUMENTATION_ENABLED", "")
	t.Setenv("METRICS_EXPORTER", "")
	t.Setenv("TRACING_EXPORTER", "")
	t.Setenv("AUDIT_LOGGING_INCLUDE_SUBJECT", "")
	t.Setenv("METRICS_EXPORT_INTERVAL", "")

	config := DefaultConfig()

	if config.ServiceName != "inboxagent" {
		t.Errorf("expected ServiceName 'inboxagent', got %q", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("expected Enabled to be true by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected MetricsExporter 'prometheus', got %q", config.MetricsExporter)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("expected TracingExporter 'none', got %q", config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("expected TraceSamplingRate 0.1, got %f", config.TraceSamplingRate)
	}
	if config.MetricInterval != DefaultMetricInterval {
		t.Errorf("expected MetricInterval %s, got %s", DefaultMetricInterval, config.MetricInterval)
	}
	if !config.AuditLogging.Enabled || config.AuditLogging.IncludeSubject {
		t.Errorf("unexpected audit defaults: %+v", config.AuditLogging)
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "test-service")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "none")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("AUDIT_LOGGING_INCLUDE_SUBJECT", "true")
	t.Setenv("METRICS_EXPORT_INTERVAL", "5s")

	config := DefaultConfig()

	if config.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %q", config.ServiceName)
	}
	if config.Enabled {
		t.Error("expected Enabled to be false")
	}
	if config.MetricsExporter != ExporterNone {
		t.Errorf("expected MetricsExporter 'none', got %q", config.MetricsExporter)
	}
	if config.TracingExporter != "stdout" {
		t.Errorf("expected TracingExporter 'stdout', got %q", config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("expected TraceSamplingRate 0.5, got %f", config.TraceSamplingRate)
	}
	if config.MetricInterval != 5*time.Second {
		t.Errorf("expected MetricInterval 5s, got %s", config.MetricInterval)
	}
	if !config.AuditLogging.IncludeSubject {
		t.Error("expected IncludeSubject to be true")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		errContains string
	}{
		{
			name: "valid config with prometheus",
			config: Config{
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterNone,
			},
		},
		{
			name: "valid config without metrics",
			config: Config{
				MetricsExporter: ExporterNone,
			},
		},
		{
			name: "valid config with otlp",
			config: Config{
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterOTLP,
				OTLPEndpoint:    "localhost:4318",
			},
		},
		{
			name:        "invalid sampling rate negative",
			config:      Config{TraceSamplingRate: -0.5},
			errContains: "sampling rate",
		},
		{
			name:        "invalid sampling rate above 1",
			config:      Config{TraceSamplingRate: 1.5},
			errContains: "sampling rate",
		},
		{
			name:        "negative metric interval",
			config:      Config{MetricInterval: -time.Second},
			errContains: "metric interval",
		},
		{
			name:        "invalid metrics exporter",
			config:      Config{MetricsExporter: "invalid"},
			errContains: "invalid metrics exporter",
		},
		{
			name:        "invalid tracing exporter",
			config:      Config{TracingExporter: "invalid"},
			errContains: "invalid tracing exporter",
		},
		{
			name:        "otlp tracing without endpoint",
			config:      Config{TracingExporter: ExporterOTLP},
			errContains: "OTLP endpoint is required",
		},
		{
			name:        "otlp metrics without endpoint",
			config:      Config{MetricsExporter: ExporterOTLP},
			errContains: "OTLP endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
			}
		})
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_VAR", "test_value")

	if v := getEnvOrDefault("TEST_VAR", "default"); v != "test_value" {
		t.Errorf("expected 'test_value', got %q", v)
	}
	if v := getEnvOrDefault("INBOXAGENT_NONEXISTENT_VAR", "default"); v != "default" {
		t.Errorf("expected 'default', got %q", v)
	}
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	t.Setenv("TEST_BOOL_TRUE", "true")
	t.Setenv("TEST_BOOL_FALSE", "false")
	t.Setenv("TEST_BOOL_INVALID", "not_a_bool")

	if v := getEnvBoolOrDefault("TEST_BOOL_TRUE", false); !v {
		t.Error("expected true")
	}
	if v := getEnvBoolOrDefault("TEST_BOOL_FALSE", true); v {
		t.Error("expected false")
	}
	if v := getEnvBoolOrDefault("TEST_BOOL_INVALID", true); !v {
		t.Error("expected default value true for invalid bool")
	}
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_DURATION_INVALID", "soon")

	if v := getEnvDurationOrDefault("TEST_DURATION", time.Second); v != 90*time.Second {
		t.Errorf("expected 90s, got %s", v)
	}
	if v := getEnvDurationOrDefault("TEST_DURATION_INVALID", time.Second); v != time.Second {
		t.Errorf("expected default 1s for invalid duration, got %s", v)
	}
}

func TestGetEnvFloatOrDefault(t *testing.T) {
	t.Setenv("TEST_FLOAT", "0.75")
	t.Setenv("TEST_FLOAT_INVALID", "not_a_float")

	if v := getEnvFloatOrDefault("TEST_FLOAT", 0.5); v != 0.75 {
		t.Errorf("expected 0.75, got %f", v)
	}
	if v := getEnvFloatOrDefault("TEST_FLOAT_INVALID", 0.5); v != 0.5 {
		t.Errorf("expected default 0.5 for invalid float, got %f", v)
	}
}
