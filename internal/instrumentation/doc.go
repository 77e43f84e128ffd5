// Package instrumentation provides OpenTelemetry instrumentation for the
// inboxagent pipeline.
//
// This package enables observability through:
//   - OpenTelemetry metrics for processed emails, model calls, token usage and cost
//   - Distributed tracing for each email and every external call it makes
//   - Prometheus metrics export via the /metrics endpoint of the metrics server
//   - OTLP export support for modern observability platforms
//   - A per-email audit log record
//
// # Metrics
//
// Pipeline Metrics:
//   - inboxagent_emails_processed_total: Counter of emails by category and status
//   - inboxagent_email_processing_duration_seconds: Histogram of per-email processing time
//
// Model Metrics:
//   - inboxagent_model_calls_total: Counter of model calls by model and status
//   - inboxagent_model_call_duration_seconds: Histogram of model call durations, retries included
//   - inboxagent_model_tokens_total: Counter of tokens by model and direction
//   - inboxagent_model_cost_usd_total: Counter of spend by model
//
// Collaborator Metrics:
//   - inboxagent_lookup_calls_total: Counter of detail lookups by kind and status
//   - inboxagent_mail_operations_total: Counter of mailbox operations by operation and status
//   - inboxagent_mail_operation_duration_seconds: Histogram of mailbox operation durations
//
// # Tracing
//
// Spans are created for:
//   - Each processed email (email.process)
//   - Model invocations and embeddings (llm.invoke, llm.embed)
//   - Mailbox fetch and archive (mail.fetch, mail.archive)
//   - Detail lookups (lookup.<kind>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, none, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: inboxagent)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_SUBJECT: audit log controls
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordModelCall(ctx, "gpt-4", instrumentation.StatusSuccess, time.Since(start))
//	recorder.RecordEmail(ctx, "Answers", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
