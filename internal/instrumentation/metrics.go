package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrCategory  = "category"
	attrStatus    = "status"
	attrModel     = "model"
	attrDirection = "direction"
	attrKind      = "kind"
	attrOperation = "operation"
)

// Metrics provides methods for recording observability metrics.
// A zero Metrics is a valid no-op recorder.
type Metrics struct {
	// Email pipeline metrics
	emailsProcessedTotal metric.Int64Counter
	emailDuration        metric.Float64Histogram

	// Model metrics
	modelCallsTotal  metric.Int64Counter
	modelDuration    metric.Float64Histogram
	modelTokensTotal metric.Int64Counter
	modelCostTotal   metric.Float64Counter

	// Collaborator metrics
	lookupCallsTotal     metric.Int64Counter
	mailOperationsTotal  metric.Int64Counter
	mailOperationLatency metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.emailsProcessedTotal, err = meter.Int64Counter(
		"inboxagent_emails_processed_total",
		metric.WithDescription("Total number of emails handled by the inbox loop"),
		metric.WithUnit("{email}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inboxagent_emails_processed_total counter: %w", err)
	}

	m.emailDuration, err = meter.Float64Histogram(
		"inboxagent_email_processing_duration_seconds",
		metric.WithDescription("Time spent processing a single email in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inboxagent_email_processing_duration_seconds histogram: %w", err)
	}

	m.modelCallsTotal, err = meter.Int64Counter(
		"inboxagent_model_calls_total",
		metric.WithDescription("Total number of language model calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inboxagent_model_calls_total counter: %w", err)
	}

	m.modelDuration, err = meter.Float64Histogram(
		"inboxagent_model_call_duration_seconds",
		metric.WithDescription("Language model call duration in seconds, retries included"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 60),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inboxagent_model_call_duration_seconds histogram: %w", err)
	}

	m.modelTokensTotal, err = meter.Int64Counter(
		"inboxagent_model_tokens_total",
		metric.WithDescription("Total number of tokens consumed by model calls"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inboxagent_model_tokens_total counter: %w", err)
	}

	m.modelCostTotal, err = meter.Float64Counter(
		"inboxagent_model_cost_usd_total",
		metric.WithDescription("Accumulated model cost in US dollars"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inboxagent_model_cost_usd_total counter: %w", err)
	}

	m.lookupCallsTotal, err = meter.Int64Counter(
		"inboxagent_lookup_calls_total",
		metric.WithDescription("Total number of external detail lookups"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inboxagent_lookup_calls_total counter: %w", err)
	}

	m.mailOperationsTotal, err = meter.Int64Counter(
		"inboxagent_mail_operations_total",
		metric.WithDescription("Total number of mailbox operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inboxagent_mail_operations_total counter: %w", err)
	}

	m.mailOperationLatency, err = meter.Float64Histogram(
		"inboxagent_mail_operation_duration_seconds",
		metric.WithDescription("Mailbox operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inboxagent_mail_operation_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordEmail records one email handled by the inbox loop.
//
// Parameters:
//   - category: Category label, or "" when classification did not complete
//   - status: "success", "error" or "skipped"
//   - duration: Time taken for the whole email
func (m *Metrics) RecordEmail(ctx context.Context, category, status string, duration time.Duration) {
	if m == nil || m.emailsProcessedTotal == nil || m.emailDuration == nil {
		return // Instrumentation not initialized
	}

	if category == "" {
		category = StatusUnknown
	}
	attrs := metric.WithAttributes(
		attribute.String(attrCategory, category),
		attribute.String(attrStatus, status),
	)

	m.emailsProcessedTotal.Add(ctx, 1, attrs)
	m.emailDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordModelCall records a model invocation, retries included.
func (m *Metrics) RecordModelCall(ctx context.Context, model, status string, duration time.Duration) {
	if m == nil || m.modelCallsTotal == nil || m.modelDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := metric.WithAttributes(
		attribute.String(attrModel, model),
		attribute.String(attrStatus, status),
	)

	m.modelCallsTotal.Add(ctx, 1, attrs)
	m.modelDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordModelUsage records the tokens and cost of one successful model call.
func (m *Metrics) RecordModelUsage(ctx context.Context, model string, inputTokens, outputTokens int64, cost float64) {
	if m == nil || m.modelTokensTotal == nil || m.modelCostTotal == nil {
		return // Instrumentation not initialized
	}

	modelAttr := attribute.String(attrModel, model)
	m.modelTokensTotal.Add(ctx, inputTokens, metric.WithAttributes(modelAttr, attribute.String(attrDirection, DirectionInput)))
	if outputTokens > 0 {
		m.modelTokensTotal.Add(ctx, outputTokens, metric.WithAttributes(modelAttr, attribute.String(attrDirection, DirectionOutput)))
	}
	if cost > 0 {
		m.modelCostTotal.Add(ctx, cost, metric.WithAttributes(modelAttr))
	}
}

// RecordLookup records an external detail lookup.
// Kind should be one of: "search", "details", "link"
func (m *Metrics) RecordLookup(ctx context.Context, kind, status string) {
	if m == nil || m.lookupCallsTotal == nil {
		return // Instrumentation not initialized
	}

	m.lookupCallsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrKind, kind),
		attribute.String(attrStatus, status),
	))
}

// RecordMailOperation records a mailbox operation such as fetch or archive.
func (m *Metrics) RecordMailOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil || m.mailOperationsTotal == nil || m.mailOperationLatency == nil {
		return // Instrumentation not initialized
	}

	attrs := metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)

	m.mailOperationsTotal.Add(ctx, 1, attrs)
	m.mailOperationLatency.Record(ctx, duration.Seconds(), attrs)
}

// StatusFromError maps an error to a status label.
func StatusFromError(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
