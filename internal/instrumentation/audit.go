package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// EmailAudit captures the outcome of processing one email for audit logging.
//
// # Privacy Considerations
//
// Subject may contain PII and is only logged when the audit logger is
// configured with IncludeSubject. Senders are never recorded here.
type EmailAudit struct {
	EmailID  string
	Subject  string
	Category string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Status    string
	Archived  bool
	Cost      float64
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewEmailAudit creates a new EmailAudit with timing started.
// Call Complete() when processing finishes.
func NewEmailAudit(emailID, subject string) *EmailAudit {
	return &EmailAudit{
		EmailID:   emailID,
		Subject:   subject,
		StartTime: time.Now(),
	}
}

// WithSpanContext extracts trace context from the current span.
func (a *EmailAudit) WithSpanContext(ctx context.Context) *EmailAudit {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		a.TraceID = span.SpanContext().TraceID().String()
		a.SpanID = span.SpanContext().SpanID().String()
	}
	return a
}

// Complete marks processing as finished and calculates duration.
func (a *EmailAudit) Complete(status string, err error) *EmailAudit {
	a.Duration = time.Since(a.StartTime)
	a.Status = status
	if err != nil {
		a.Error = err.Error()
	}
	return a
}

// LogAttrs returns slog attributes for structured logging.
func (a *EmailAudit) LogAttrs(includeSubject bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("email_id", a.EmailID),
		slog.String("status", a.Status),
		slog.Duration("duration", a.Duration),
		slog.Bool("archived", a.Archived),
	}

	if a.Category != "" {
		attrs = append(attrs, slog.String("category", a.Category))
	}
	if a.Cost > 0 {
		attrs = append(attrs, slog.Float64("cost_usd", a.Cost))
	}
	if includeSubject && a.Subject != "" {
		attrs = append(attrs, slog.String("subject", a.Subject))
	}
	if a.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", a.TraceID))
	}
	if a.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", a.SpanID))
	}
	if a.Error != "" {
		attrs = append(attrs, slog.String("error", a.Error))
	}

	return attrs
}

// AuditLogger writes one structured record per processed email.
type AuditLogger struct {
	logger         *slog.Logger
	includeSubject bool
	enabled        bool
}

// NewAuditLogger creates a new AuditLogger with the given configuration.
func NewAuditLogger(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:         logger,
		includeSubject: config.IncludeSubject,
		enabled:        config.Enabled,
	}
}

// LogEmail logs a processed email. Failures are logged at warn level.
func (al *AuditLogger) LogEmail(a *EmailAudit) {
	if al == nil || !al.enabled {
		return
	}

	attrs := a.LogAttrs(al.includeSubject)
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if a.Status == StatusError {
		al.logger.Warn("email_failed", args...)
	} else {
		al.logger.Info("email_processed", args...)
	}
}
