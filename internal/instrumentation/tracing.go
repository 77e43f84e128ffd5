package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the inboxagent module.
const TracerName = "github.com/teemow/inboxagent"

// Span attribute keys.
const (
	// SpanAttrEmailID is the email identifier (Message-ID).
	SpanAttrEmailID = "email.id"

	// SpanAttrCategory is the classified email category.
	SpanAttrCategory = "email.category"

	// SpanAttrModel is the selected model variant.
	SpanAttrModel = "llm.model"

	// SpanAttrTier is the requested model tier.
	SpanAttrTier = "llm.tier"

	// SpanAttrTokens is the estimated prompt token count.
	SpanAttrTokens = "llm.prompt_tokens"

	// SpanAttrAttempt is the attempt number of a retried call.
	SpanAttrAttempt = "llm.attempt"

	// SpanAttrLookupKind is the kind of external lookup.
	SpanAttrLookupKind = "lookup.kind"
)

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 6),
	}
}

// WithEmail adds the email id attribute.
func (b *SpanAttributeBuilder) WithEmail(id string) *SpanAttributeBuilder {
	if id != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrEmailID, id))
	}
	return b
}

// WithCategory adds the category attribute.
func (b *SpanAttributeBuilder) WithCategory(category string) *SpanAttributeBuilder {
	if category != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrCategory, category))
	}
	return b
}

// WithModel adds the model tier and selected variant.
func (b *SpanAttributeBuilder) WithModel(tier, model string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.String(SpanAttrTier, tier),
		attribute.String(SpanAttrModel, model),
	)
	return b
}

// WithTokens adds the estimated prompt token count.
func (b *SpanAttributeBuilder) WithTokens(tokens int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int(SpanAttrTokens, tokens))
	return b
}

// WithLookupKind adds the kind of external lookup.
func (b *SpanAttributeBuilder) WithLookupKind(kind string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, LookupKindAttr(kind))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// LookupKindAttr returns the lookup kind span attribute.
func LookupKindAttr(kind string) attribute.KeyValue {
	return attribute.String(SpanAttrLookupKind, kind)
}

// StartSpan starts a new span with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartEmailSpan starts the root span for processing one email.
func StartEmailSpan(ctx context.Context, emailID string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "email.process",
		trace.WithAttributes(attribute.String(SpanAttrEmailID, emailID)),
		trace.WithSpanKind(trace.SpanKindConsumer),
	)
}

// StartClientSpan starts a span for a call to an external service, such as
// the model endpoint, the search API or the mailbox.
func StartClientSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// EndSpan sets the span status from err and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		SetSpanError(span, err)
	} else {
		SetSpanSuccess(span)
	}
	span.End()
}

// AddSpanEvent adds an event to the span with optional attributes.
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
