package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with query-builder span helpers.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartBuild starts a span for serializing a query against base.
func (t *Tracer) StartBuild(ctx context.Context, base string, optionCount int, encoding string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		ResourceAttr(base),
		attribute.Int(AttrOptionCount, optionCount),
		EncodingAttr(encoding),
	}
	if t.serviceName != "" {
		attrs = append(attrs, ServiceAttr(t.serviceName))
	}
	return t.tracer.Start(ctx, "odataquery.build", trace.WithAttributes(attrs...))
}

// AddQueryOption adds one serialized query option to a span.
func (t *Tracer) AddQueryOption(span trace.Span, name, value string) {
	span.SetAttributes(QueryOptionAttr(name, value))
}

// SetQueryLength records the length of the finished query string on a span.
func (t *Tracer) SetQueryLength(span trace.Span, length int) {
	span.SetAttributes(attribute.Int(AttrQueryLength, length))
}

// LoggerWithTrace returns a logger enriched with trace context.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
