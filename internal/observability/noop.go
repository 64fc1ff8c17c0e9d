package observability

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Shared no-op instances returned for unconfigured builders.
var (
	noopTracer  = NewNoopTracer()
	noopMetrics = NewNoopMetrics()
)

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{
		tracer:      tracenoop.NewTracerProvider().Tracer(""),
		serviceName: "",
	}
}

// NewNoopMetrics creates metrics that do nothing.
func NewNoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}

	// Note: noop meter never returns errors, but we must check them to satisfy the linter.
	m.buildCount, _ = meter.Int64Counter("odataquery.build.count")           //nolint:errcheck
	m.buildDuration, _ = meter.Float64Histogram("odataquery.build.duration") //nolint:errcheck
	m.optionCount, _ = meter.Int64Histogram("odataquery.build.options")      //nolint:errcheck
	m.filterClauses, _ = meter.Int64Counter("odataquery.filter.clauses")     //nolint:errcheck

	return m
}
