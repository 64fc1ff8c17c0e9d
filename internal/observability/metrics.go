package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the query-builder metric instruments.
type Metrics struct {
	buildCount    metric.Int64Counter
	buildDuration metric.Float64Histogram
	optionCount   metric.Int64Histogram
	filterClauses metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Instrument creation only fails on invalid parameters; fall back to
	// unadorned instruments so recording never hits a nil.
	var err error

	m.buildCount, err = meter.Int64Counter(
		"odataquery.build.count",
		metric.WithDescription("Total number of query strings built"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		m.buildCount, _ = meter.Int64Counter("odataquery.build.count")
	}

	m.buildDuration, err = meter.Float64Histogram(
		"odataquery.build.duration",
		metric.WithDescription("Duration of query serialization in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.buildDuration, _ = meter.Float64Histogram("odataquery.build.duration")
	}

	m.optionCount, err = meter.Int64Histogram(
		"odataquery.build.options",
		metric.WithDescription("Number of query options in a built query"),
		metric.WithUnit("{option}"),
	)
	if err != nil {
		m.optionCount, _ = meter.Int64Histogram("odataquery.build.options")
	}

	m.filterClauses, err = meter.Int64Counter(
		"odataquery.filter.clauses",
		metric.WithDescription("Total number of $filter clauses accumulated"),
		metric.WithUnit("{clause}"),
	)
	if err != nil {
		m.filterClauses, _ = meter.Int64Counter("odataquery.filter.clauses")
	}

	return m
}

// RecordBuild records metrics for a completed build.
func (m *Metrics) RecordBuild(ctx context.Context, base string, optionCount int, duration time.Duration) {
	attrs := metric.WithAttributes(ResourceAttr(base))
	m.buildCount.Add(ctx, 1, attrs)
	m.buildDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.optionCount.Record(ctx, int64(optionCount), attrs)
}

// RecordFilterClause records one accumulated $filter clause.
func (m *Metrics) RecordFilterClause(ctx context.Context, connective string) {
	m.filterClauses.Add(ctx, 1, metric.WithAttributes(ConnectiveAttr(connective)))
}
