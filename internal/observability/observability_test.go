package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithServiceName("test-service"),
		WithQueryOptionTracing(),
	)

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected service name 'test-service', got '%s'", cfg.ServiceName)
	}
	if !cfg.QueryOptionTracingEnabled() {
		t.Error("expected query option tracing to be enabled")
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.ServiceName != "odataquery" {
		t.Errorf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.QueryOptionTracingEnabled() {
		t.Error("expected query option tracing to be disabled by default")
	}
}

func TestConfigInitialize(t *testing.T) {
	cfg := NewConfig(
		WithTracerProvider(tracenoop.NewTracerProvider()),
		WithMeterProvider(noop.NewMeterProvider()),
	)

	if err := cfg.Initialize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tracer() == nil || cfg.Tracer() == noopTracer {
		t.Error("expected a tracer bound to the configured provider")
	}
	if cfg.Metrics() == nil || cfg.Metrics() == noopMetrics {
		t.Error("expected metrics bound to the configured provider")
	}
}

func TestUnconfiguredConfigsShareNoopInstances(t *testing.T) {
	var nilCfg *Config
	empty := NewConfig()
	if err := empty.Initialize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if nilCfg.Tracer() != nilCfg.Tracer() || nilCfg.Tracer() != empty.Tracer() {
		t.Error("expected unconfigured configs to return the shared no-op tracer")
	}
	if nilCfg.Metrics() != nilCfg.Metrics() || nilCfg.Metrics() != empty.Metrics() {
		t.Error("expected unconfigured configs to return the shared no-op metrics")
	}
}

func TestNilConfigFallsBackToNoop(t *testing.T) {
	var cfg *Config

	ctx, span := cfg.Tracer().StartBuild(context.Background(), "http://x/Users", 2, "none")
	cfg.Tracer().AddQueryOption(span, "top", "10")
	cfg.Tracer().SetQueryLength(span, 42)
	span.End()

	cfg.Metrics().RecordBuild(ctx, "http://x/Users", 2, time.Millisecond)
	cfg.Metrics().RecordFilterClause(ctx, "and")
}

func TestTracerStartBuildRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := NewTracer(tp, "test-service")

	_, span := tracer.StartBuild(context.Background(), "http://x/Users", 3, "percent")
	tracer.AddQueryOption(span, "filter", "Age gt 30")
	tracer.AddQueryOption(span, "apply", "groupby((Name))")
	tracer.SetQueryLength(span, 57)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	if ended[0].Name() != "odataquery.build" {
		t.Errorf("unexpected span name %q", ended[0].Name())
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	checks := map[attribute.Key]string{
		AttrResource:        "http://x/Users",
		AttrEncoding:        "percent",
		AttrQueryFilter:     "Age gt 30",
		"odata.query.apply": "groupby((Name))",
		AttrService:         "test-service",
	}
	for key, want := range checks {
		if got := attrs[key].AsString(); got != want {
			t.Errorf("attribute %s = %q, want %q", key, got, want)
		}
	}
	if got := attrs[AttrOptionCount].AsInt64(); got != 3 {
		t.Errorf("option count = %d, want 3", got)
	}
	if got := attrs[AttrQueryLength].AsInt64(); got != 57 {
		t.Errorf("query length = %d, want 57", got)
	}
}

func TestMetricsRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m := NewMetrics(mp)

	ctx := context.Background()
	m.RecordBuild(ctx, "http://x/Users", 2, 3*time.Millisecond)
	m.RecordBuild(ctx, "http://x/Users", 4, time.Millisecond)
	m.RecordFilterClause(ctx, "and")
	m.RecordFilterClause(ctx, "or")
	m.RecordFilterClause(ctx, "or")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	sums := map[string]int64{}
	seen := map[string]bool{}
	for _, scope := range rm.ScopeMetrics {
		for _, md := range scope.Metrics {
			seen[md.Name] = true
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}

	if sums["odataquery.build.count"] != 2 {
		t.Errorf("build count = %d, want 2", sums["odataquery.build.count"])
	}
	if sums["odataquery.filter.clauses"] != 3 {
		t.Errorf("filter clauses = %d, want 3", sums["odataquery.filter.clauses"])
	}
	for _, name := range []string{"odataquery.build.duration", "odataquery.build.options"} {
		if !seen[name] {
			t.Errorf("expected metric %s to be collected", name)
		}
	}
}

func TestLoggerWithTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if got := LoggerWithTrace(context.Background(), logger); got != logger {
		t.Error("expected logger to be returned unchanged without a span")
	}

	tp := sdktrace.NewTracerProvider()
	ctx, span := NewTracer(tp, "test").StartBuild(context.Background(), "http://x/Users", 0, "none")
	defer span.End()

	LoggerWithTrace(ctx, logger).Info("hello")
	out := buf.String()
	if !strings.Contains(out, LogFieldTraceID+"="+span.SpanContext().TraceID().String()) {
		t.Errorf("expected trace id in log output, got %q", out)
	}
	if !strings.Contains(out, LogFieldSpanID+"=") {
		t.Errorf("expected span id in log output, got %q", out)
	}
}
