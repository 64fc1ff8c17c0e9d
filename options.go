package odataquery

import (
	"log/slog"

	"github.com/nlstn/odataquery/internal/observability"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a QueryBuilder.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	encoding      EncodingPolicy
	observability *observability.Config
}

// WithLogger sets the logger used for debug records about filter clauses and
// builds. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithEncoding selects how option values are written by Build.
// The default is EncodingNone.
func WithEncoding(policy EncodingPolicy) Option {
	return func(c *config) {
		c.encoding = policy
	}
}

// ObservabilityConfig configures OpenTelemetry instrumentation of a QueryBuilder.
type ObservabilityConfig struct {
	// TracerProvider receives one span per BuildContext call. Nil disables tracing.
	TracerProvider trace.TracerProvider

	// MeterProvider receives build and filter clause metrics. Nil disables metrics.
	MeterProvider metric.MeterProvider

	// ServiceName identifies the caller in traces and metrics.
	ServiceName string

	// EnableQueryOptionTracing attaches every serialized option value to the build span.
	EnableQueryOptionTracing bool
}

// WithObservability enables tracing and metrics for the builder.
func WithObservability(cfg ObservabilityConfig) Option {
	return func(c *config) {
		opts := []observability.Option{
			observability.WithTracerProvider(cfg.TracerProvider),
			observability.WithMeterProvider(cfg.MeterProvider),
		}
		if cfg.ServiceName != "" {
			opts = append(opts, observability.WithServiceName(cfg.ServiceName))
		}
		if cfg.EnableQueryOptionTracing {
			opts = append(opts, observability.WithQueryOptionTracing())
		}
		obs := observability.NewConfig(opts...)
		// Initialize only selects providers and cannot fail.
		_ = obs.Initialize() //nolint:errcheck
		c.observability = obs
	}
}
