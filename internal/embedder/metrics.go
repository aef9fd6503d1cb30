package embedder

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/embedkit/internal/embedder"

// Metrics holds resolver instruments.
type Metrics struct {
	meter    metric.Meter
	logger   *zap.Logger
	duration metric.Float64Histogram
	resolves metric.Int64Counter
}

// NewMetrics creates resolver instruments on meter, or on the global meter
// provider when meter is nil.
func NewMetrics(meter metric.Meter, logger *zap.Logger) *Metrics {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Metrics{meter: meter, logger: logger}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.duration, err = m.meter.Float64Histogram(
		"embedkit.embedder.resolve_duration_seconds",
		metric.WithDescription("Time to resolve a configuration into an embedding function, including provider client construction"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0),
	)
	if err != nil {
		m.logger.Warn("failed to create duration histogram", zap.Error(err))
	}

	m.resolves, err = m.meter.Int64Counter(
		"embedkit.embedder.resolves_total",
		metric.WithDescription("Resolve calls by provider and outcome (ok or the error kind)"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		m.logger.Warn("failed to create resolves counter", zap.Error(err))
	}
}

// RecordResolve records one Resolve call.
func (m *Metrics) RecordResolve(ctx context.Context, provider string, d time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome(err)),
	)
	if m.duration != nil {
		m.duration.Record(ctx, d.Seconds(), attrs)
	}
	if m.resolves != nil {
		m.resolves.Add(ctx, 1, attrs)
	}
}

// outcome labels err by kind.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch KindOf(err) {
	case ErrUnsupportedProvider:
		return "unsupported_provider"
	case ErrInvalidCustomEmbedder:
		return "invalid_custom_embedder"
	case ErrMissingOptionalDependency:
		return "missing_optional_dependency"
	default:
		return "provider_construction_failed"
	}
}
