package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const httpInstrumentationName = "github.com/fyrsmithlabs/embedkit/internal/http"

// Embed outcomes recorded by RecordEmbed.
const (
	embedOK            = "ok"
	embedRejected      = "rejected"
	embedProviderError = "provider_error"
)

// HTTPMetrics holds the server's instruments. A nil *HTTPMetrics records
// nothing.
type HTTPMetrics struct {
	logger    *zap.Logger
	requests  metric.Int64Counter
	latency   metric.Float64Histogram
	documents metric.Int64Histogram
	embeds    metric.Int64Counter
}

// NewHTTPMetrics creates the instruments on meter, or on the global provider
// when meter is nil. Instruments that fail to register are skipped.
func NewHTTPMetrics(meter metric.Meter, logger *zap.Logger) *HTTPMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	if meter == nil {
		meter = otel.Meter(httpInstrumentationName)
	}
	m := &HTTPMetrics{logger: logger}

	var err error
	m.requests, err = meter.Int64Counter("embedkit.http.requests_total",
		metric.WithDescription("HTTP requests by method, route and status."),
		metric.WithUnit("{request}"))
	m.warn("requests_total", err)

	m.latency, err = meter.Float64Histogram("embedkit.http.request_duration_seconds",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30))
	m.warn("request_duration_seconds", err)

	// Provider calls dominate embed latency, so batch size is tracked apart
	// from the request histogram.
	m.documents, err = meter.Int64Histogram("embedkit.http.embed_documents",
		metric.WithDescription("Documents per accepted embed request."),
		metric.WithUnit("{document}"),
		metric.WithExplicitBucketBoundaries(1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024))
	m.warn("embed_documents", err)

	m.embeds, err = meter.Int64Counter("embedkit.http.embed_total",
		metric.WithDescription("Embed requests by provider and outcome."),
		metric.WithUnit("{request}"))
	m.warn("embed_total", err)

	return m
}

func (m *HTTPMetrics) warn(name string, err error) {
	if err != nil {
		m.logger.Warn("failed to create instrument", zap.String("instrument", name), zap.Error(err))
	}
}

// RecordEmbed records one embed request. documents is only observed for
// requests that reached the provider.
func (m *HTTPMetrics) RecordEmbed(ctx context.Context, provider, outcome string, documents int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	)
	if m.embeds != nil {
		m.embeds.Add(ctx, 1, attrs)
	}
	if m.documents != nil && outcome != embedRejected {
		m.documents.Record(ctx, int64(documents), metric.WithAttributes(attribute.String("provider", provider)))
	}
}

// MetricsMiddleware returns an Echo middleware that counts and times every
// request by its route pattern.
func (m *HTTPMetrics) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			attrs := metric.WithAttributes(
				attribute.String("method", c.Request().Method),
				attribute.String("endpoint", normalizePath(c.Path())),
				attribute.Int("status", status),
			)
			ctx := c.Request().Context()
			if m.requests != nil {
				m.requests.Add(ctx, 1, attrs)
			}
			if m.latency != nil {
				m.latency.Record(ctx, time.Since(start).Seconds(), attrs)
			}
			return err
		}
	}
}

// normalizePath maps the unmatched route to "/". All registered routes are
// static, so the route pattern is already low-cardinality.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
