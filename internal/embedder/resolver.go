package embedder

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/fyrsmithlabs/embedkit/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Provider labels for values that are not registry keys.
const (
	instanceLabel = "instance"
	unknownLabel  = "unknown"
)

// Resolver turns requests into embedding functions. It holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	registry *Registry
	lookup   LookupFunc
	logger   *logging.Logger
	tracer   trace.Tracer
	meter    metric.Meter
	metrics  *Metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRegistry replaces the default registry.
func WithRegistry(reg *Registry) Option {
	return func(r *Resolver) { r.registry = reg }
}

// WithLogger sets the logger for resolve events and watson call failures.
func WithLogger(l *logging.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithEnvLookup replaces os.LookupEnv for the default path.
func WithEnvLookup(fn LookupFunc) Option {
	return func(r *Resolver) { r.lookup = fn }
}

// WithTracer sets the tracer for resolve spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) { r.tracer = t }
}

// WithMeter sets the meter for resolve metrics.
func WithMeter(m metric.Meter) Option {
	return func(r *Resolver) { r.meter = m }
}

// NewResolver creates a Resolver. Without WithRegistry it registers every
// supported provider with DefaultBuilders.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	r.logger = r.logger.Named("embedder")
	if r.registry == nil {
		b := DefaultBuilders(r.logger)
		b.LookupEnv = r.lookup
		r.registry = NewDefaultRegistry(b)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(instrumentationName)
	}
	r.metrics = NewMetrics(r.meter, r.logger.Underlying())
	return r
}

// Providers returns the supported provider identifiers in registration order.
func (r *Resolver) Providers() []ProviderID {
	return r.registry.SupportedProviders()
}

// Resolve returns a freshly constructed embedding function for req. A nil
// req resolves the environment defaults. Errors are *Error values whose kind
// matches one of the Err* sentinels.
func (r *Resolver) Resolve(ctx context.Context, req *Request) (EmbeddingFunction, error) {
	ctx, span := r.tracer.Start(ctx, "embedder.Resolve")
	defer span.End()

	start := time.Now()
	if req == nil {
		req = LoadEnvDefaults(r.lookup).Request()
		span.SetAttributes(attribute.Bool("embedder.env_defaults", true))
	}

	fn, label, err := r.resolve(ctx, req)
	elapsed := time.Since(start)

	r.metrics.RecordResolve(ctx, label, elapsed, err)
	span.SetAttributes(attribute.String("embedder.provider", label))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome(err))
		r.logger.Warn(ctx, "embedding function resolve failed",
			zap.String("provider", label),
			zap.String("outcome", outcome(err)),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return nil, err
	}

	r.logger.Debug(ctx, "embedding function resolved",
		zap.String("provider", label),
		zap.String("model", req.Config.Model()),
		logging.ConfigKeys("config_keys", req.Config),
		zap.Duration("duration", elapsed))
	return fn, nil
}

func (r *Resolver) resolve(ctx context.Context, req *Request) (EmbeddingFunction, string, error) {
	var id ProviderID
	switch p := req.Provider.(type) {
	case string:
		id = ProviderID(p)
	case ProviderID:
		id = p
	case nil:
		return nil, unknownLabel, unsupportedProvider("", r.registry.SupportedProviders())
	case EmbeddingFunction:
		fn, err := Conform(p)
		return fn, instanceLabel, err
	default:
		// Anything else is treated as an identifier, which no key matches.
		return nil, unknownLabel, unsupportedProvider(fmt.Sprint(p), r.registry.SupportedProviders())
	}

	adapter, ok := r.registry.Lookup(id)
	if !ok {
		return nil, unknownLabel, unsupportedProvider(string(id), r.registry.SupportedProviders())
	}

	// Adapters get their own copy of the top-level map.
	cfg := maps.Clone(req.Config)
	if cfg == nil {
		cfg = ProviderConfig{}
	}

	fn, err := adapter(ctx, cfg, cfg.Model())
	if err != nil {
		var typed *Error
		if errors.As(err, &typed) {
			return nil, string(id), err
		}
		return nil, string(id), constructionFailed(string(id), err)
	}
	if isNil(fn) {
		return nil, string(id), constructionFailed(string(id), fmt.Errorf("adapter returned no embedding function"))
	}
	return fn, string(id), nil
}
