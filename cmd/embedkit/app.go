package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/embedkit/internal/config"
	"github.com/fyrsmithlabs/embedkit/internal/embedder"
	"github.com/fyrsmithlabs/embedkit/internal/logging"
	"github.com/fyrsmithlabs/embedkit/internal/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// app bundles the dependencies every command needs.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	resolver  *embedder.Resolver
}

// newApp loads configuration and initializes telemetry, logging and the
// resolver, in that order.
func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	tel, err := telemetry.New(ctx, telemetry.FromFileConfig(cfg.Telemetry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logCfg, err := logging.FromFileConfig(cfg.Logging)
	if err != nil {
		return nil, errors.Join(err, tel.Shutdown(ctx))
	}
	logCfg.Output.OTEL = tel.IsEnabled()
	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to initialize logger: %w", err), tel.Shutdown(ctx))
	}

	resolver := embedder.NewResolver(
		embedder.WithLogger(logger),
		embedder.WithTracer(tel.Tracer("github.com/fyrsmithlabs/embedkit/internal/embedder")),
		embedder.WithMeter(tel.Meter("github.com/fyrsmithlabs/embedkit/internal/embedder")),
	)

	return &app{cfg: cfg, logger: logger, telemetry: tel, resolver: resolver}, nil
}

// request converts the embedder section into a resolve request. An unset
// provider yields nil, which selects the environment defaults.
func (a *app) request() *embedder.Request {
	if !a.cfg.Embedder.IsSet() {
		return nil
	}
	return &embedder.Request{
		Provider: a.cfg.Embedder.Provider,
		Config:   embedder.ProviderConfig(a.cfg.Embedder.Config),
	}
}

// providerLabel names the provider the request will resolve to.
func (a *app) providerLabel() string {
	if req := a.request(); req != nil {
		return fmt.Sprint(req.Provider)
	}
	return embedder.LoadEnvDefaults(nil).Provider
}

// resolve resolves the configured embedding function under a fresh
// request ID.
func (a *app) resolve(ctx context.Context) (context.Context, embedder.EmbeddingFunction, error) {
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	a.logger.Debug(ctx, "resolving embedding function",
		zap.String("provider", a.providerLabel()),
		zap.Bool("config_api_key", a.cfg.Embedder.APIKey().IsSet()))
	fn, err := a.resolver.Resolve(ctx, a.request())
	return ctx, fn, err
}

// close flushes logs and telemetry.
func (a *app) close(ctx context.Context) {
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}
