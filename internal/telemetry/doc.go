// Package telemetry provides OpenTelemetry instrumentation for embedkit.
//
// Telemetry is disabled by default. When enabled, traces and metrics are
// exported over OTLP (gRPC or HTTP/protobuf) to a collector. When disabled,
// Tracer and Meter fall back to the global providers, which are no-ops unless
// something else installed them.
//
//	cfg, _ := telemetry.FromFileConfig(fileCfg.Telemetry)
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	resolver := embedder.NewResolver(
//	    embedder.WithTracer(tel.Tracer("embedkit.embedder")),
//	    embedder.WithMeter(tel.Meter("embedkit.embedder")),
//	)
//
// Tests use NewTestTelemetry, which records spans and metrics in memory.
package telemetry
