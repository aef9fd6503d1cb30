// Package logging provides structured logging for embedkit.
//
// Logger wraps Zap with context-aware methods, a custom Trace level,
// optional OpenTelemetry output through the otelzap bridge, encoder-level
// secret redaction and level-aware sampling.
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, id)
//	logger.Info(ctx, "embedder resolved", zap.String("provider", "openai"))
//
// Provider API keys must be logged through Secret or RedactedString. The
// encoder also redacts well-known key names (api_key, token, ...) as a
// second line of defense.
//
// Use NewTestLogger in tests to assert on emitted entries.
package logging
