package logging

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.NotNil(t, logger.Underlying())
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewLogger_OTELWithoutProvider(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Stderr = false
	cfg.Output.OTEL = true

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
}

func TestLogger_ContextAwareMethods(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	tests := []struct {
		name    string
		logFunc func()
		level   zapcore.Level
		message string
	}{
		{"trace", func() { tl.Trace(ctx, "trace message") }, TraceLevel, "trace message"},
		{"debug", func() { tl.Debug(ctx, "debug message") }, zapcore.DebugLevel, "debug message"},
		{"info", func() { tl.Info(ctx, "info message") }, zapcore.InfoLevel, "info message"},
		{"warn", func() { tl.Warn(ctx, "warn message") }, zapcore.WarnLevel, "warn message"},
		{"error", func() { tl.Error(ctx, "error message") }, zapcore.ErrorLevel, "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.logFunc()
			tl.AssertLogged(t, tt.level, tt.message)
		})
	}
}

func TestLogger_RequestIDFromContext(t *testing.T) {
	tl := NewTestLogger()
	ctx := WithRequestID(context.Background(), "req-123")

	tl.Info(ctx, "resolved", zap.String("provider", "openai"))

	tl.AssertField(t, "resolved", "request.id", "req-123")
	tl.AssertField(t, "resolved", "provider", "openai")
}

func TestLogger_WithAndNamed(t *testing.T) {
	tl := NewTestLogger()

	child := tl.With(zap.String("component", "resolver")).Named("embedder")
	child.Info(context.Background(), "child message")

	entries := tl.FilterMessage("child message").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "embedder", entries[0].LoggerName)
	assert.Equal(t, "resolver", entries[0].ContextMap()["component"])
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Info(context.Background(), "dropped")
	assert.False(t, logger.Enabled(zapcore.ErrorLevel))
}

func TestIsStdioSyncError(t *testing.T) {
	assert.True(t, isStdioSyncError(syscall.EINVAL))
	assert.True(t, isStdioSyncError(syscall.ENOTTY))
	assert.False(t, isStdioSyncError(errors.New("disk full")))
}
