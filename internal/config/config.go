// Package config provides configuration loading for embedkit.
//
// Configuration is read from an optional YAML or TOML file and overridden by
// EMBEDKIT_* environment variables. The embedder section mirrors the request
// shape accepted by the resolver: a provider identifier plus a free-form
// provider config map.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds the complete embedkit configuration.
type Config struct {
	Embedder  EmbedderConfig  `koanf:"embedder"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Server    ServerConfig    `koanf:"server"`
}

// EmbedderConfig selects the embedding provider and its options.
// An empty Provider means "use the environment defaults".
type EmbedderConfig struct {
	Provider string         `koanf:"provider"`
	Config   map[string]any `koanf:"config"`
}

// IsSet reports whether a provider was configured explicitly.
func (e EmbedderConfig) IsSet() bool {
	return strings.TrimSpace(e.Provider) != ""
}

// APIKey returns the configured api_key as a Secret.
func (e EmbedderConfig) APIKey() Secret {
	if v, ok := e.Config["api_key"].(string); ok {
		return Secret(v)
	}
	return ""
}

// LoggingConfig holds the subset of logging settings exposed in the file.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Endpoint       string   `koanf:"endpoint"`
	Protocol       string   `koanf:"protocol"`
	Insecure       bool     `koanf:"insecure"`
	ServiceName    string   `koanf:"service_name"`
	ExportInterval Duration `koanf:"export_interval"`
}

// ServerConfig holds HTTP server settings for `embedkit serve`.
type ServerConfig struct {
	Addr            string   `koanf:"addr"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			Endpoint:       "localhost:4317",
			Protocol:       "grpc",
			Insecure:       true,
			ServiceName:    "embedkit",
			ExportInterval: Duration(15 * time.Second),
		},
		Server: ServerConfig{
			Addr:            ":8089",
			ShutdownTimeout: Duration(10 * time.Second),
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return errors.New("telemetry.endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.ServiceName == "" {
			return errors.New("telemetry.service_name is required when telemetry is enabled")
		}
		if c.Telemetry.ExportInterval.Duration() <= 0 {
			return errors.New("telemetry.export_interval must be positive")
		}
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if !c.Embedder.IsSet() && len(c.Embedder.Config) > 0 {
		return errors.New("embedder.config set without embedder.provider")
	}
	return nil
}
