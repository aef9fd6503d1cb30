package telemetry

import (
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/embedkit/internal/config"
)

const serviceVersion = "0.1.0"

// Config holds telemetry configuration.
type Config struct {
	Enabled        bool
	Endpoint       string
	Protocol       string // "grpc" or "http/protobuf"
	ServiceName    string
	ServiceVersion string
	Insecure       bool
	SamplingRate   float64
	ExportInterval config.Duration
	ShutdownTimeout config.Duration
}

// NewDefaultConfig returns telemetry defaults. Telemetry is disabled until a
// collector endpoint is configured.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:        false,
		Endpoint:       "localhost:4317",
		Protocol:       "grpc",
		ServiceName:    "embedkit",
		ServiceVersion: serviceVersion,
		Insecure:       true,
		SamplingRate:   1.0,
		ExportInterval: config.Duration(15 * time.Second),
		ShutdownTimeout: config.Duration(5 * time.Second),
	}
}

// FromFileConfig overlays the file settings on the defaults.
func FromFileConfig(fc config.TelemetryConfig) *Config {
	cfg := NewDefaultConfig()
	cfg.Enabled = fc.Enabled
	cfg.Insecure = fc.Insecure
	if fc.Endpoint != "" {
		cfg.Endpoint = fc.Endpoint
	}
	if fc.Protocol != "" {
		cfg.Protocol = fc.Protocol
	}
	if fc.ServiceName != "" {
		cfg.ServiceName = fc.ServiceName
	}
	if fc.ExportInterval > 0 {
		cfg.ExportInterval = fc.ExportInterval
	}
	return cfg
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when telemetry is enabled")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required when telemetry is enabled")
	}
	switch c.Protocol {
	case "", "grpc", "http/protobuf":
	default:
		return fmt.Errorf("protocol must be 'grpc' or 'http/protobuf', got %q", c.Protocol)
	}
	if c.Insecure && !c.isLocalEndpoint() {
		return fmt.Errorf("insecure connections to remote endpoints are not allowed; set insecure=false or use a local endpoint")
	}
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("sampling rate must be between 0 and 1, got %f", c.SamplingRate)
	}
	if c.ExportInterval.Duration() <= 0 {
		return fmt.Errorf("export_interval must be positive")
	}
	if c.ShutdownTimeout.Duration() <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// isLocalEndpoint reports whether the endpoint points at the local host.
func (c *Config) isLocalEndpoint() bool {
	host := stripScheme(c.Endpoint)

	if strings.HasPrefix(host, "[") {
		if idx := strings.Index(host, "]"); idx != -1 {
			host = host[1:idx]
		}
	} else if strings.Count(host, ":") == 1 {
		host = host[:strings.LastIndex(host, ":")]
	}

	return host == "localhost" ||
		host == "::1" ||
		strings.HasPrefix(host, "127.")
}
