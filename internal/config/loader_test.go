package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	// WriteFile honours umask; force the mode under test.
	if err := os.Chmod(path, perm); err != nil {
		t.Fatalf("Failed to chmod test config: %v", err)
	}
	return path
}

// TestLoad_ValidYAML tests loading configuration from a valid YAML file.
func TestLoad_ValidYAML(t *testing.T) {
	path := writeConfig(t, "embedkit.yaml", `embedder:
  provider: ollama
  config:
    model: nomic-embed-text
    url: http://ollama:11434/api/embeddings

logging:
  level: debug
  format: console
`, 0600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Embedder.Provider != "ollama" {
		t.Errorf("Embedder.Provider = %q, want %q", cfg.Embedder.Provider, "ollama")
	}
	if got := cfg.Embedder.Config["model"]; got != "nomic-embed-text" {
		t.Errorf("Embedder.Config[model] = %v, want nomic-embed-text", got)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want debug/console", cfg.Logging)
	}
	// Defaults survive for sections the file does not mention.
	if cfg.Server.Addr != ":8089" {
		t.Errorf("Server.Addr = %q, want :8089", cfg.Server.Addr)
	}
}

// TestLoad_ValidTOML tests that .toml files go through the TOML parser.
func TestLoad_ValidTOML(t *testing.T) {
	path := writeConfig(t, "embedkit.toml", `[embedder]
provider = "cohere"

[embedder.config]
api_key = "co-test"
model = "embed-english-v3.0"
`, 0600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.Embedder.Provider != "cohere" {
		t.Errorf("Embedder.Provider = %q, want cohere", cfg.Embedder.Provider)
	}
	if cfg.Embedder.APIKey().Value() != "co-test" {
		t.Errorf("APIKey() = %q, want co-test", cfg.Embedder.APIKey().Value())
	}
}

// TestLoad_EnvOverridesFile verifies environment variables take precedence.
func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "embedkit.yaml", `embedder:
  provider: ollama
`, 0600)

	t.Setenv("EMBEDKIT_EMBEDDER_PROVIDER", "openai")
	t.Setenv("EMBEDKIT_EMBEDDER_CONFIG_API_KEY", "sk-env")
	t.Setenv("EMBEDKIT_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.Embedder.Provider != "openai" {
		t.Errorf("Embedder.Provider = %q, want openai", cfg.Embedder.Provider)
	}
	if got := cfg.Embedder.Config["api_key"]; got != "sk-env" {
		t.Errorf("Embedder.Config[api_key] = %v, want sk-env", got)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

// TestLoad_NoFile returns defaults when no path is given.
func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.Embedder.IsSet() {
		t.Errorf("Embedder.IsSet() = true, want false")
	}
	if cfg.Telemetry.ServiceName != "embedkit" {
		t.Errorf("Telemetry.ServiceName = %q, want embedkit", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() error = nil, want error for missing file")
	}
}

func TestLoad_InsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission model differs on windows")
	}
	path := writeConfig(t, "embedkit.yaml", "embedder:\n  provider: openai\n", 0644)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want permissions error")
	}
	if !strings.Contains(err.Error(), "insecure config file permissions") {
		t.Errorf("error = %v, want insecure permissions", err)
	}
}

func TestLoad_TooLarge(t *testing.T) {
	big := "# " + strings.Repeat("x", maxConfigFileSize) + "\n"
	path := writeConfig(t, "embedkit.yaml", big, 0600)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("Load() error = %v, want too large", err)
	}
}

func TestLoad_ConfigWithoutProvider(t *testing.T) {
	path := writeConfig(t, "embedkit.yaml", "embedder:\n  config:\n    model: x\n", 0600)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want validation error")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"EMBEDKIT_EMBEDDER_PROVIDER", "embedder.provider"},
		{"EMBEDKIT_EMBEDDER_CONFIG_API_BASE", "embedder.config.api_base"},
		{"EMBEDKIT_TELEMETRY_SERVICE_NAME", "telemetry.service_name"},
		{"EMBEDKIT_SERVER_ADDR", "server.addr"},
	}
	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
