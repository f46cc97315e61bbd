package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

const validConfigYAML = `
server:
  listen_address: "0.0.0.0:9090"
provider:
  name: anthropic
  api_key: test-key
  model: claude-sonnet-4-5-20250929
chat:
  max_context_messages: 20
limits:
  enabled: true
  max_calls: 5
  period: 30s
telemetry:
  logging:
    level: debug
`

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("listen_address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Chat.MaxContextMessages != 20 {
		t.Errorf("max_context_messages = %d, want 20", cfg.Chat.MaxContextMessages)
	}
	if cfg.Limits.MaxCalls != 5 || cfg.Limits.Period != 30*time.Second {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Telemetry.Logging.Level)
	}

	// Unspecified fields get defaults
	if cfg.Chat.MaxTokens != DefaultMaxTokens {
		t.Errorf("max_tokens = %d, want default %d", cfg.Chat.MaxTokens, DefaultMaxTokens)
	}
	if cfg.Provider.Timeout != DefaultProviderTimeout {
		t.Errorf("provider timeout = %s, want default", cfg.Provider.Timeout)
	}
}

func TestLoadConfigOmittedSectionsKeepFeaturesEnabled(t *testing.T) {
	// A file that never mentions limits or metrics must not disable them
	path := writeConfigFile(t, `
provider:
  name: anthropic
  api_key: test-key
  model: claude-sonnet-4-5-20250929
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Limits.Enabled {
		t.Error("rate limiting disabled by omitted limits section")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics disabled by omitted telemetry.metrics section")
	}
}

func TestLoadConfigExplicitDisableWins(t *testing.T) {
	path := writeConfigFile(t, `
provider:
  name: anthropic
  api_key: test-key
  model: claude-sonnet-4-5-20250929
limits:
  enabled: false
telemetry:
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Limits.Enabled {
		t.Error("explicit limits.enabled: false ignored")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("explicit telemetry.metrics.enabled: false ignored")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "{{ not yaml")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadConfigValidationFailure(t *testing.T) {
	path := writeConfigFile(t, `
provider:
  name: unsupported-vendor
  model: some-model
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, validConfigYAML)

	t.Setenv("PARLEY_SERVER_LISTEN_ADDRESS", "127.0.0.1:7070")
	t.Setenv("PARLEY_LIMITS_MAX_CALLS", "42")
	t.Setenv("PARLEY_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:7070" {
		t.Errorf("listen_address = %q, env override not applied", cfg.Server.ListenAddress)
	}
	if cfg.Limits.MaxCalls != 42 {
		t.Errorf("max_calls = %d, want 42", cfg.Limits.MaxCalls)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Telemetry.Logging.Level)
	}
}

func TestAnthropicAPIKeyFallback(t *testing.T) {
	path := writeConfigFile(t, `
provider:
  name: anthropic
  model: claude-sonnet-4-5-20250929
`)

	t.Setenv("ANTHROPIC_API_KEY", "fallback-key")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
	}
	if cfg.Provider.APIKey != "fallback-key" {
		t.Errorf("api_key = %q, want ANTHROPIC_API_KEY fallback", cfg.Provider.APIKey)
	}
}

func TestParleyAPIKeyTakesPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
provider:
  name: anthropic
  model: claude-sonnet-4-5-20250929
`)

	t.Setenv("ANTHROPIC_API_KEY", "vendor-key")
	t.Setenv("PARLEY_PROVIDER_API_KEY", "parley-key")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
	}
	if cfg.Provider.APIKey != "parley-key" {
		t.Errorf("api_key = %q, PARLEY_PROVIDER_API_KEY must win", cfg.Provider.APIKey)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PARLEY_SERVER_LISTEN_ADDRESS", "0.0.0.0:8081")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:8081" {
		t.Errorf("listen_address = %q", cfg.Server.ListenAddress)
	}
	if !cfg.Limits.Enabled {
		t.Error("rate limiting should default to enabled")
	}
	if cfg.Provider.Model != DefaultProviderModel {
		t.Errorf("model = %q, want default", cfg.Provider.Model)
	}
}
