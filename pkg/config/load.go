package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	SeedEnabledDefaults(&cfg)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// PARLEY_SECTION_FIELD (e.g. PARLEY_SERVER_LISTEN_ADDRESS) and always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv builds a configuration entirely from defaults and environment
// variables, for running without a config file.
func LoadFromEnv() (*Config, error) {
	cfg := NewDefault()
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format PARLEY_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("PARLEY_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("PARLEY_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("PARLEY_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("PARLEY_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("PARLEY_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("PARLEY_SERVER_CORS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.CORS.Enabled = b
		}
	}

	// Provider overrides. ANTHROPIC_API_KEY is honored as a fallback so the
	// gateway picks up the vendor's conventional variable out of the box.
	if val := os.Getenv("PARLEY_PROVIDER_BASE_URL"); val != "" {
		cfg.Provider.BaseURL = val
	}
	if val := os.Getenv("PARLEY_PROVIDER_API_KEY"); val != "" {
		cfg.Provider.APIKey = val
	} else if val := os.Getenv("ANTHROPIC_API_KEY"); val != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = val
	}
	if val := os.Getenv("PARLEY_PROVIDER_MODEL"); val != "" {
		cfg.Provider.Model = val
	}
	if val := os.Getenv("PARLEY_PROVIDER_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Provider.Timeout = d
		}
	}
	if val := os.Getenv("PARLEY_PROVIDER_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Provider.MaxRetries = i
		}
	}

	// Chat overrides
	if val := os.Getenv("PARLEY_CHAT_MAX_CONTEXT_MESSAGES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Chat.MaxContextMessages = i
		}
	}
	if val := os.Getenv("PARLEY_CHAT_MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Chat.MaxTokens = i
		}
	}
	if val := os.Getenv("PARLEY_CHAT_MAX_MESSAGE_LENGTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Chat.MaxMessageLength = i
		}
	}

	// Limits overrides
	if val := os.Getenv("PARLEY_LIMITS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Limits.Enabled = b
		}
	}
	if val := os.Getenv("PARLEY_LIMITS_MAX_CALLS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Limits.MaxCalls = i
		}
	}
	if val := os.Getenv("PARLEY_LIMITS_PERIOD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Limits.Period = d
		}
	}
	if val := os.Getenv("PARLEY_LIMITS_PER_CLIENT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Limits.PerClient = b
		}
	}

	// Telemetry overrides
	if val := os.Getenv("PARLEY_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PARLEY_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PARLEY_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
