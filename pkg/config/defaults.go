package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 0 * time.Second // streaming responses are long-lived
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// CORS defaults
	DefaultCORSMaxAge = 3600 // 1 hour

	// Provider defaults
	DefaultProviderName                = "anthropic"
	DefaultProviderModel               = "claude-sonnet-4-5-20250929"
	DefaultProviderTimeout             = 120 * time.Second
	DefaultProviderMaxRetries          = 3
	DefaultProviderMaxIdleConns        = 100
	DefaultProviderMaxIdleConnsPerHost = 10
	DefaultProviderIdleConnTimeout     = 90 * time.Second

	// Chat defaults
	DefaultMaxContextMessages = 10
	DefaultMaxTokens          = 1024
	DefaultMinMessageLength   = 1
	DefaultMaxMessageLength   = 10000

	// Limits defaults
	DefaultLimitsMaxCalls      = 10
	DefaultLimitsPeriod        = 60 * time.Second
	DefaultLimitsPruneSchedule = "@every 5m"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsNamespace = "parley"
)

// DefaultCORSAllowedMethods are the methods allowed when CORS is enabled
// and no explicit list is configured.
var DefaultCORSAllowedMethods = []string{"GET", "POST", "OPTIONS"}

// DefaultCORSAllowedHeaders are the request headers allowed when CORS is
// enabled and no explicit list is configured.
var DefaultCORSAllowedHeaders = []string{"Content-Type", "X-Request-ID"}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.CORS.Enabled {
		if len(cfg.Server.CORS.AllowedMethods) == 0 {
			cfg.Server.CORS.AllowedMethods = DefaultCORSAllowedMethods
		}
		if len(cfg.Server.CORS.AllowedHeaders) == 0 {
			cfg.Server.CORS.AllowedHeaders = DefaultCORSAllowedHeaders
		}
		if cfg.Server.CORS.MaxAge == 0 {
			cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
		}
	}

	// Provider defaults
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = DefaultProviderName
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = DefaultProviderModel
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = DefaultProviderTimeout
	}
	if cfg.Provider.MaxRetries == 0 {
		cfg.Provider.MaxRetries = DefaultProviderMaxRetries
	}
	if cfg.Provider.MaxIdleConns == 0 {
		cfg.Provider.MaxIdleConns = DefaultProviderMaxIdleConns
	}
	if cfg.Provider.MaxIdleConnsPerHost == 0 {
		cfg.Provider.MaxIdleConnsPerHost = DefaultProviderMaxIdleConnsPerHost
	}
	if cfg.Provider.IdleConnTimeout == 0 {
		cfg.Provider.IdleConnTimeout = DefaultProviderIdleConnTimeout
	}

	// Chat defaults
	if cfg.Chat.MaxContextMessages == 0 {
		cfg.Chat.MaxContextMessages = DefaultMaxContextMessages
	}
	if cfg.Chat.MaxTokens == 0 {
		cfg.Chat.MaxTokens = DefaultMaxTokens
	}
	if cfg.Chat.MinMessageLength == 0 {
		cfg.Chat.MinMessageLength = DefaultMinMessageLength
	}
	if cfg.Chat.MaxMessageLength == 0 {
		cfg.Chat.MaxMessageLength = DefaultMaxMessageLength
	}

	// Limits defaults
	if cfg.Limits.MaxCalls == 0 {
		cfg.Limits.MaxCalls = DefaultLimitsMaxCalls
	}
	if cfg.Limits.Period == 0 {
		cfg.Limits.Period = DefaultLimitsPeriod
	}
	if cfg.Limits.PruneSchedule == "" {
		cfg.Limits.PruneSchedule = DefaultLimitsPruneSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// SeedEnabledDefaults sets the booleans that default to on. ApplyDefaults
// cannot distinguish an omitted field from an explicit false, so these are
// applied before a config file is unmarshalled: an omitted section keeps
// them enabled and an explicit `enabled: false` still wins.
func SeedEnabledDefaults(cfg *Config) {
	cfg.Limits.Enabled = true
	cfg.Telemetry.Metrics.Enabled = true
}

// NewDefault returns a configuration populated entirely from defaults,
// with rate limiting and metrics enabled. Used when no config file is
// supplied.
func NewDefault() *Config {
	cfg := &Config{}
	SeedEnabledDefaults(cfg)
	ApplyDefaults(cfg)
	return cfg
}
