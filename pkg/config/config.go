package config

import "time"

// Config is the root configuration structure for the Parley gateway.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Provider contains configuration for the upstream LLM provider.
	Provider ProviderConfig `yaml:"provider"`

	// Chat contains conversation and validation settings.
	Chat ChatConfig `yaml:"chat"`

	// Limits contains rate limiting configuration.
	Limits LimitsConfig `yaml:"limits"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Streaming responses can be long-lived, so the default is
	// generous. Zero means no timeout. Default: 0
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size. Default: 1MB
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS settings for browser clients.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is the list of allowed origins. Use ["*"] for all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is the list of allowed HTTP methods.
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is the list of allowed request headers.
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache duration in seconds.
	MaxAge int `yaml:"max_age"`
}

// ProviderConfig contains configuration for the upstream LLM provider.
type ProviderConfig struct {
	// Name identifies the provider. Currently only "anthropic".
	Name string `yaml:"name"`

	// BaseURL overrides the provider's API endpoint (used in tests and
	// for proxies). Empty means the provider default.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the provider. Usually supplied via
	// PARLEY_PROVIDER_API_KEY or ANTHROPIC_API_KEY rather than the file.
	APIKey string `yaml:"api_key"`

	// Model is the model identifier for completion requests.
	Model string `yaml:"model"`

	// Timeout bounds a single provider call including streaming.
	// Default: 120s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the retry budget for transient failures. Default: 3
	MaxRetries int `yaml:"max_retries"`

	// MaxIdleConns is the connection pool size. Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the per-host pool size. Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long idle connections are kept. Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// ChatConfig contains conversation and validation settings.
type ChatConfig struct {
	// MaxContextMessages bounds the rolling conversation history.
	// Default: 10
	MaxContextMessages int `yaml:"max_context_messages"`

	// MaxTokens is the completion token budget per request. Default: 1024
	MaxTokens int `yaml:"max_tokens"`

	// MinMessageLength is the minimum post-trim message length. Default: 1
	MinMessageLength int `yaml:"min_message_length"`

	// MaxMessageLength is the maximum post-trim message length.
	// Default: 10000
	MaxMessageLength int `yaml:"max_message_length"`
}

// LimitsConfig contains rate limiting configuration.
type LimitsConfig struct {
	// Enabled controls whether the rate limiter is applied. Default: true
	Enabled bool `yaml:"enabled"`

	// MaxCalls is the number of calls admitted per period. Default: 10
	MaxCalls int `yaml:"max_calls"`

	// Period is the trailing window duration. Default: 60s
	Period time.Duration `yaml:"period"`

	// PerClient keys the limiter by client address instead of a single
	// shared window. Default: false
	PerClient bool `yaml:"per_client"`

	// PruneSchedule is a cron expression for pruning idle identifiers.
	// Empty disables scheduled pruning. Default: "@every 5m"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text"). Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records. Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served. Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix. Default: "parley"
	Namespace string `yaml:"namespace"`
}
