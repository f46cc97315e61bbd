package providers

import "time"

// Message represents a single message in a conversation.
// It is provider-agnostic and transformed to vendor formats by each adapter.
type Message struct {
	// Role identifies the message sender (user or assistant).
	Role string `json:"role"`

	// Content is the message text content.
	Content string `json:"content"`
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens used (prompt + completion).
	TotalTokens int `json:"total_tokens"`
}

// CompletionRequest represents a provider-agnostic completion request.
type CompletionRequest struct {
	// Model is the model identifier (e.g., "claude-sonnet-4-5-20250929").
	Model string `json:"model"`

	// Messages is the conversation history, oldest first.
	Messages []Message `json:"messages"`

	// MaxTokens is the token budget for the generated reply.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Stream indicates whether to stream the response.
	Stream bool `json:"stream,omitempty"`
}

// CompletionResponse represents a provider-agnostic completion response.
type CompletionResponse struct {
	// ID is the unique response identifier assigned by the provider.
	ID string `json:"id"`

	// Model is the model that generated the response.
	Model string `json:"model"`

	// Content is the generated text content.
	Content string `json:"content"`

	// FinishReason indicates why generation stopped (stop, length).
	FinishReason string `json:"finish_reason"`

	// Usage contains token consumption information.
	Usage TokenUsage `json:"usage"`

	// Created is the Unix timestamp when the response was created.
	Created int64 `json:"created"`
}

// StreamChunk represents a single chunk in a streaming response.
type StreamChunk struct {
	// ID is the response identifier (same across all chunks).
	ID string `json:"id"`

	// Model is the model generating the response.
	Model string `json:"model"`

	// Delta is the incremental text content in this chunk.
	Delta string `json:"delta"`

	// FinishReason is set in the final chunk to indicate why generation stopped.
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage is included in the final chunk when the provider reports it.
	Usage *TokenUsage `json:"usage,omitempty"`

	// Error is set if an error occurred during streaming.
	Error error `json:"-"`
}

// ProviderHealth tracks the health status of a provider.
type ProviderHealth struct {
	// IsHealthy indicates whether the provider is currently healthy.
	IsHealthy bool

	// LastCheck is the timestamp of the last health update.
	LastCheck time.Time

	// LastError is the most recent error encountered (nil if healthy).
	LastError error

	// ConsecutiveFailures counts sequential request failures.
	ConsecutiveFailures int

	// LastSuccessfulRequest is the timestamp of the last successful request.
	LastSuccessfulRequest time.Time

	// TotalRequests is the total number of requests sent to this provider.
	TotalRequests int64

	// FailedRequests is the total number of failed requests.
	FailedRequests int64
}

// ProviderConfig contains configuration for a single provider instance.
type ProviderConfig struct {
	// Name is the provider identifier (e.g., "anthropic").
	Name string

	// BaseURL is the API endpoint base URL.
	BaseURL string

	// APIKey is the authentication key.
	APIKey string

	// Model is the default model identifier for completion requests.
	Model string

	// Timeout is the request timeout duration.
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool.
	IdleConnTimeout time.Duration
}

// Message role constants.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reason constants.
const (
	FinishReasonStop   = "stop"
	FinishReasonLength = "length"
)
