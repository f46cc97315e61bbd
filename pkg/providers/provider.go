package providers

import "context"

// Provider is the interface an upstream LLM adapter must implement.
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must respect context cancellation and return promptly when
// the context is cancelled.
type Provider interface {
	// SendCompletion sends a completion request and returns the full response.
	// The request is transformed to the vendor format, sent upstream, and the
	// response is normalized back to the provider-agnostic format.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// StreamCompletion sends a streaming completion request. It returns a
	// channel that yields incremental chunks as they arrive upstream.
	//
	// The caller must read from the channel until it closes. If an error
	// occurs mid-stream it is delivered in the Error field of the final
	// chunk; no further chunks follow it.
	//
	// If the context is cancelled the stream is closed and no more chunks
	// are sent.
	StreamCompletion(ctx context.Context, req *CompletionRequest) (<-chan *StreamChunk, error)

	// GetName returns the provider's configured name (e.g., "anthropic").
	GetName() string

	// IsHealthy reports the provider's current health, derived from recent
	// request outcomes. Used by the readiness endpoint.
	IsHealthy() bool

	// GetHealth returns detailed health information.
	GetHealth() ProviderHealth

	// Close releases provider resources (idle HTTP connections, etc.).
	Close() error
}
