// Package providers defines the provider abstraction for upstream LLM APIs.
//
// A Provider accepts a provider-agnostic completion request and either returns
// a complete response or streams incremental chunks over a channel. The
// gateway never talks to a vendor API directly; it only sees this interface,
// which keeps the HTTP surface decoupled from any one vendor's wire format.
//
// The package also provides HTTPProvider, a base implementation with
// connection pooling, retry with exponential backoff, and health tracking
// that concrete adapters (see the anthropic subpackage) embed.
package providers
