// Package anthropic implements the providers.Provider interface for
// Anthropic's Messages API, including its server-sent-events streaming
// protocol. Only text content is supported; the adapter ignores event kinds
// other than text deltas and the terminal stop events.
package anthropic
