// Package conversation maintains the rolling chat history sent to the
// upstream provider. The buffer is bounded: once it holds more than the
// configured maximum number of messages, the oldest are dropped so the
// context window stays fixed while preserving the order of the rest.
package conversation
