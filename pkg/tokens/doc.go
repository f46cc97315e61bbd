// Package tokens provides fast character-based token estimation.
// Estimates are used for logging and metrics only; the upstream provider
// reports authoritative usage in its final stream event.
package tokens
