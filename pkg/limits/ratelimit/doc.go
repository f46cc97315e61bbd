// Package ratelimit implements an in-process sliding-window rate limiter.
//
// Each identifier gets a timestamped call history; a call is admitted iff
// fewer than the configured maximum remain within the trailing window after
// expired entries are pruned. The limiter is single-process by design:
// distributed rate limiting is out of scope for this gateway.
package ratelimit
