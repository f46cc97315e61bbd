package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"parley-hq/parley/pkg/gateway"
	"parley-hq/parley/pkg/limits/ratelimit"
	"parley-hq/parley/pkg/telemetry/metrics"
)

// RateLimitConfig contains configuration for the rate limit middleware.
type RateLimitConfig struct {
	// Limiter is the sliding-window limiter to consult.
	Limiter *ratelimit.SlidingWindow

	// PerClient keys the window by client IP instead of one shared window.
	PerClient bool

	// Collector records rejected requests. May be nil.
	Collector *metrics.Collector
}

// RateLimit rejects requests that exceed the sliding window with a 429
// envelope. Rejected responses carry Retry-After along with
// X-RateLimit-Limit and X-RateLimit-Remaining headers.
//
// Example usage:
//
//	chatHandler = middleware.RateLimit(cfg)(chatHandler)
func RateLimit(config RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			identifier := ratelimit.GlobalIdentifier
			if config.PerClient {
				identifier = clientIdentifier(r)
			}

			result := config.Limiter.Check(identifier)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

			if !result.Allowed {
				retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				slog.WarnContext(r.Context(), "request rate limited",
					"request_id", GetRequestID(r.Context()),
					"identifier", identifier,
					"retry_after_s", retryAfter,
				)
				if config.Collector != nil {
					config.Collector.RecordRateLimited()
				}

				apiErr := gateway.NewAPIError(
					"Too many requests. Please slow down.",
					gateway.CodeRateLimitExceeded,
					http.StatusTooManyRequests,
				)
				if err := gateway.WriteError(w, apiErr); err != nil {
					slog.ErrorContext(r.Context(), "failed to write error response", "error", err)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIdentifier extracts a stable per-client key from the request.
// X-Forwarded-For is not consulted; trusting it without a known proxy
// chain would let clients reset their own window.
func clientIdentifier(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
