package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"parley-hq/parley/pkg/chat"
	"parley-hq/parley/pkg/providers"
)

// Error codes returned in the error envelope.
const (
	CodeUpstreamError      = "UPSTREAM_ERROR"
	CodeUpstreamTimeout    = "UPSTREAM_TIMEOUT"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// APIError is the JSON error envelope returned on every non-2xx response:
//
//	{"error": "Message is required", "code": "MISSING_MESSAGE", "status": 400}
type APIError struct {
	// Message is the human-readable explanation.
	Message string `json:"error"`

	// Code is the machine-readable error code.
	Code string `json:"code"`

	// Status is the HTTP status code, duplicated in the body so clients
	// reading buffered responses do not need the transport status line.
	Status int `json:"status"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.Status)
}

// NewAPIError creates an error envelope.
func NewAPIError(message, code string, status int) *APIError {
	return &APIError{Message: message, Code: code, Status: status}
}

// HandleError converts internal errors to the client-facing error envelope.
// Validation failures surface verbatim as 400s; everything upstream collapses
// to gateway-level codes so provider internals never leak to clients.
//
// Example usage:
//
//	if err != nil {
//	    gateway.WriteError(w, gateway.HandleError(err))
//	    return
//	}
func HandleError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var validationErr *chat.ValidationError
	if errors.As(err, &validationErr) {
		return NewAPIError(validationErr.Message, validationErr.Code, http.StatusBadRequest)
	}

	var rateLimitErr *providers.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return NewAPIError(
			"The AI service is receiving too many requests. Please try again shortly.",
			CodeRateLimitExceeded,
			http.StatusTooManyRequests,
		)
	}

	var timeoutErr *providers.TimeoutError
	if errors.As(err, &timeoutErr) {
		return NewAPIError(
			"The AI service took too long to respond. Please try again.",
			CodeUpstreamTimeout,
			http.StatusGatewayTimeout,
		)
	}

	var authErr *providers.AuthError
	if errors.As(err, &authErr) {
		// Misconfigured gateway credentials, not a client problem.
		return NewAPIError(
			"Failed to get AI response",
			CodeUpstreamError,
			http.StatusBadGateway,
		)
	}

	var parseErr *providers.ParseError
	if errors.As(err, &parseErr) {
		return NewAPIError(
			"Failed to get AI response",
			CodeUpstreamError,
			http.StatusBadGateway,
		)
	}

	var streamErr *providers.StreamError
	if errors.As(err, &streamErr) {
		return NewAPIError(
			"Failed to get AI response",
			CodeUpstreamError,
			http.StatusBadGateway,
		)
	}

	var providerErr *providers.ProviderError
	if errors.As(err, &providerErr) {
		return NewAPIError(
			"Failed to get AI response",
			CodeUpstreamError,
			http.StatusBadGateway,
		)
	}

	var configErr *providers.ConfigError
	if errors.As(err, &configErr) {
		return NewAPIError(
			"Service is not configured correctly",
			CodeServiceUnavailable,
			http.StatusServiceUnavailable,
		)
	}

	return NewAPIError(
		"An internal error occurred. Please try again later.",
		CodeInternalError,
		http.StatusInternalServerError,
	)
}
