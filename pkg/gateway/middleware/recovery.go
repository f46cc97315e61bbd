package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"parley-hq/parley/pkg/gateway"
)

// Recovery recovers from panics in HTTP handlers and returns a 500 error
// envelope. It logs the panic with stack trace but does not expose internal
// details to clients.
//
// Example usage:
//
//	handler = middleware.Recovery(handler)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				apiErr := gateway.NewAPIError(
					"An internal error occurred. Please try again later.",
					gateway.CodeInternalError,
					http.StatusInternalServerError,
				)
				// Write may fail if the handler already started the
				// response; nothing left to do at this point.
				_ = gateway.WriteError(w, apiErr)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
