package handlers

import (
	"log/slog"
	"net/http"

	"parley-hq/parley/pkg/gateway"
	"parley-hq/parley/pkg/providers"
)

// ServiceName identifies the gateway in health responses.
const ServiceName = "chat-api"

// HealthHandler answers liveness probes. It reports ok whenever the process
// is serving, regardless of provider state.
type HealthHandler struct{}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}

	response := map[string]any{
		"status":  "ok",
		"service": ServiceName,
	}

	if err := gateway.WriteJSON(w, http.StatusOK, response); err != nil {
		slog.ErrorContext(r.Context(), "failed to write health response", "error", err)
	}
}

// ReadyHandler answers readiness probes. The gateway is ready when its
// provider has not accumulated consecutive failures.
type ReadyHandler struct {
	Provider providers.Provider
}

// NewReadyHandler creates a new readiness check handler.
func NewReadyHandler(provider providers.Provider) *ReadyHandler {
	return &ReadyHandler{Provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r, http.MethodGet)
		return
	}

	status := "ready"
	statusCode := http.StatusOK
	if !h.Provider.IsHealthy() {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]any{
		"status":   status,
		"service":  ServiceName,
		"provider": h.Provider.GetName(),
	}

	if err := gateway.WriteJSON(w, statusCode, response); err != nil {
		slog.ErrorContext(r.Context(), "failed to write readiness response", "error", err)
	}
}

// writeMethodNotAllowed writes the 405 error envelope.
func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	apiErr := gateway.NewAPIError(
		"Method "+r.Method+" not allowed. Use "+allowed+" instead.",
		gateway.CodeMethodNotAllowed,
		http.StatusMethodNotAllowed,
	)
	if err := gateway.WriteError(w, apiErr); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", "error", err)
	}
}
