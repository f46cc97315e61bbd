package handlers

import (
	"log/slog"
	"net/http"

	"parley-hq/parley/pkg/chat"
	"parley-hq/parley/pkg/gateway"
	"parley-hq/parley/pkg/gateway/middleware"
)

// ClearHandler resets the conversation history for POST /api/chat/clear.
type ClearHandler struct {
	Service *chat.Service
}

// NewClearHandler creates a new clear handler.
func NewClearHandler(service *chat.Service) *ClearHandler {
	return &ClearHandler{Service: service}
}

// ServeHTTP implements http.Handler.
func (h *ClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}

	h.Service.Clear()

	slog.InfoContext(r.Context(), "conversation cleared",
		"request_id", middleware.GetRequestID(r.Context()),
	)

	response := map[string]any{
		"status":  "ok",
		"message": "Conversation cleared",
	}
	if err := gateway.WriteJSON(w, http.StatusOK, response); err != nil {
		slog.ErrorContext(r.Context(), "failed to write clear response", "error", err)
	}
}
