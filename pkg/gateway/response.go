package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"parley-hq/parley/pkg/chat"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteError writes the error envelope with its embedded status code.
func WriteError(w http.ResponseWriter, apiErr *APIError) error {
	return WriteJSON(w, apiErr.Status, apiErr)
}

// SetSSEHeaders sets the headers for a Server-Sent Events response.
// X-Accel-Buffering disables response buffering in nginx-style reverse
// proxies, which would otherwise hold frames back from the client.
func SetSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// WriteSSEFrame writes one frame in Server-Sent Events format and flushes it:
//
//	data: {"text":"Hello"}
//
// followed by a blank line.
func WriteSSEFrame(w http.ResponseWriter, frame chat.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal SSE frame: %w", err)
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write SSE frame: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	return nil
}
