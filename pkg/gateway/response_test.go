package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parley-hq/parley/pkg/chat"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	apiErr := NewAPIError("Message is required", "MISSING_MESSAGE", http.StatusBadRequest)

	if err := WriteError(rec, apiErr); err != nil {
		t.Fatalf("WriteError failed: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] != "Message is required" {
		t.Errorf("error = %v", body["error"])
	}
	if body["code"] != "MISSING_MESSAGE" {
		t.Errorf("code = %v", body["code"])
	}
	if body["status"] != float64(http.StatusBadRequest) {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestSetSSEHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSSEHeaders(rec)

	want := map[string]string{
		"Content-Type":      "text/event-stream",
		"Cache-Control":     "no-cache",
		"Connection":        "keep-alive",
		"X-Accel-Buffering": "no",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestWriteSSEFrame(t *testing.T) {
	rec := httptest.NewRecorder()

	if err := WriteSSEFrame(rec, chat.Frame{Text: "Hello"}); err != nil {
		t.Fatalf("WriteSSEFrame failed: %v", err)
	}

	want := "data: {\"text\":\"Hello\"}\n\n"
	if rec.Body.String() != want {
		t.Errorf("frame = %q, want %q", rec.Body.String(), want)
	}
	if !rec.Flushed {
		t.Error("frame not flushed")
	}
}

func TestWriteSSEFrameEscapesText(t *testing.T) {
	rec := httptest.NewRecorder()

	// Newlines must ride inside the JSON string, never as raw SSE line breaks
	if err := WriteSSEFrame(rec, chat.Frame{Text: "line one\nline two"}); err != nil {
		t.Fatalf("WriteSSEFrame failed: %v", err)
	}

	want := "data: {\"text\":\"line one\\nline two\"}\n\n"
	if rec.Body.String() != want {
		t.Errorf("frame = %q, want %q", rec.Body.String(), want)
	}
}
