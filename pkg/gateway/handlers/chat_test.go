package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parley-hq/parley/pkg/chat"
	"parley-hq/parley/pkg/conversation"
	"parley-hq/parley/pkg/providers"
)

// scriptedProvider yields a fixed sequence of stream chunks.
type scriptedProvider struct {
	chunks  []*providers.StreamChunk
	healthy bool
}

func (p *scriptedProvider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	return &providers.CompletionResponse{ID: "resp", FinishReason: providers.FinishReasonStop}, nil
}

func (p *scriptedProvider) StreamCompletion(ctx context.Context, req *providers.CompletionRequest) (<-chan *providers.StreamChunk, error) {
	out := make(chan *providers.StreamChunk, len(p.chunks))
	for _, c := range p.chunks {
		out <- c
	}
	close(out)
	return out, nil
}

func (p *scriptedProvider) GetName() string { return "scripted" }
func (p *scriptedProvider) IsHealthy() bool { return p.healthy }
func (p *scriptedProvider) GetHealth() providers.ProviderHealth {
	return providers.ProviderHealth{IsHealthy: p.healthy}
}
func (p *scriptedProvider) Close() error { return nil }

func newTestService(provider providers.Provider) (*chat.Service, *conversation.Buffer) {
	buffer := conversation.NewBuffer(10)
	validator := chat.NewValidator(1, 10000)
	service := chat.NewService(provider, buffer, validator, chat.Config{Model: "test-model"})
	return service, buffer
}

func deltaChunks(deltas ...string) []*providers.StreamChunk {
	chunks := make([]*providers.StreamChunk, 0, len(deltas))
	for _, d := range deltas {
		chunks = append(chunks, &providers.StreamChunk{Delta: d})
	}
	return chunks
}

// parseSSEFrames decodes the text payloads of an SSE response body.
func parseSSEFrames(t *testing.T, body string) []string {
	t.Helper()
	var frames []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var frame struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame); err != nil {
			t.Fatalf("invalid frame %q: %v", line, err)
		}
		frames = append(frames, frame.Text)
	}
	return frames
}

func postChat(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatHandlerStreamsReply(t *testing.T) {
	provider := &scriptedProvider{chunks: deltaChunks("Hel", "lo\n", "world"), healthy: true}
	service, buffer := newTestService(provider)
	handler := NewChatHandler(service, nil)

	rec := postChat(t, handler, `{"message": "hi there"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Errorf("Cache-Control = %q", got)
	}

	frames := parseSSEFrames(t, rec.Body.String())
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if joined := strings.Join(frames, ""); joined != "Hello\nworld" {
		t.Errorf("concatenated frames = %q, want %q", joined, "Hello\nworld")
	}

	// The exchange is committed: user message plus full assistant reply
	history := buffer.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 buffered messages, got %d", len(history))
	}
	if history[1].Content != "Hello\nworld" {
		t.Errorf("assistant message = %q", history[1].Content)
	}
}

func TestChatHandlerValidationError(t *testing.T) {
	provider := &scriptedProvider{chunks: deltaChunks("unused"), healthy: true}
	service, buffer := newTestService(provider)
	handler := NewChatHandler(service, nil)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing message field", `{}`, chat.CodeMissingMessage},
		{"empty message", `{"message": ""}`, chat.CodeMissingMessage},
		{"whitespace message", `{"message": "   "}`, chat.CodeMissingMessage},
		{"too long", `{"message": "` + strings.Repeat("a", 10001) + `"}`, chat.CodeMessageTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, handler, tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var body struct {
				Error  string `json:"error"`
				Code   string `json:"code"`
				Status int    `json:"status"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Status != http.StatusBadRequest {
				t.Errorf("status field = %d, want 400", body.Status)
			}
		})
	}

	if buffer.Len() != 0 {
		t.Errorf("rejected messages must not touch the buffer, got %d", buffer.Len())
	}
}

func TestChatHandlerInvalidJSON(t *testing.T) {
	provider := &scriptedProvider{healthy: true}
	service, _ := newTestService(provider)
	handler := NewChatHandler(service, nil)

	rec := postChat(t, handler, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Code != "INVALID_JSON" {
		t.Errorf("code = %q, want INVALID_JSON", body.Code)
	}
}

func TestChatHandlerMethodNotAllowed(t *testing.T) {
	provider := &scriptedProvider{healthy: true}
	service, _ := newTestService(provider)
	handler := NewChatHandler(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodPost {
		t.Errorf("Allow = %q, want POST", got)
	}
}

func TestChatHandlerMidStreamErrorDropsConnection(t *testing.T) {
	chunks := []*providers.StreamChunk{
		{Delta: "partial"},
		{Error: &providers.StreamError{Provider: "scripted", Message: "reset"}},
	}
	provider := &scriptedProvider{chunks: chunks, healthy: true}
	service, buffer := newTestService(provider)
	handler := NewChatHandler(service, nil)

	rec := postChat(t, handler, `{"message": "hi"}`)

	// Headers already sent as 200; the body just ends after the partial frame
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	frames := parseSSEFrames(t, rec.Body.String())
	if len(frames) != 1 || frames[0] != "partial" {
		t.Errorf("frames = %v, want only the partial frame", frames)
	}

	// No trailing error frame pretending to be content
	if strings.Contains(rec.Body.String(), "error") {
		t.Errorf("error leaked into SSE body: %q", rec.Body.String())
	}

	// Partial reply not committed
	if buffer.Len() != 1 {
		t.Errorf("expected only the user message committed, got %d", buffer.Len())
	}
}

func TestClearHandler(t *testing.T) {
	provider := &scriptedProvider{chunks: deltaChunks("ok"), healthy: true}
	service, buffer := newTestService(provider)

	// Seed the conversation
	chatHandler := NewChatHandler(service, nil)
	postChat(t, chatHandler, `{"message": "hi"}`)
	if buffer.Len() == 0 {
		t.Fatal("setup failed, buffer empty")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat/clear", nil)
	rec := httptest.NewRecorder()
	NewClearHandler(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Status != "ok" || body.Message != "Conversation cleared" {
		t.Errorf("unexpected body: %+v", body)
	}

	if buffer.Len() != 0 {
		t.Errorf("buffer not cleared, %d messages remain", buffer.Len())
	}
}

func TestClearHandlerMethodNotAllowed(t *testing.T) {
	provider := &scriptedProvider{healthy: true}
	service, _ := newTestService(provider)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/clear", nil)
	rec := httptest.NewRecorder()
	NewClearHandler(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	NewHealthHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Status != "ok" || body.Service != ServiceName {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestReadyHandler(t *testing.T) {
	tests := []struct {
		name       string
		healthy    bool
		wantStatus int
	}{
		{"healthy provider", true, http.StatusOK},
		{"unhealthy provider", false, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedProvider{healthy: tt.healthy}
			req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
			rec := httptest.NewRecorder()
			NewReadyHandler(provider).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
