package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"parley-hq/parley/pkg/chat"
	"parley-hq/parley/pkg/gateway"
	"parley-hq/parley/pkg/gateway/middleware"
	"parley-hq/parley/pkg/telemetry/metrics"
)

// maxRequestBodyBytes bounds the chat request body. The message limit is
// 10k characters; anything past this is not a legitimate request.
const maxRequestBodyBytes = 1 << 20 // 1MB

// chatRequest is the JSON body of POST /api/chat.
type chatRequest struct {
	Message string `json:"message"`
}

// ChatHandler streams assistant replies for POST /api/chat.
//
// The response is Server-Sent Events: one data frame per completion delta,
// each carrying {"text": <string>}. Errors detected before the first frame
// return a JSON error envelope; once streaming has begun, a failure
// terminates the connection without a trailing error frame.
type ChatHandler struct {
	Service   *chat.Service
	Collector *metrics.Collector
}

// NewChatHandler creates a new chat handler. The collector may be nil.
func NewChatHandler(service *chat.Service, collector *metrics.Collector) *ChatHandler {
	return &ChatHandler{Service: service, Collector: collector}
}

// ServeHTTP implements http.Handler.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req chatRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		slog.WarnContext(ctx, "failed to parse chat request",
			"request_id", requestID,
			"error", err,
		)

		apiErr := gateway.NewAPIError(
			"Request body must be valid JSON",
			gateway.CodeInvalidJSON,
			http.StatusBadRequest,
		)
		if err := gateway.WriteError(w, apiErr); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	startTime := time.Now()

	stream, err := h.Service.Send(ctx, req.Message)
	if err != nil {
		apiErr := gateway.HandleError(err)
		logLevel := slog.LevelError
		if apiErr.Status < 500 {
			logLevel = slog.LevelWarn
		}
		slog.Log(ctx, logLevel, "chat request rejected",
			"request_id", requestID,
			"code", apiErr.Code,
			"error", err,
		)

		if err := gateway.WriteError(w, apiErr); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}
	defer stream.Close()

	gateway.SetSSEHeaders(w)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	frameCount := 0
	var firstFrameTime time.Time

	for {
		frame, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if ctx.Err() != nil {
				slog.WarnContext(ctx, "client disconnected during streaming",
					"request_id", requestID,
					"frames_sent", frameCount,
				)
				return
			}

			// Headers already went out; the only honest signal left is
			// dropping the connection.
			slog.ErrorContext(ctx, "stream failed",
				"request_id", requestID,
				"frames_sent", frameCount,
				"error", err,
			)
			return
		}

		if frameCount == 0 {
			firstFrameTime = time.Now()
		}

		if err := gateway.WriteSSEFrame(w, frame); err != nil {
			slog.WarnContext(ctx, "failed to write SSE frame",
				"request_id", requestID,
				"frames_sent", frameCount,
				"error", err,
			)
			return
		}

		frameCount++
		if h.Collector != nil {
			h.Collector.RecordStreamFrame()
		}
	}

	totalLatency := time.Since(startTime)
	var firstFrameLatency time.Duration
	if !firstFrameTime.IsZero() {
		firstFrameLatency = firstFrameTime.Sub(startTime)
	}

	logArgs := []any{
		"request_id", requestID,
		"frames_sent", frameCount,
		"reply_length", len(stream.Text()),
		"first_frame_latency_ms", firstFrameLatency.Milliseconds(),
		"total_latency_ms", totalLatency.Milliseconds(),
	}
	if usage := stream.Usage(); usage != nil {
		logArgs = append(logArgs,
			"prompt_tokens", usage.PromptTokens,
			"completion_tokens", usage.CompletionTokens,
		)
		if h.Collector != nil {
			h.Collector.RecordTokens(usage.PromptTokens, usage.CompletionTokens)
		}
	}
	slog.InfoContext(ctx, "chat stream completed", logArgs...)
}
