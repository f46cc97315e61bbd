package anthropic

import (
	"fmt"

	"parley-hq/parley/pkg/providers"
)

// Anthropic API request/response types

// messagesRequest represents an Anthropic messages request.
type messagesRequest struct {
	Model     string           `json:"model"`
	Messages  []vendorMessage  `json:"messages"`
	MaxTokens int              `json:"max_tokens"`
	Stream    bool             `json:"stream,omitempty"`
}

// vendorMessage represents a message in Anthropic format.
type vendorMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// contentBlock represents a content block in Anthropic format.
type contentBlock struct {
	Type string `json:"type"` // "text"
	Text string `json:"text,omitempty"`
}

// messagesResponse represents an Anthropic messages response.
type messagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []contentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      vendorUsage    `json:"usage"`
}

// vendorUsage represents token usage in Anthropic format.
type vendorUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// streamEvent represents an event in Anthropic's SSE stream.
type streamEvent struct {
	Type string `json:"type"`

	// For message_start events
	Message *messagesResponse `json:"message,omitempty"`

	// For content_block_delta and message_delta events
	Delta *eventDelta `json:"delta,omitempty"`

	// For message_delta events
	Usage *vendorUsage `json:"usage,omitempty"`
}

// eventDelta carries the delta payload of a stream event. The same JSON key
// is used for both text deltas and message-level deltas, so the fields of
// both shapes are merged here.
type eventDelta struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

// transformRequest transforms a provider-agnostic request to Anthropic format.
func transformRequest(req *providers.CompletionRequest) (*messagesRequest, error) {
	vendorReq := &messagesRequest{
		Model:     req.Model,
		Messages:  make([]vendorMessage, 0, len(req.Messages)),
		MaxTokens: req.MaxTokens,
		Stream:    req.Stream,
	}

	// max_tokens is required by Anthropic
	if vendorReq.MaxTokens == 0 {
		vendorReq.MaxTokens = 1024
	}

	for _, msg := range req.Messages {
		vendorReq.Messages = append(vendorReq.Messages, vendorMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	if err := validateMessageSequence(vendorReq.Messages); err != nil {
		return nil, err
	}

	return vendorReq, nil
}

// validateMessageSequence validates that the conversation starts with a user
// message, which Anthropic requires.
func validateMessageSequence(messages []vendorMessage) error {
	if len(messages) == 0 {
		return nil
	}

	if messages[0].Role != providers.RoleUser {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "first message must be from user (Anthropic requirement)",
		}
	}

	return nil
}

// transformResponse transforms an Anthropic response to provider-agnostic format.
func transformResponse(resp *messagesResponse) (*providers.CompletionResponse, error) {
	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      content,
		FinishReason: normalizeStopReason(resp.StopReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

// transformStreamEvent transforms an Anthropic stream event to a
// provider-agnostic chunk. Events that carry no text (message_start,
// content_block_start, content_block_stop, ping) return a nil chunk.
func transformStreamEvent(event *streamEvent, state *streamState) (*providers.StreamChunk, error) {
	switch event.Type {
	case "message_start":
		if event.Message != nil {
			state.id = event.Message.ID
			state.model = event.Message.Model
		}
		return nil, nil

	case "content_block_start", "content_block_stop", "ping":
		return nil, nil

	case "content_block_delta":
		if event.Delta != nil && event.Delta.Text != "" {
			return &providers.StreamChunk{
				ID:    state.id,
				Model: state.model,
				Delta: event.Delta.Text,
			}, nil
		}
		return nil, nil

	case "message_delta":
		// Message-level delta carries the stop reason and final usage
		chunk := &providers.StreamChunk{
			ID:    state.id,
			Model: state.model,
		}
		if event.Delta != nil {
			chunk.FinishReason = normalizeStopReason(event.Delta.StopReason)
		}
		if event.Usage != nil {
			chunk.Usage = &providers.TokenUsage{
				PromptTokens:     event.Usage.InputTokens,
				CompletionTokens: event.Usage.OutputTokens,
				TotalTokens:      event.Usage.InputTokens + event.Usage.OutputTokens,
			}
		}
		return chunk, nil

	case "message_stop":
		return nil, nil

	case "error":
		return nil, fmt.Errorf("upstream stream error event")

	default:
		// Unknown event kinds are ignored so new vendor event types don't
		// break the relay.
		return nil, nil
	}
}

// streamState tracks identity fields across stream events.
type streamState struct {
	id    string
	model string
}

// normalizeStopReason normalizes Anthropic stop reasons to provider-agnostic values.
func normalizeStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return providers.FinishReasonStop
	case "max_tokens":
		return providers.FinishReasonLength
	default:
		return reason
	}
}
