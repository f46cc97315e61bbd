package chat

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"parley-hq/parley/pkg/conversation"
	"parley-hq/parley/pkg/providers"
	"parley-hq/parley/pkg/tokens"
)

// Frame is the payload of one SSE frame sent to the client.
type Frame struct {
	// Text is the incremental completion text carried by this frame.
	Text string `json:"text"`
}

// Config contains chat service configuration.
type Config struct {
	// Model is the model identifier passed to the provider.
	Model string

	// MaxTokens is the completion token budget per request.
	MaxTokens int

	// RequestTimeout bounds a single provider call including streaming.
	// Zero means no deadline beyond the caller's context.
	RequestTimeout time.Duration
}

// Service orchestrates the chat flow: validate, record the user message,
// forward the bounded history to the provider, and relay the reply.
type Service struct {
	provider  providers.Provider
	buffer    *conversation.Buffer
	validator *Validator
	estimator *tokens.Estimator
	config    Config
}

// NewService creates a chat service around the given provider and buffer.
func NewService(provider providers.Provider, buffer *conversation.Buffer, validator *Validator, cfg Config) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &Service{
		provider:  provider,
		buffer:    buffer,
		validator: validator,
		estimator: tokens.NewEstimator(0),
		config:    cfg,
	}
}

// Buffer returns the underlying conversation buffer.
func (s *Service) Buffer() *conversation.Buffer {
	return s.buffer
}

// Clear empties the conversation history.
func (s *Service) Clear() {
	s.buffer.Clear()
}

// Send validates the raw user message, records it, and opens a streaming
// completion over the current conversation history.
//
// The returned Stream must be drained by calling Next until it reports
// io.EOF; the full assistant reply is committed to the buffer only when the
// stream ends normally.
func (s *Service) Send(ctx context.Context, raw string) (*Stream, error) {
	message, err := s.validator.Validate(raw)
	if err != nil {
		return nil, err
	}

	s.buffer.Add(providers.RoleUser, message)
	history := alignHistory(s.buffer.History())

	slog.InfoContext(ctx, "opening completion stream",
		"model", s.config.Model,
		"messages", len(history),
		"prompt_tokens_est", s.estimator.EstimateMessages(history),
	)

	if s.config.RequestTimeout > 0 {
		// The cancel func travels with the stream; it fires when the
		// stream is closed or finishes.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		stream, err := s.openStream(ctx, history)
		if err != nil {
			cancel()
			return nil, err
		}
		stream.cancel = cancel
		return stream, nil
	}

	return s.openStream(ctx, history)
}

// alignHistory drops any leading assistant messages left over when trimming
// removed the user half of an old exchange. The provider requires the first
// message to be from the user.
func alignHistory(history []providers.Message) []providers.Message {
	for len(history) > 0 && history[0].Role == providers.RoleAssistant {
		history = history[1:]
	}
	return history
}

// openStream starts the provider stream for the given history.
func (s *Service) openStream(ctx context.Context, history []providers.Message) (*Stream, error) {
	chunks, err := s.provider.StreamCompletion(ctx, &providers.CompletionRequest{
		Model:     s.config.Model,
		Messages:  history,
		MaxTokens: s.config.MaxTokens,
		Stream:    true,
	})
	if err != nil {
		return nil, err
	}

	return &Stream{
		chunks: chunks,
		buffer: s.buffer,
	}, nil
}

// Complete validates the raw user message and runs a non-streaming
// completion, committing both sides of the exchange to the buffer.
func (s *Service) Complete(ctx context.Context, raw string) (*providers.CompletionResponse, error) {
	message, err := s.validator.Validate(raw)
	if err != nil {
		return nil, err
	}

	s.buffer.Add(providers.RoleUser, message)

	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	resp, err := s.provider.SendCompletion(ctx, &providers.CompletionRequest{
		Model:     s.config.Model,
		Messages:  alignHistory(s.buffer.History()),
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	s.buffer.Add(providers.RoleAssistant, resp.Content)
	return resp, nil
}

// Stream relays provider chunks as client frames.
//
// It is a finite, non-restartable sequence: the transport layer pulls frames
// with Next until io.EOF. The stream accumulates the full completion text
// and commits it to the conversation buffer as one assistant message when
// the provider signals normal termination. A mid-stream error or caller
// cancellation aborts the stream without committing a partial reply.
type Stream struct {
	chunks <-chan *providers.StreamChunk
	buffer *conversation.Buffer
	cancel context.CancelFunc

	text      strings.Builder
	usage     *providers.TokenUsage
	done      bool
	committed bool
}

// Next returns the next frame.
//
// It returns io.EOF when the provider stream ends normally, after committing
// the accumulated assistant message. Any other error means the stream failed
// and nothing was committed; the error should propagate so the transport
// terminates the connection.
func (st *Stream) Next(ctx context.Context) (Frame, error) {
	if st.done {
		return Frame{}, io.EOF
	}

	for {
		select {
		case <-ctx.Done():
			st.finish(false)
			return Frame{}, ctx.Err()

		case chunk, ok := <-st.chunks:
			if !ok {
				st.finish(true)
				return Frame{}, io.EOF
			}

			if chunk.Error != nil {
				st.finish(false)
				return Frame{}, chunk.Error
			}

			if chunk.Usage != nil {
				st.usage = chunk.Usage
			}

			// Only text deltas produce frames
			if chunk.Delta == "" {
				continue
			}

			st.text.WriteString(chunk.Delta)
			return Frame{Text: chunk.Delta}, nil
		}
	}
}

// Usage returns the token usage reported by the provider, if any.
// Only meaningful after Next has returned io.EOF.
func (st *Stream) Usage() *providers.TokenUsage {
	return st.usage
}

// Text returns the completion text accumulated so far.
func (st *Stream) Text() string {
	return st.text.String()
}

// Close aborts the stream without committing. It is safe to call after
// normal termination, where it only releases the request context.
func (st *Stream) Close() {
	st.finish(false)
}

// finish marks the stream done and, on normal termination, commits the
// accumulated text as one assistant message.
func (st *Stream) finish(commit bool) {
	if st.cancel != nil {
		st.cancel()
	}
	if st.done {
		return
	}
	st.done = true

	if commit && !st.committed {
		st.committed = true
		reply := st.text.String()
		st.buffer.Add(providers.RoleAssistant, reply)
		slog.Debug("committed assistant reply", "length", len(reply))
	}
}
