package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"parley-hq/parley/pkg/providers"
)

// errStreamDone signals normal stream termination to the reading goroutine.
var errStreamDone = errors.New("stream done")

// streamReader reads server-sent events from Anthropic's streaming API.
type streamReader struct {
	provider *providers.HTTPProvider
	body     io.ReadCloser
	scanner  *bufio.Scanner
	state    *streamState
	closed   bool
}

// newStreamReader opens the streaming request and returns a reader over its
// SSE event stream.
func newStreamReader(ctx context.Context, provider *providers.HTTPProvider, url string, req *messagesRequest, headers map[string]string) (*streamReader, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := provider.DoRequest(ctx, "POST", url, bodyBytes, headers)
	if err != nil {
		return nil, err
	}

	return &streamReader{
		provider: provider,
		body:     resp.Body,
		scanner:  bufio.NewScanner(resp.Body),
		state:    &streamState{},
	}, nil
}

// Read returns the next chunk from the stream.
// Returns nil, errStreamDone when the stream ends normally (message_stop or
// upstream EOF). Returns nil, error if reading or parsing fails.
func (s *streamReader) Read(ctx context.Context) (*providers.StreamChunk, error) {
	if s.closed {
		return nil, errStreamDone
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		event, err := s.readEvent()
		if err != nil {
			if err == io.EOF {
				return nil, errStreamDone
			}
			return nil, &providers.StreamError{
				Provider: s.provider.GetName(),
				Message:  "failed to read stream",
				Cause:    err,
			}
		}

		if event == nil {
			continue
		}

		if event.Type == "message_stop" {
			return nil, errStreamDone
		}

		chunk, err := transformStreamEvent(event, s.state)
		if err != nil {
			return nil, &providers.ParseError{
				Provider: s.provider.GetName(),
				Cause:    err,
			}
		}

		// Some events carry no text and produce no chunk
		if chunk == nil {
			continue
		}

		return chunk, nil
	}
}

// readEvent reads one complete SSE event (terminated by a blank line).
func (s *streamReader) readEvent() (*streamEvent, error) {
	var eventType string
	var dataLines []string

	for s.scanner.Scan() {
		line := s.scanner.Text()

		// Empty line marks end of event
		if line == "" {
			if eventType != "" || len(dataLines) > 0 {
				break
			}
			continue
		}

		if strings.HasPrefix(line, "event: ") {
			eventType = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		}
		// Ignore other SSE fields (id, retry)
	}

	if err := s.scanner.Err(); err != nil {
		return nil, err
	}

	if eventType == "" && len(dataLines) == 0 {
		return nil, io.EOF
	}

	var event streamEvent
	if len(dataLines) > 0 {
		data := strings.Join(dataLines, "\n")
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return nil, &providers.ParseError{
				Provider:    s.provider.GetName(),
				RawResponse: data,
				Cause:       fmt.Errorf("failed to parse stream event: %w", err),
			}
		}
	}

	if eventType != "" && event.Type == "" {
		event.Type = eventType
	}

	return &event, nil
}

// Close closes the stream and releases the response body.
func (s *streamReader) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
