package conversation

import (
	"log/slog"
	"sync"

	"parley-hq/parley/pkg/providers"
)

// DefaultMaxMessages is the default context window size.
const DefaultMaxMessages = 10

// Buffer is a bounded, ordered, in-memory conversation history.
//
// All methods are safe for concurrent use; the HTTP layer may serve
// overlapping requests that read and append to the same buffer.
type Buffer struct {
	mu       sync.Mutex
	messages []providers.Message
	max      int
}

// NewBuffer creates a buffer that retains at most max messages.
// A max of zero or less falls back to DefaultMaxMessages.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = DefaultMaxMessages
	}
	return &Buffer{max: max}
}

// Add appends a message and trims the oldest entries if the buffer now
// exceeds its maximum. Role and content are stored as given; validation is
// the caller's responsibility.
func (b *Buffer) Add(role, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = append(b.messages, providers.Message{Role: role, Content: content})

	if over := len(b.messages) - b.max; over > 0 {
		b.messages = b.messages[over:]
		slog.Debug("trimmed conversation history",
			"removed", over,
			"retained", len(b.messages),
		)
	}
}

// History returns a copy of the current conversation, oldest first.
// Mutating the returned slice does not affect the buffer.
func (b *Buffer) History() []providers.Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]providers.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	cleared := len(b.messages)
	b.messages = nil
	slog.Debug("cleared conversation history", "removed", cleared)
}

// Len returns the current number of messages.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}

// Max returns the configured maximum number of messages.
func (b *Buffer) Max() int {
	return b.max
}
