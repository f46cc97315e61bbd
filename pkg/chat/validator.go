package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation error codes returned to clients.
const (
	CodeMissingMessage    = "MISSING_MESSAGE"
	CodeMessageTooShort   = "MESSAGE_TOO_SHORT"
	CodeMessageTooLong    = "MESSAGE_TOO_LONG"
	CodeInvalidCharacters = "INVALID_CHARACTERS"
)

// Default message length bounds (post-trim).
const (
	DefaultMinMessageLength = 1
	DefaultMaxMessageLength = 10000
)

// ValidationError describes why a message was rejected. It is client-caused
// and maps to HTTP 400.
type ValidationError struct {
	// Code is the machine-readable error code.
	Code string

	// Message is the human-readable explanation.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Validator enforces message length bounds and character-set restrictions.
type Validator struct {
	minLength int
	maxLength int
}

// NewValidator creates a validator with the given post-trim length bounds.
// Non-positive bounds fall back to the defaults.
func NewValidator(minLength, maxLength int) *Validator {
	if minLength <= 0 {
		minLength = DefaultMinMessageLength
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxMessageLength
	}
	return &Validator{minLength: minLength, maxLength: maxLength}
}

// Validate checks a raw message and returns the trimmed text that should be
// stored and forwarded, or a *ValidationError.
//
// Checks run in order: presence, length bounds, NUL bytes, control
// characters. Only leading and trailing whitespace is removed; internal
// whitespace (including newlines and tabs) is preserved.
func (v *Validator) Validate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return "", &ValidationError{
			Code:    CodeMissingMessage,
			Message: "Message is required",
		}
	}

	// Length bounds count characters, not bytes
	length := utf8.RuneCountInString(trimmed)

	if length < v.minLength {
		return "", &ValidationError{
			Code:    CodeMessageTooShort,
			Message: fmt.Sprintf("Message must be at least %d characters", v.minLength),
		}
	}

	if length > v.maxLength {
		return "", &ValidationError{
			Code:    CodeMessageTooLong,
			Message: fmt.Sprintf("Message must be at most %d characters", v.maxLength),
		}
	}

	if strings.ContainsRune(trimmed, 0) {
		return "", &ValidationError{
			Code:    CodeInvalidCharacters,
			Message: "Message contains invalid characters",
		}
	}

	for _, r := range trimmed {
		if r < 0x20 && r != '\n' && r != '\t' && r != '\r' {
			return "", &ValidationError{
				Code:    CodeInvalidCharacters,
				Message: "Message contains invalid characters",
			}
		}
	}

	return trimmed, nil
}
