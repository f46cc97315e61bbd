package chat

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatorValidate(t *testing.T) {
	v := NewValidator(1, 10000)

	tests := []struct {
		name     string
		input    string
		wantText string
		wantCode string
	}{
		{
			name:     "valid message",
			input:    "Hello there",
			wantText: "Hello there",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "  Hello  ",
			wantText: "Hello",
		},
		{
			name:     "internal whitespace preserved",
			input:    "line one\nline two\ttabbed",
			wantText: "line one\nline two\ttabbed",
		},
		{
			name:     "empty message",
			input:    "",
			wantCode: CodeMissingMessage,
		},
		{
			name:     "whitespace only",
			input:    "   \n\t  ",
			wantCode: CodeMissingMessage,
		},
		{
			name:     "message at max length",
			input:    strings.Repeat("a", 10000),
			wantText: strings.Repeat("a", 10000),
		},
		{
			name:     "message over max length",
			input:    strings.Repeat("a", 10001),
			wantCode: CodeMessageTooLong,
		},
		{
			name:     "NUL byte rejected",
			input:    "hello\x00world",
			wantCode: CodeInvalidCharacters,
		},
		{
			name:     "control character rejected",
			input:    "hello\x01world",
			wantCode: CodeInvalidCharacters,
		},
		{
			name:     "escape character rejected",
			input:    "hello\x1bworld",
			wantCode: CodeInvalidCharacters,
		},
		{
			name:     "newline tab and carriage return allowed",
			input:    "a\nb\tc\rd",
			wantText: "a\nb\tc\rd",
		},
		{
			name:     "unicode text allowed",
			input:    "héllo wörld 你好",
			wantText: "héllo wörld 你好",
		},
		{
			name:     "multibyte message within character limit",
			input:    strings.Repeat("世", 4000), // 12000 bytes, 4000 characters
			wantText: strings.Repeat("世", 4000),
		},
		{
			name:     "multibyte message at max length",
			input:    strings.Repeat("世", 10000),
			wantText: strings.Repeat("世", 10000),
		},
		{
			name:     "multibyte message over max length",
			input:    strings.Repeat("世", 10001),
			wantCode: CodeMessageTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.input)

			if tt.wantCode != "" {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if validationErr.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", validationErr.Code, tt.wantCode)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestValidatorMinLength(t *testing.T) {
	v := NewValidator(5, 100)

	_, err := v.Validate("hi")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Code != CodeMessageTooShort {
		t.Errorf("code = %q, want %q", validationErr.Code, CodeMessageTooShort)
	}

	if _, err := v.Validate("hello"); err != nil {
		t.Errorf("message at min length rejected: %v", err)
	}

	// Five characters, fifteen bytes
	if _, err := v.Validate("你好世界啊"); err != nil {
		t.Errorf("multibyte message at min length rejected: %v", err)
	}
}

func TestValidatorLengthCheckedAfterTrim(t *testing.T) {
	v := NewValidator(1, 5)

	// 5 characters plus surrounding whitespace stays within bounds
	got, err := v.Validate("  abcde  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "abcde" {
		t.Errorf("text = %q, want %q", got, "abcde")
	}
}

func TestValidatorDefaults(t *testing.T) {
	v := NewValidator(0, 0)

	if v.minLength != DefaultMinMessageLength {
		t.Errorf("minLength = %d, want %d", v.minLength, DefaultMinMessageLength)
	}
	if v.maxLength != DefaultMaxMessageLength {
		t.Errorf("maxLength = %d, want %d", v.maxLength, DefaultMaxMessageLength)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Code: CodeMissingMessage, Message: "Message is required"}
	want := "MISSING_MESSAGE: Message is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
