package tokens

import (
	"strings"
	"testing"

	"parley-hq/parley/pkg/providers"
)

func TestEstimateText(t *testing.T) {
	e := NewEstimator(4.0)

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty text", "", 0},
		{"single character rounds up to one", "a", 1},
		{"four characters", "abcd", 1},
		{"eight characters", "abcdefgh", 2},
		{"rounding", strings.Repeat("a", 10), 3}, // 2.5 rounds to 3
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.EstimateText(tt.text); got != tt.want {
				t.Errorf("EstimateText(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateMessages(t *testing.T) {
	e := NewEstimator(4.0)

	if got := e.EstimateMessages(nil); got != 0 {
		t.Errorf("EstimateMessages(nil) = %d, want 0", got)
	}

	// 8 chars -> 2 tokens, 4 chars -> 1 token
	messages := []providers.Message{
		{Role: providers.RoleUser, Content: "abcdefgh"},
		{Role: providers.RoleAssistant, Content: "abcd"},
	}

	// 3 conversation overhead + 2*(4 message overhead) + 2 + 1
	want := 3 + 8 + 3
	if got := e.EstimateMessages(messages); got != want {
		t.Errorf("EstimateMessages = %d, want %d", got, want)
	}
}

func TestNewEstimatorDefault(t *testing.T) {
	e := NewEstimator(0)
	if e.charsPerToken != defaultCharsPerToken {
		t.Errorf("charsPerToken = %v, want %v", e.charsPerToken, defaultCharsPerToken)
	}
}
