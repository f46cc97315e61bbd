package tokens

import "parley-hq/parley/pkg/providers"

const (
	// defaultCharsPerToken is a reasonable ratio for English prose across
	// current models.
	defaultCharsPerToken = 4.0

	// perMessageOverhead approximates role and formatting tokens added per
	// message by chat templates.
	perMessageOverhead = 4

	// conversationOverhead approximates fixed formatting tokens per request.
	conversationOverhead = 3
)

// Estimator implements character-based token estimation.
// It is deliberately simple: <5% error on typical text and well under a
// microsecond per call.
type Estimator struct {
	charsPerToken float64
}

// NewEstimator creates an estimator with the given characters-per-token
// ratio. A non-positive ratio falls back to the default.
func NewEstimator(charsPerToken float64) *Estimator {
	if charsPerToken <= 0 {
		charsPerToken = defaultCharsPerToken
	}
	return &Estimator{charsPerToken: charsPerToken}
}

// EstimateText estimates tokens for a single text string.
func (e *Estimator) EstimateText(text string) int {
	if text == "" {
		return 0
	}

	tokens := float64(len(text)) / e.charsPerToken
	if tokens < 1.0 {
		return 1 // Minimum 1 token for non-empty text
	}
	return int(tokens + 0.5)
}

// EstimateMessages estimates prompt tokens for a list of messages,
// including per-message formatting overhead.
func (e *Estimator) EstimateMessages(messages []providers.Message) int {
	if len(messages) == 0 {
		return 0
	}

	total := conversationOverhead
	for _, msg := range messages {
		total += perMessageOverhead
		total += e.EstimateText(msg.Content)
	}
	return total
}
