package tokenizer

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Provider names accepted by the factory
const (
	ProviderWordEstimate = "word-estimate"
	ProviderCharEstimate = "char-estimate"
)

// wordsPerToken is the heuristic multiplier for word-based estimation;
// English prose averages roughly 1.3 subword tokens per word.
const wordTokenRatio = 1.3

// charsPerToken is the heuristic divisor for character-based estimation
const charsPerToken = 4

// WordEstimator estimates tokens from whitespace-separated word counts
type WordEstimator struct{}

// NewWordEstimator creates the word-count based estimator
func NewWordEstimator() *WordEstimator {
	return &WordEstimator{}
}

// Estimate returns round(words * 1.3), with a floor of one token for
// any text containing at least one word, and zero otherwise.
func (e *WordEstimator) Estimate(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}

	n := int(math.Round(float64(words) * wordTokenRatio))
	if n < 1 {
		return 1
	}
	return n
}

// Name returns the provider name
func (e *WordEstimator) Name() string { return ProviderWordEstimate }

// CharEstimator estimates tokens from rune counts
type CharEstimator struct{}

// NewCharEstimator creates the character-count based estimator
func NewCharEstimator() *CharEstimator {
	return &CharEstimator{}
}

// Estimate returns chars / 4, with a floor of one token for non-blank
// text and zero for empty or whitespace-only input.
func (e *CharEstimator) Estimate(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	n := utf8.RuneCountInString(text) / charsPerToken
	if n < 1 {
		return 1
	}
	return n
}

// Name returns the provider name
func (e *CharEstimator) Name() string { return ProviderCharEstimate }
