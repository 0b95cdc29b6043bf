package tokenizer

// Estimator approximates the token count a subword tokenizer would
// produce for a piece of text. Implementations must be pure and safe
// for concurrent use.
type Estimator interface {
	// Estimate returns a non-negative token count for the text
	Estimate(text string) int

	// Name returns the provider name used in configuration and metadata
	Name() string
}
