package tokenizer

import (
	"fmt"
	"strings"

	"github.com/textstitch/textstitch/pkg/types"
)

// New resolves a tokenizer selector to an estimator. An empty name
// selects the word-estimate default; unknown names are a configuration
// error. This is the seam where a real subword tokenizer plugs in
// without touching chunking logic.
func New(name string) (Estimator, error) {
	switch strings.ToLower(name) {
	case "", ProviderWordEstimate:
		return NewWordEstimator(), nil
	case ProviderCharEstimate:
		return NewCharEstimator(), nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownTokenizer, name)
	}
}

// Available returns the names of all registered estimators
func Available() []string {
	return []string{ProviderWordEstimate, ProviderCharEstimate}
}
