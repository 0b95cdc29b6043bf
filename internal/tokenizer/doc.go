// Package tokenizer provides pluggable token-count estimation.
//
// The chunker never hard-codes an estimation strategy; callers resolve
// a selector string through New and pass the resulting Estimator down.
// Two heuristic providers ship built in: word-estimate (words x 1.3)
// and char-estimate (runes / 4). An exact subword tokenizer can be
// added as a third provider without changing any chunking code.
package tokenizer
