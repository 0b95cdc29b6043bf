package types

import "fmt"

// ChunkingMethod selects the splitting strategy used by the chunker
type ChunkingMethod string

const (
	// MethodParagraph splits on blank-line boundaries
	MethodParagraph ChunkingMethod = "paragraph"
	// MethodSentence splits on sentence-ending punctuation
	MethodSentence ChunkingMethod = "sentence"
	// MethodCustom splits on a caller-supplied literal delimiter
	MethodCustom ChunkingMethod = "custom"
	// MethodTokenAware uses a word-level sliding window with optional overlap
	MethodTokenAware ChunkingMethod = "token_aware"
)

// Valid reports whether the method is one of the four known strategies
func (m ChunkingMethod) Valid() bool {
	switch m {
	case MethodParagraph, MethodSentence, MethodCustom, MethodTokenAware:
		return true
	default:
		return false
	}
}

const (
	// DefaultMaxTokens is the default per-chunk token budget
	DefaultMaxTokens = 1024
	// DefaultMinChunkSize is the advisory lower bound on chunk tokens
	DefaultMinChunkSize = 50
)

// ChunkingConfig configures a single chunking call. It is treated as
// immutable once handed to the chunker.
type ChunkingConfig struct {
	Method        ChunkingMethod `json:"method" toml:"method"`
	MaxTokens     int            `json:"max_tokens" toml:"max_tokens"`
	OverlapTokens int            `json:"overlap_tokens" toml:"overlap_tokens"`

	// CustomDelimiter is required when Method is MethodCustom
	CustomDelimiter string `json:"custom_delimiter,omitempty" toml:"custom_delimiter"`

	// MinChunkSize is advisory and not enforced as a hard error
	MinChunkSize int `json:"min_chunk_size,omitempty" toml:"min_chunk_size"`
}

// DefaultChunkingConfig returns the paragraph-method defaults
func DefaultChunkingConfig() ChunkingConfig {
	return ChunkingConfig{
		Method:       MethodParagraph,
		MaxTokens:    DefaultMaxTokens,
		MinChunkSize: DefaultMinChunkSize,
	}
}

// Validate rejects unknown methods, non-positive budgets, negative
// overlap, and the custom method without a delimiter. It runs before
// any chunking work proceeds.
func (c ChunkingConfig) Validate() error {
	if !c.Method.Valid() {
		return fmt.Errorf("%w: unknown chunking method %q", ErrInvalidConfig, string(c.Method))
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive, got %d", ErrInvalidConfig, c.MaxTokens)
	}

	if c.OverlapTokens < 0 {
		return fmt.Errorf("%w: overlap_tokens must be non-negative, got %d", ErrInvalidConfig, c.OverlapTokens)
	}

	if c.Method == MethodCustom && c.CustomDelimiter == "" {
		return fmt.Errorf("%w: custom method requires a delimiter", ErrInvalidConfig)
	}

	return nil
}

// ProcessingConfig composes cleaning flags, a chunking configuration,
// and a tokenizer selector for one end-to-end processing run.
type ProcessingConfig struct {
	// Cleaning flags, all default on; only the document path honors them
	RemoveHeaders       bool `json:"remove_headers" toml:"remove_headers"`
	NormalizeWhitespace bool `json:"normalize_whitespace" toml:"normalize_whitespace"`
	StripBullets        bool `json:"strip_bullets" toml:"strip_bullets"`

	Chunking ChunkingConfig `json:"chunking" toml:"chunking"`

	// Tokenizer names the estimator resolved by the tokenizer factory
	Tokenizer string `json:"tokenizer" toml:"tokenizer"`
}

// DefaultProcessingConfig returns the standard configuration used when
// the caller supplies no overrides.
func DefaultProcessingConfig() ProcessingConfig {
	return ProcessingConfig{
		RemoveHeaders:       true,
		NormalizeWhitespace: true,
		StripBullets:        true,
		Chunking:            DefaultChunkingConfig(),
		Tokenizer:           "word-estimate",
	}
}

// Validate checks the chunking sub-configuration
func (c ProcessingConfig) Validate() error {
	return c.Chunking.Validate()
}
