package types

import "errors"

// Domain errors shared across the processing pipeline
var (
	// ErrInvalidConfig marks configuration errors rejected before any
	// processing work proceeds
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownTokenizer is returned when a tokenizer selector does not
	// resolve to a registered estimator
	ErrUnknownTokenizer = errors.New("unknown tokenizer")

	// ErrUnsupportedFormat is returned for file formats without a reader
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Result validation errors
	ErrChunkCountMismatch = errors.New("total_chunks does not match chunk list length")
	ErrChunkIndexGap      = errors.New("chunk indices must be contiguous from zero")
)
