package types

import "errors"

// ContentType classifies input text for cleaning purposes
type ContentType string

const (
	ContentCode     ContentType = "code"
	ContentDocument ContentType = "document"
	ContentData     ContentType = "data"
)

// Chunk represents one token-bounded unit of output text
type Chunk struct {
	// Content
	Text       string `json:"text"`
	TokenCount int    `json:"token_count"`

	// Location: character offsets into the cleaned input text.
	// Best-effort once cleaning has reflowed whitespace; consecutive
	// chunks have non-decreasing start positions.
	StartPosition int `json:"start_position"`
	EndPosition   int `json:"end_position"`

	// Index is the zero-based emission order, contiguous with no gaps
	Index int `json:"chunk_index"`

	// Metadata records the method used, configured limits, and
	// word/character counts. Never nil.
	Metadata map[string]any `json:"metadata"`
}

// Validate checks structural invariants of the chunk
func (c *Chunk) Validate() error {
	if c.Text == "" {
		return errors.New("chunk text cannot be empty")
	}

	if c.Index < 0 {
		return errors.New("chunk index must be non-negative")
	}

	if c.TokenCount < 0 {
		return errors.New("token count must be non-negative")
	}

	if c.StartPosition < 0 || c.EndPosition < c.StartPosition {
		return errors.New("chunk positions must be ordered and non-negative")
	}

	if c.Metadata == nil {
		return errors.New("chunk metadata must be present")
	}

	return nil
}
