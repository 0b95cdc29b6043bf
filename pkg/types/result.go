package types

// FileInfo describes the input that produced a processing result
type FileInfo struct {
	Filename       string `json:"filename"`
	Format         string `json:"format"`
	SizeBytes      int64  `json:"size_bytes"`
	OriginalLength int    `json:"original_length"`
}

// ProcessingResult is the output of one end-to-end processing run.
// Results are created fresh per call and immutable once returned;
// persistence is the storage layer's concern.
type ProcessingResult struct {
	Chunks []Chunk `json:"chunks"`

	TotalChunks     int `json:"total_chunks"`
	TotalTokens     int `json:"total_tokens"`
	TotalCharacters int `json:"total_characters"`

	// ProcessingTime is wall-clock seconds for the whole run
	ProcessingTime float64 `json:"processing_time"`

	FileInfo FileInfo `json:"file_info"`

	// Metadata echoes the resolved configuration and derived statistics
	Metadata map[string]any `json:"metadata"`
}

// Validate checks aggregate invariants of the result
func (r *ProcessingResult) Validate() error {
	if r.TotalChunks != len(r.Chunks) {
		return ErrChunkCountMismatch
	}

	for i := range r.Chunks {
		if r.Chunks[i].Index != i {
			return ErrChunkIndexGap
		}
		if err := r.Chunks[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}
