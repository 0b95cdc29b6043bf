package storage

import (
	"context"
	"time"

	"github.com/textstitch/textstitch/pkg/types"
)

// Store defines the interface for persisting processing results
type Store interface {
	// Result operations
	SaveResult(ctx context.Context, result *types.ProcessingResult) (string, error)
	GetResult(ctx context.Context, id string) (*StoredResult, error)
	ListResults(ctx context.Context, limit, offset int) ([]ResultSummary, error)
	DeleteResult(ctx context.Context, id string) error

	// Retention sweep: removes results created before cutoff and
	// returns how many were deleted
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// Chunk operations
	ListChunks(ctx context.Context, resultID string) ([]types.Chunk, error)

	// Database operations
	Close() error
}

// StoredResult is a processing result with its storage identity
type StoredResult struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Result    types.ProcessingResult `json:"result"`
}

// ResultSummary is the listing view of a stored result, without chunks
type ResultSummary struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Format      string    `json:"format"`
	TotalChunks int       `json:"total_chunks"`
	TotalTokens int       `json:"total_tokens"`
	CreatedAt   time.Time `json:"created_at"`
}
