package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textstitch/textstitch/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStore {
	// Use in-memory database for testing
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult() *types.ProcessingResult {
	return &types.ProcessingResult{
		Chunks: []types.Chunk{
			{
				Text:          "First chunk of text.",
				TokenCount:    5,
				StartPosition: 0,
				EndPosition:   20,
				Index:         0,
				Metadata:      map[string]any{"method": "paragraph"},
			},
			{
				Text:          "Second chunk of text.",
				TokenCount:    5,
				StartPosition: 22,
				EndPosition:   43,
				Index:         1,
				Metadata:      map[string]any{"method": "paragraph"},
			},
		},
		TotalChunks:     2,
		TotalTokens:     10,
		TotalCharacters: 41,
		ProcessingTime:  0.012,
		FileInfo: types.FileInfo{
			Filename:       "sample.txt",
			Format:         "txt",
			SizeBytes:      43,
			OriginalLength: 43,
		},
		Metadata: map[string]any{
			"processing_config": map[string]any{"tokenizer": "word-estimate"},
		},
	}
}

func TestNewSQLiteStore(t *testing.T) {
	store := setupTestDB(t)

	assert.NotNil(t, store)
	assert.NotNil(t, store.db)
}

func TestSaveAndGetResult(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	id, err := store.SaveResult(ctx, sampleResult())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	stored, err := store.GetResult(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, "sample.txt", stored.Result.FileInfo.Filename)
	assert.Equal(t, "txt", stored.Result.FileInfo.Format)
	assert.Equal(t, 2, stored.Result.TotalChunks)
	assert.Equal(t, 10, stored.Result.TotalTokens)
	assert.Equal(t, 41, stored.Result.TotalCharacters)
	assert.InDelta(t, 0.012, stored.Result.ProcessingTime, 1e-9)

	require.Len(t, stored.Result.Chunks, 2)
	assert.Equal(t, "First chunk of text.", stored.Result.Chunks[0].Text)
	assert.Equal(t, 0, stored.Result.Chunks[0].Index)
	assert.Equal(t, 1, stored.Result.Chunks[1].Index)
	assert.Equal(t, "paragraph", stored.Result.Chunks[0].Metadata["method"])

	pc, ok := stored.Result.Metadata["processing_config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "word-estimate", pc["tokenizer"])
}

func TestSaveResult_Nil(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.SaveResult(context.Background(), nil)
	assert.Error(t, err)
}

func TestSaveResult_NoChunks(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	result := sampleResult()
	result.Chunks = nil
	result.TotalChunks = 0

	id, err := store.SaveResult(ctx, result)
	require.NoError(t, err)

	stored, err := store.GetResult(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, stored.Result.Chunks)
	assert.Equal(t, 0, stored.Result.TotalChunks)
}

func TestGetResult_NotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.GetResult(context.Background(), "no-such-id")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListResults(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		id, err := store.SaveResult(ctx, sampleResult())
		require.NoError(t, err)
		ids[id] = true
	}

	all, err := store.ListResults(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, sm := range all {
		assert.True(t, ids[sm.ID])
		assert.Equal(t, "sample.txt", sm.Filename)
		assert.Equal(t, 2, sm.TotalChunks)
		assert.Equal(t, 10, sm.TotalTokens)
	}

	page, err := store.ListResults(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := store.ListResults(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestDeleteResult(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	id, err := store.SaveResult(ctx, sampleResult())
	require.NoError(t, err)

	require.NoError(t, store.DeleteResult(ctx, id))

	_, err = store.GetResult(ctx, id)
	assert.True(t, errors.Is(err, ErrNotFound))

	// Chunks go with the result
	chunks, err := store.ListChunks(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	// Second delete reports not found
	err = store.DeleteResult(ctx, id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteOlderThan(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	_, err := store.SaveResult(ctx, sampleResult())
	require.NoError(t, err)
	_, err = store.SaveResult(ctx, sampleResult())
	require.NoError(t, err)

	// Cutoff in the past removes nothing
	n, err := store.DeleteOlderThan(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Cutoff in the future sweeps everything
	n, err = store.DeleteOlderThan(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := store.ListResults(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMigrations_Reapply(t *testing.T) {
	store := setupTestDB(t)

	// Running migrations again on an up-to-date schema is a no-op
	err := ApplyMigrations(context.Background(), store.db)
	assert.NoError(t, err)
}
