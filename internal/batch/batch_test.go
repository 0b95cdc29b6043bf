package batch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textstitch/textstitch/internal/logging"
	"github.com/textstitch/textstitch/internal/processor"
	"github.com/textstitch/textstitch/internal/storage"
	"github.com/textstitch/textstitch/pkg/types"
)

func newTestRunner(t *testing.T) (*Runner, *storage.SQLiteStore) {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	p, err := processor.New(types.DefaultProcessingConfig())
	require.NoError(t, err)

	return New(p, store, logging.New(io.Discard, "error", false)), store
}

func writeFiles(t *testing.T, dir string, files map[string]string) []string {
	t.Helper()
	paths := make([]string, 0, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestProcessFiles(t *testing.T) {
	runner, store := newTestRunner(t)
	dir := t.TempDir()

	paths := writeFiles(t, dir, map[string]string{
		"a.txt": "First document text.",
		"b.txt": "Second document.\n\nWith two paragraphs.",
		"c.md":  "Third document text here.",
	})

	stats, err := runner.ProcessFiles(context.Background(), paths, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.FilesProcessed)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.Greater(t, stats.ChunksCreated, int64(0))
	assert.Greater(t, stats.TokensCounted, int64(0))
	assert.Empty(t, stats.ErrorMessages)
	require.Len(t, stats.ResultIDs, 3)

	// Every result landed in storage, and the 64-bit batch tallies are
	// exactly the per-result sums
	var wantChunks, wantTokens int64
	for _, id := range stats.ResultIDs {
		stored, err := store.GetResult(context.Background(), id)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.Result.Chunks)
		wantChunks += int64(stored.Result.TotalChunks)
		wantTokens += int64(stored.Result.TotalTokens)
	}
	assert.Equal(t, wantChunks, stats.ChunksCreated)
	assert.Equal(t, wantTokens, stats.TokensCounted)
}

func TestProcessFiles_PartialFailure(t *testing.T) {
	runner, _ := newTestRunner(t)
	dir := t.TempDir()

	paths := writeFiles(t, dir, map[string]string{"good.txt": "Some text."})
	paths = append(paths, filepath.Join(dir, "missing.txt"))

	stats, err := runner.ProcessFiles(context.Background(), paths, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesProcessed)
	assert.Equal(t, 1, stats.FilesFailed)
	require.Len(t, stats.ErrorMessages, 1)
	assert.Contains(t, stats.ErrorMessages[0], "missing.txt")
}

func TestProcessFiles_Cancelled(t *testing.T) {
	runner, _ := newTestRunner(t)
	dir := t.TempDir()
	paths := writeFiles(t, dir, map[string]string{"a.txt": "text"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.ProcessFiles(ctx, paths, &Config{Workers: 1})
	// Either the worker saw the cancelled context or finished first;
	// both are acceptable, but an error must be the context's.
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestProcessDirectory_ExtensionFilter(t *testing.T) {
	runner, _ := newTestRunner(t)
	dir := t.TempDir()

	writeFiles(t, dir, map[string]string{
		"keep.txt":       "Text file.",
		"keep.md":        "Markdown file.",
		"skip.bin":       "binary-ish",
		"nested/deep.md": "Nested markdown.",
		".hidden/x.txt":  "Inside hidden dir.",
	})

	stats, err := runner.ProcessDirectory(context.Background(), dir, &Config{
		Extensions: []string{".txt", "md"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.FilesProcessed)
	assert.Equal(t, 0, stats.FilesFailed)
}

func TestProcessFiles_NoStore(t *testing.T) {
	p, err := processor.New(types.DefaultProcessingConfig())
	require.NoError(t, err)
	runner := New(p, nil, logging.New(io.Discard, "error", false))

	dir := t.TempDir()
	paths := writeFiles(t, dir, map[string]string{"a.txt": "Dry run text."})

	stats, err := runner.ProcessFiles(context.Background(), paths, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesProcessed)
	assert.Empty(t, stats.ResultIDs)
}

func TestProcessFiles_Empty(t *testing.T) {
	runner, _ := newTestRunner(t)

	stats, err := runner.ProcessFiles(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesProcessed)
	assert.Equal(t, 0, stats.FilesFailed)
}
