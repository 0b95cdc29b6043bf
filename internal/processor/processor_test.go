package processor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textstitch/textstitch/pkg/types"
)

func TestNew_InvalidTokenizer(t *testing.T) {
	cfg := types.DefaultProcessingConfig()
	cfg.Tokenizer = "gpt-nonsense"

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnknownTokenizer))
}

func TestNew_InvalidChunkingConfig(t *testing.T) {
	cfg := types.DefaultProcessingConfig()
	cfg.Chunking.Method = "bogus"

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidConfig))
}

func TestProcess_EmptyInput(t *testing.T) {
	result, err := Process("", "txt", types.DefaultProcessingConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalChunks)
	assert.Equal(t, 0, result.TotalTokens)
	assert.Equal(t, 0, result.TotalCharacters)
	assert.Empty(t, result.Chunks)

	stats := result.Metadata["statistics"].(map[string]any)
	assert.Equal(t, 0.0, stats["compression_ratio"])
	assert.Equal(t, 0.0, stats["avg_tokens_per_chunk"])
}

func TestProcess_Document(t *testing.T) {
	input := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."
	cfg := types.DefaultProcessingConfig()
	cfg.Chunking.MaxTokens = 5

	result, err := Process(input, "txt", cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalChunks)
	require.Len(t, result.Chunks, 3)

	sum := 0
	for i, ch := range result.Chunks {
		assert.Equal(t, i, ch.Index)
		sum += ch.TokenCount
	}
	assert.Equal(t, sum, result.TotalTokens)
	assert.Greater(t, result.TotalCharacters, 0)
	assert.GreaterOrEqual(t, result.ProcessingTime, 0.0)

	assert.Equal(t, "txt", result.FileInfo.Format)
	assert.Equal(t, int64(len(input)), result.FileInfo.SizeBytes)
	assert.Equal(t, len(input), result.FileInfo.OriginalLength)
}

func TestProcess_EchoesResolvedConfig(t *testing.T) {
	cfg := types.DefaultProcessingConfig()
	cfg.Chunking.Method = types.MethodTokenAware
	cfg.Chunking.MaxTokens = 64
	cfg.Chunking.OverlapTokens = 8
	cfg.Tokenizer = "char-estimate"

	result, err := Process("some text to process here", "md", cfg)
	require.NoError(t, err)

	pc := result.Metadata["processing_config"].(map[string]any)
	assert.Equal(t, "char-estimate", pc["tokenizer"])
	assert.Equal(t, "token_aware", pc["chunk_method"])
	assert.Equal(t, 64, pc["max_tokens"])
	assert.Equal(t, 8, pc["overlap_tokens"])
}

func TestProcess_CodeCleaningApplied(t *testing.T) {
	input := "func a() {}\n\n\n\nfunc b() {}"

	result, err := Process(input, "go", types.DefaultProcessingConfig())
	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)

	// Code cleaning caps blank-line runs before chunking sees the text
	assert.NotContains(t, result.Chunks[0].Text, "\n\n\n")
}

func TestProcess_StatisticsConsistency(t *testing.T) {
	input := "Alpha beta gamma. Delta epsilon zeta. Eta theta iota kappa."
	cfg := types.DefaultProcessingConfig()
	cfg.Chunking.Method = types.MethodSentence
	cfg.Chunking.MaxTokens = 5

	result, err := Process(input, "txt", cfg)
	require.NoError(t, err)
	require.Greater(t, result.TotalChunks, 1)

	stats := result.Metadata["statistics"].(map[string]any)
	avgTokens := stats["avg_tokens_per_chunk"].(float64)
	assert.InDelta(t, float64(result.TotalTokens)/float64(result.TotalChunks), avgTokens, 1e-9)

	compression := stats["compression_ratio"].(float64)
	assert.Greater(t, compression, 0.0)
	assert.LessOrEqual(t, compression, 1.0)
}

func TestProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("One paragraph of text."), 0o644))

	p, err := New(types.DefaultProcessingConfig())
	require.NoError(t, err)

	result, err := p.ProcessFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sample.txt", result.FileInfo.Filename)
	assert.Equal(t, "txt", result.FileInfo.Format)
	assert.Equal(t, int64(22), result.FileInfo.SizeBytes)
	assert.Equal(t, 1, result.TotalChunks)
}

func TestProcessFile_Missing(t *testing.T) {
	p, err := New(types.DefaultProcessingConfig())
	require.NoError(t, err)

	_, err = p.ProcessFile(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processing failed")
}
