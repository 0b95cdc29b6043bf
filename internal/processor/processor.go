package processor

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/textstitch/textstitch/internal/chunker"
	"github.com/textstitch/textstitch/internal/classifier"
	"github.com/textstitch/textstitch/internal/cleaner"
	"github.com/textstitch/textstitch/internal/extractor"
	"github.com/textstitch/textstitch/internal/tokenizer"
	"github.com/textstitch/textstitch/pkg/types"
)

// Processor runs the full text pipeline: classify the content type,
// clean, chunk, and assemble statistics. A Processor holds resolved
// configuration and is safe for concurrent use.
type Processor struct {
	cfg types.ProcessingConfig
	est tokenizer.Estimator
}

// New creates a Processor. The tokenizer name and chunking
// configuration are validated here so every later Process call starts
// from a known-good setup.
func New(cfg types.ProcessingConfig) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	est, err := tokenizer.New(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}
	return &Processor{cfg: cfg, est: est}, nil
}

// Process runs one end-to-end pass over raw text. The extension
// selects the cleaning profile; it may be empty, in which case the
// text is treated as a document. Empty input is not an error and
// yields a result with zero chunks.
func Process(text, extension string, cfg types.ProcessingConfig) (*types.ProcessingResult, error) {
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return p.Process(text, extension)
}

// Process runs the pipeline over raw text using the Processor's
// configuration.
func (p *Processor) Process(text, extension string) (*types.ProcessingResult, error) {
	start := time.Now()

	contentType := classifier.Classify(extension)

	cleaned := cleaner.Clean(text, contentType, cleaner.Options{
		RemoveHeaders:       p.cfg.RemoveHeaders,
		NormalizeWhitespace: p.cfg.NormalizeWhitespace,
		StripBullets:        p.cfg.StripBullets,
	})

	chunks, err := chunker.Chunk(cleaned, p.cfg.Chunking, p.est)
	if err != nil {
		return nil, fmt.Errorf("processing failed: %w", err)
	}

	result := p.buildResult(chunks, text, extension, time.Since(start))
	return result, nil
}

// ProcessFile extracts text from the file at path and runs the
// pipeline over it. The result's file info reflects the source file
// rather than the raw-text defaults.
func (p *Processor) ProcessFile(path string) (*types.ProcessingResult, error) {
	doc, err := extractor.ExtractFile(path)
	if err != nil {
		return nil, fmt.Errorf("processing failed: %w", err)
	}

	result, err := p.Process(doc.Text, doc.Format)
	if err != nil {
		return nil, err
	}

	result.FileInfo.Filename = doc.Filename
	result.FileInfo.SizeBytes = doc.SizeBytes
	return result, nil
}

func (p *Processor) buildResult(chunks []types.Chunk, original, extension string, elapsed time.Duration) *types.ProcessingResult {
	totalTokens := 0
	totalChars := 0
	for _, ch := range chunks {
		totalTokens += ch.TokenCount
		totalChars += utf8.RuneCountInString(ch.Text)
	}

	originalLen := utf8.RuneCountInString(original)

	var avgTokens, avgChars, compression float64
	if len(chunks) > 0 {
		avgTokens = float64(totalTokens) / float64(len(chunks))
		avgChars = float64(totalChars) / float64(len(chunks))
	}
	if originalLen > 0 {
		compression = float64(totalChars) / float64(originalLen)
	}

	return &types.ProcessingResult{
		Chunks:          chunks,
		TotalChunks:     len(chunks),
		TotalTokens:     totalTokens,
		TotalCharacters: totalChars,
		ProcessingTime:  elapsed.Seconds(),
		FileInfo: types.FileInfo{
			Format:         classifier.Normalize(extension),
			SizeBytes:      int64(len(original)),
			OriginalLength: originalLen,
		},
		Metadata: map[string]any{
			"processing_config": map[string]any{
				"tokenizer":      p.est.Name(),
				"chunk_method":   string(p.cfg.Chunking.Method),
				"max_tokens":     p.cfg.Chunking.MaxTokens,
				"overlap_tokens": p.cfg.Chunking.OverlapTokens,
			},
			"statistics": map[string]any{
				"avg_tokens_per_chunk": avgTokens,
				"avg_chars_per_chunk":  avgChars,
				"compression_ratio":    compression,
			},
		},
	}
}
