// Package types provides shared type definitions for the TextStitch
// processing pipeline.
//
// The core value types flow one-directionally through the pipeline:
// raw text plus a file extension are classified into a ContentType,
// cleaned, and split into Chunk values according to a ChunkingConfig,
// with the aggregate collected into a ProcessingResult.
//
// # Chunks
//
// A Chunk is one token-bounded unit of output text:
//
//	chunk := types.Chunk{
//	    Text:       "First paragraph.\n\nSecond paragraph.",
//	    TokenCount: 5,
//	    Index:      0,
//	    Metadata:   map[string]any{"method": "paragraph"},
//	}
//
// Positions are character offsets into the cleaned input and are
// best-effort: when document cleaning has reflowed whitespace the exact
// substring may no longer exist, and the chunker falls back to a
// running hint offset rather than failing.
//
// # Configuration
//
// ChunkingConfig selects one of four closed strategies. Invalid methods
// and a custom method without a delimiter are rejected by Validate
// before any chunking work happens:
//
//	cfg := types.DefaultChunkingConfig()
//	cfg.Method = types.MethodTokenAware
//	cfg.MaxTokens = 512
//	cfg.OverlapTokens = 64
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// ProcessingConfig wraps a ChunkingConfig with cleaning flags and a
// tokenizer selector for orchestrated runs.
package types
