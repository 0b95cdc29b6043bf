// Package exporter writes stored processing results to training-ready
// dataset files: JSONL (one chunk per line), JSON (single document),
// and CSV (one row per chunk).
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/textstitch/textstitch/internal/storage"
	"github.com/textstitch/textstitch/pkg/types"
)

// ErrUnknownFormat is returned for export format names outside the
// supported set.
var ErrUnknownFormat = errors.New("unknown export format")

// Format selects an export encoding
type Format string

const (
	// FormatJSONL is one JSON object per line: a metadata header line
	// followed by one line per chunk. The common shape for training
	// pipelines.
	FormatJSONL Format = "jsonl"
	// FormatJSON is a single indented JSON document
	FormatJSON Format = "json"
	// FormatCSV is a header row plus one row per chunk
	FormatCSV Format = "csv"
)

// ParseFormat maps a user-supplied format name to a Format.
// Matching is case-insensitive; the empty string defaults to JSONL.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "jsonl":
		return FormatJSONL, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Extension returns the dotted file extension for the format, e.g.
// ".jsonl"
func (f Format) Extension() string {
	return "." + string(f)
}

// chunkRow is the per-chunk record shared by the JSONL and JSON
// encodings. Field names follow the dataset layout consumers expect.
type chunkRow struct {
	ChunkID  int            `json:"chunk_id"`
	Text     string         `json:"text"`
	Tokens   int            `json:"tokens"`
	StartPos int            `json:"start_pos"`
	EndPos   int            `json:"end_pos"`
	Metadata map[string]any `json:"metadata"`
}

type exportHeader struct {
	Filename    string    `json:"filename"`
	ResultID    string    `json:"result_id"`
	ProcessedAt time.Time `json:"processed_at"`
	TotalChunks int       `json:"total_chunks"`
	TotalTokens int       `json:"total_tokens"`
	ChunkMethod string    `json:"chunk_method"`
	Tokenizer   string    `json:"tokenizer"`
}

// Export writes stored to w in the given format
func Export(w io.Writer, stored *storage.StoredResult, format Format) error {
	if stored == nil {
		return errors.New("nil result")
	}

	switch format {
	case FormatJSONL:
		return exportJSONL(w, stored)
	case FormatJSON:
		return exportJSON(w, stored)
	case FormatCSV:
		return exportCSV(w, stored)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile exports stored to a new file at path
func WriteFile(path string, stored *storage.StoredResult, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := Export(f, stored, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func exportJSONL(w io.Writer, stored *storage.StoredResult) error {
	enc := json.NewEncoder(w)

	// Metadata header line, then one line per chunk
	header := map[string]exportHeader{"_metadata": buildHeader(stored)}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("encode metadata line: %w", err)
	}

	for _, chunk := range stored.Result.Chunks {
		if err := enc.Encode(toRow(chunk)); err != nil {
			return fmt.Errorf("encode chunk %d: %w", chunk.Index, err)
		}
	}
	return nil
}

func exportJSON(w io.Writer, stored *storage.StoredResult) error {
	rows := make([]chunkRow, 0, len(stored.Result.Chunks))
	for _, chunk := range stored.Result.Chunks {
		rows = append(rows, toRow(chunk))
	}

	doc := struct {
		Metadata exportHeader `json:"metadata"`
		Chunks   []chunkRow   `json:"chunks"`
	}{
		Metadata: buildHeader(stored),
		Chunks:   rows,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func exportCSV(w io.Writer, stored *storage.StoredResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{
		"chunk_id", "text", "tokens", "start_pos", "end_pos",
		"chunk_method", "tokenizer", "filename",
	}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	tokenizer := resultTokenizer(stored)
	for _, chunk := range stored.Result.Chunks {
		if err := cw.Write([]string{
			strconv.Itoa(chunk.Index),
			chunk.Text,
			strconv.Itoa(chunk.TokenCount),
			strconv.Itoa(chunk.StartPosition),
			strconv.Itoa(chunk.EndPosition),
			metaString(chunk.Metadata, "method"),
			tokenizer,
			stored.Result.FileInfo.Filename,
		}); err != nil {
			return fmt.Errorf("write chunk %d: %w", chunk.Index, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func buildHeader(stored *storage.StoredResult) exportHeader {
	header := exportHeader{
		Filename:    stored.Result.FileInfo.Filename,
		ResultID:    stored.ID,
		ProcessedAt: stored.CreatedAt,
		TotalChunks: stored.Result.TotalChunks,
		TotalTokens: stored.Result.TotalTokens,
		Tokenizer:   resultTokenizer(stored),
	}
	if len(stored.Result.Chunks) > 0 {
		header.ChunkMethod = metaString(stored.Result.Chunks[0].Metadata, "method")
	}
	return header
}

func toRow(chunk types.Chunk) chunkRow {
	meta := chunk.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return chunkRow{
		ChunkID:  chunk.Index,
		Text:     chunk.Text,
		Tokens:   chunk.TokenCount,
		StartPos: chunk.StartPosition,
		EndPos:   chunk.EndPosition,
		Metadata: meta,
	}
}

// resultTokenizer digs the tokenizer name out of the result's echoed
// processing config.
func resultTokenizer(stored *storage.StoredResult) string {
	pc, ok := stored.Result.Metadata["processing_config"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := pc["tokenizer"].(string)
	return name
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	s, _ := meta[key].(string)
	return s
}
