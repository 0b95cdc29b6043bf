package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/textstitch/textstitch/internal/tokenizer"
	"github.com/textstitch/textstitch/pkg/types"
)

// Chunker splits cleaned text into token-bounded chunks using the
// strategy selected by its configuration. A Chunker is immutable and
// safe for concurrent use.
type Chunker struct {
	cfg types.ChunkingConfig
}

// New creates a Chunker, rejecting invalid configurations before any
// chunking work proceeds. Unknown methods and a custom method without
// a delimiter fail here rather than falling back silently.
func New(cfg types.ChunkingConfig) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{cfg: cfg}, nil
}

// Chunk validates the configuration and splits text in one call
func Chunk(text string, cfg types.ChunkingConfig, est tokenizer.Estimator) ([]types.Chunk, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return c.Chunk(text, est), nil
}

// Chunk splits text into an ordered list of chunks. Empty or
// whitespace-only input yields an empty list, not an error. When est
// is nil the word-estimate default is used.
func (c *Chunker) Chunk(text string, est tokenizer.Estimator) []types.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if est == nil {
		est = tokenizer.NewWordEstimator()
	}

	switch c.cfg.Method {
	case types.MethodParagraph:
		return c.combine(splitParagraphs(text), text, est, "\n\n")
	case types.MethodSentence:
		return c.combine(splitSentences(text), text, est, " ")
	case types.MethodCustom:
		return c.combine(splitDelimited(text, c.cfg.CustomDelimiter), text, est, c.cfg.CustomDelimiter)
	case types.MethodTokenAware:
		return c.chunkTokenAware(text, est)
	}

	// Unreachable: the method was validated at construction
	return nil
}

// splitParagraphs splits on blank-line boundaries
func splitParagraphs(text string) []string {
	return trimParts(strings.Split(text, "\n\n"))
}

// sentenceBoundary matches a run of sentence-ending punctuation
// followed by whitespace. Intentionally simple, not a full sentence
// tokenizer.
var sentenceBoundary = regexp.MustCompile(`([.!?]+)\s+`)

// splitSentences splits after sentence-ending punctuation, keeping the
// punctuation with the preceding sentence and dropping the whitespace.
func splitSentences(text string) []string {
	var parts []string
	last := 0
	for _, loc := range sentenceBoundary.FindAllStringSubmatchIndex(text, -1) {
		parts = append(parts, text[last:loc[3]])
		last = loc[1]
	}
	if last < len(text) {
		parts = append(parts, text[last:])
	}
	return trimParts(parts)
}

// splitDelimited splits on a literal delimiter
func splitDelimited(text, delimiter string) []string {
	return trimParts(strings.Split(text, delimiter))
}

// trimParts strips each part and drops the empty ones
func trimParts(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// combine greedily accumulates parts into chunks respecting the token
// budget. A single part whose own count exceeds the budget is never
// split further; it becomes its own over-budget chunk, since splitting
// a semantic unit is worse than one oversized chunk.
func (c *Chunker) combine(parts []string, original string, est tokenizer.Estimator, separator string) []types.Chunk {
	var chunks []types.Chunk
	var current []string
	currentTokens := 0
	hint := 0

	for _, part := range parts {
		partTokens := est.Estimate(part)

		if currentTokens+partTokens > c.cfg.MaxTokens && len(current) > 0 {
			text := strings.Join(current, separator)
			chunk := c.buildChunk(text, len(chunks), original, hint, est.Estimate(text), separator)
			chunks = append(chunks, chunk)
			hint = chunk.EndPosition
			current = nil
			currentTokens = 0
		}

		current = append(current, part)
		currentTokens += partTokens
	}

	if len(current) > 0 {
		text := strings.Join(current, separator)
		chunks = append(chunks, c.buildChunk(text, len(chunks), original, hint, est.Estimate(text), separator))
	}

	return chunks
}

// chunkTokenAware walks the whitespace-split word list with a sliding
// window, closing a chunk when the next word would exceed the budget
// and optionally seeding the next chunk with the trailing words of the
// one just closed. Words are never split.
func (c *Chunker) chunkTokenAware(text string, est tokenizer.Estimator) []types.Chunk {
	words := strings.Fields(text)

	var chunks []types.Chunk
	var current []string
	currentTokens := 0
	pos := 0

	for _, word := range words {
		wordTokens := est.Estimate(word)

		if currentTokens+wordTokens > c.cfg.MaxTokens && len(current) > 0 {
			chunkText := strings.Join(current, " ")
			// Record the accumulated per-word count so the budget the
			// window enforced is the count callers see
			chunk := c.buildChunk(chunkText, len(chunks), text, pos-len(chunkText), currentTokens, "")
			chunks = append(chunks, chunk)

			if c.cfg.OverlapTokens > 0 {
				current = c.overlapTail(current, est)
				currentTokens = 0
				for _, w := range current {
					currentTokens += est.Estimate(w)
				}
			} else {
				current = nil
				currentTokens = 0
			}
		}

		current = append(current, word)
		currentTokens += wordTokens
		pos += len(word) + 1
	}

	if len(current) > 0 {
		chunkText := strings.Join(current, " ")
		chunks = append(chunks, c.buildChunk(chunkText, len(chunks), text, pos-len(chunkText), currentTokens, ""))
	}

	return chunks
}

// overlapTail returns the trailing words whose cumulative token count
// fits within the overlap budget, walking backwards from the end and
// stopping at the first word that would exceed it.
func (c *Chunker) overlapTail(words []string, est tokenizer.Estimator) []string {
	tailStart := len(words)
	budget := 0

	for i := len(words) - 1; i >= 0; i-- {
		wordTokens := est.Estimate(words[i])
		if budget+wordTokens > c.cfg.OverlapTokens {
			break
		}
		budget += wordTokens
		tailStart = i
	}

	tail := make([]string, len(words)-tailStart)
	copy(tail, words[tailStart:])
	return tail
}

// buildChunk assembles a chunk record with its position and metadata.
// The separator is recorded only for delimiter-based methods; the
// token-aware path passes an empty string.
func (c *Chunker) buildChunk(text string, index int, original string, hint int, tokenCount int, separator string) types.Chunk {
	start := findPosition(original, text, hint)

	metadata := map[string]any{
		"method":          string(c.cfg.Method),
		"max_tokens":      c.cfg.MaxTokens,
		"overlap_tokens":  c.cfg.OverlapTokens,
		"character_count": utf8.RuneCountInString(text),
		"word_count":      len(strings.Fields(text)),
	}
	if separator != "" {
		metadata["separator"] = separator
	}

	return types.Chunk{
		Text:          text,
		TokenCount:    tokenCount,
		StartPosition: start,
		EndPosition:   start + len(text),
		Index:         index,
		Metadata:      metadata,
	}
}

// positionSearchWindow bounds the local search around the hint offset
const positionSearchWindow = 100

// findPosition locates chunkText inside the original text. It searches
// a window around the hint first, then the whole text, and finally
// falls back to the hint itself when the substring no longer exists
// (possible after whitespace reflow). Position accuracy is best-effort
// by contract; this never fails.
func findPosition(text, chunkText string, hint int) int {
	if hint < 0 {
		hint = 0
	}
	if hint > len(text) {
		hint = len(text)
	}

	lo := hint - positionSearchWindow
	if lo < 0 {
		lo = 0
	}
	hi := hint + len(chunkText) + positionSearchWindow
	if hi > len(text) {
		hi = len(text)
	}

	if idx := strings.Index(text[lo:hi], chunkText); idx >= 0 {
		return lo + idx
	}
	if idx := strings.Index(text, chunkText); idx >= 0 {
		return idx
	}
	return hint
}
