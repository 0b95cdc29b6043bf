// Package cleaner normalizes text per content type before chunking.
//
// Code cleaning preserves indentation while aggressively capping blank
// lines for training-data density. Document cleaning strips boilerplate
// and reflows whitespace. Data cleaning only right-trims lines so that
// structured content survives intact. All paths are idempotent for
// well-formed UTF-8 input.
package cleaner

import (
	"regexp"
	"strings"

	"github.com/textstitch/textstitch/pkg/types"
)

// Options toggles the document-path cleaning behaviors. The code and
// data paths ignore these flags.
type Options struct {
	RemoveHeaders       bool
	NormalizeWhitespace bool
	StripBullets        bool
}

// DefaultOptions enables all document cleaning behaviors
func DefaultOptions() Options {
	return Options{
		RemoveHeaders:       true,
		NormalizeWhitespace: true,
		StripBullets:        true,
	}
}

const (
	// maxCodeBlankSections caps the total number of blank-line runs in
	// a whole code document. Intentionally aggressive for training
	// datasets, not a general formatter.
	maxCodeBlankSections = 2

	// maxDataBlankLines allows longer blank runs in data files, where
	// blank lines can be structurally meaningful
	maxDataBlankLines = 3
)

var (
	gutenbergStart = regexp.MustCompile(`(?is)\*\*\* START OF.*?\*\*\*`)
	gutenbergEnd   = regexp.MustCompile(`(?is)\*\*\* END OF.*?\*\*\*`)
	pageHeader     = regexp.MustCompile(`(?m)^Page \d+ of \d+.*$`)
	pageNumber     = regexp.MustCompile(`(?m)^\d+[ \t]*$`)

	bulletGlyphs  = regexp.MustCompile(`[•\-\*]`)
	numberedList  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	spaceRuns     = regexp.MustCompile(`[ \t]+`)
	paragraphGaps = regexp.MustCompile(`\n{2,}`)
)

// Clean normalizes text according to its content type. Empty input is
// returned unchanged; cleaning never fails for well-formed UTF-8.
func Clean(text string, ct types.ContentType, opts Options) string {
	if text == "" {
		return text
	}

	switch ct {
	case types.ContentCode:
		return cleanCode(text)
	case types.ContentData:
		return cleanData(text)
	default:
		return cleanDocument(text, opts)
	}
}

// cleanCode right-trims every line (leading whitespace is semantically
// load-bearing in code and is never touched), collapses blank-line runs
// to at most one blank line, and drops all blank lines once the global
// section cap is reached.
func cleanCode(text string) string {
	lines := strings.Split(text, "\n")

	result := make([]string, 0, len(lines))
	consecutiveBlanks := 0
	blankSections := 0

	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			consecutiveBlanks++
			if consecutiveBlanks <= 1 && blankSections < maxCodeBlankSections {
				result = append(result, "")
			}
			continue
		}
		if consecutiveBlanks > 0 {
			blankSections++
		}
		consecutiveBlanks = 0
		result = append(result, line)
	}

	return trimBlankEdges(strings.Join(result, "\n"))
}

// cleanDocument applies the three independently toggleable behaviors:
// boilerplate removal, bullet stripping, and whitespace normalization.
func cleanDocument(text string, opts Options) string {
	cleaned := text

	if opts.RemoveHeaders {
		cleaned = gutenbergStart.ReplaceAllString(cleaned, "")
		cleaned = gutenbergEnd.ReplaceAllString(cleaned, "")
		cleaned = pageHeader.ReplaceAllString(cleaned, "")
		cleaned = pageNumber.ReplaceAllString(cleaned, "")
	}

	if opts.StripBullets {
		cleaned = bulletGlyphs.ReplaceAllString(cleaned, "")
		cleaned = numberedList.ReplaceAllString(cleaned, "")
	}

	if opts.NormalizeWhitespace {
		cleaned = normalizeWhitespace(cleaned)
	}

	return strings.TrimSpace(cleaned)
}

// normalizeWhitespace joins single newlines into spaces while keeping
// paragraph breaks, collapses space/tab runs, trims paragraph edges,
// and caps every multi-newline run at exactly one blank line.
func normalizeWhitespace(text string) string {
	paragraphs := paragraphGaps.Split(text, -1)

	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.ReplaceAll(p, "\n", " ")
		p = spaceRuns.ReplaceAllString(p, " ")
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, "\n\n")
}

// cleanData right-trims lines and permits up to three consecutive
// blank lines; interior spacing and punctuation are never touched.
func cleanData(text string) string {
	lines := strings.Split(text, "\n")

	result := make([]string, 0, len(lines))
	blanks := 0

	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			blanks++
			if blanks <= maxDataBlankLines {
				result = append(result, "")
			}
			continue
		}
		blanks = 0
		result = append(result, line)
	}

	return trimBlankEdges(strings.Join(result, "\n"))
}

// trimBlankEdges removes leading and trailing blank lines without
// disturbing the first line's indentation.
func trimBlankEdges(text string) string {
	return strings.Trim(text, "\n")
}
