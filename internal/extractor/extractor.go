package extractor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"github.com/textstitch/textstitch/internal/classifier"
	"github.com/textstitch/textstitch/pkg/types"
)

// Document is the raw text pulled out of one source file, before any
// cleaning or chunking happens.
type Document struct {
	Text      string
	Filename  string
	Format    string
	SizeBytes int64
}

// binaryFormats are handled by docconv; the keys are normalized
// extensions (no dot).
var binaryFormats = map[string]struct{}{
	"pdf": {}, "doc": {}, "docx": {}, "pptx": {}, "odt": {}, "rtf": {},
	"html": {}, "htm": {},
}

// unsupportedFormats are recognized but have no extraction path yet.
// Spreadsheets and epub need structure-aware readers that a plain text
// dump would corrupt.
var unsupportedFormats = map[string]struct{}{
	"epub": {}, "xlsx": {}, "xls": {}, "ods": {},
}

// ExtractFile reads the file at path and returns its text. Binary
// document formats go through docconv; everything else is read as
// plain UTF-8 text.
func ExtractFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	filename := filepath.Base(path)
	format := classifier.Normalize(filepath.Ext(path))

	if _, ok := unsupportedFormats[format]; ok {
		return nil, fmt.Errorf("%s: %w", filename, types.ErrUnsupportedFormat)
	}

	var text string
	if _, ok := binaryFormats[format]; ok {
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", filename, err)
		}
		text = res.Body
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filename, err)
		}
		text = sanitize(string(data))
	}

	return &Document{
		Text:      text,
		Filename:  filename,
		Format:    format,
		SizeBytes: info.Size(),
	}, nil
}

// Extract reads a document from r, using the filename's extension to
// pick the extraction path. Used by upload handlers where no on-disk
// path exists.
func Extract(r io.Reader, filename string) (*Document, error) {
	format := classifier.Normalize(filepath.Ext(filename))

	if _, ok := unsupportedFormats[format]; ok {
		return nil, fmt.Errorf("%s: %w", filename, types.ErrUnsupportedFormat)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	var text string
	if _, ok := binaryFormats[format]; ok {
		res, err := docconv.Convert(strings.NewReader(string(data)), docconv.MimeTypeByExtension(filename), false)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", filename, err)
		}
		text = res.Body
	} else {
		text = sanitize(string(data))
	}

	return &Document{
		Text:      text,
		Filename:  filename,
		Format:    format,
		SizeBytes: int64(len(data)),
	}, nil
}

// sanitize drops NUL bytes that show up when a binary file sneaks in
// under a text extension.
func sanitize(text string) string {
	return strings.ReplaceAll(text, "\x00", "")
}
