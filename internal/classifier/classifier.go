// Package classifier maps file extensions to content types.
package classifier

import (
	"strings"

	"github.com/textstitch/textstitch/pkg/types"
)

// codeExtensions covers programming languages plus code-like
// configuration and markup formats.
var codeExtensions = map[string]struct{}{
	// Programming languages
	".py": {}, ".js": {}, ".ts": {}, ".jsx": {}, ".tsx": {}, ".java": {},
	".c": {}, ".cpp": {}, ".h": {}, ".hpp": {}, ".cs": {}, ".php": {},
	".rb": {}, ".go": {}, ".rs": {}, ".swift": {}, ".kt": {}, ".scala": {},
	".clj": {}, ".hs": {}, ".elm": {}, ".ex": {}, ".exs": {}, ".erl": {},
	".ml": {}, ".fs": {}, ".vb": {}, ".pas": {}, ".asm": {}, ".s": {},
	".pl": {}, ".pm": {}, ".t": {}, ".cgi": {}, ".tcl": {}, ".vim": {},
	".lua": {}, ".dart": {}, ".sol": {}, ".move": {}, ".zig": {}, ".nim": {},
	".cr": {}, ".jl": {}, ".r": {}, ".m": {}, ".sh": {}, ".bash": {},
	".zsh": {}, ".fish": {}, ".ps1": {}, ".cmd": {}, ".bat": {},
	// .sql is also a data extension; the code check wins so SQL files
	// get indentation-preserving cleaning
	".sql": {},
	// Configuration and markup
	".toml": {}, ".yaml": {}, ".yml": {}, ".ini": {}, ".cfg": {}, ".conf": {},
	".xml": {}, ".html": {}, ".htm": {}, ".css": {}, ".scss": {}, ".sass": {},
	".less": {}, ".svg": {},
	// Build and project files
	".dockerfile": {}, ".makefile": {}, ".cmake": {}, ".gradle": {}, ".maven": {},
}

var documentExtensions = map[string]struct{}{
	".pdf": {}, ".docx": {}, ".doc": {}, ".epub": {}, ".rtf": {}, ".odt": {},
	".md": {}, ".markdown": {}, ".rst": {}, ".txt": {}, ".text": {},
	".pptx": {}, ".ppt": {}, ".odp": {}, ".key": {},
}

var dataExtensions = map[string]struct{}{
	".csv": {}, ".tsv": {}, ".xlsx": {}, ".xls": {}, ".ods": {},
	".json": {}, ".jsonl": {}, ".ndjson": {}, ".parquet": {}, ".avro": {},
	".sqlite": {}, ".db": {}, ".sql": {},
}

// Normalize returns the canonical form of a file extension: lowercase,
// trimmed, no leading dot. Empty input stays empty.
func Normalize(extension string) string {
	ext := strings.ToLower(strings.TrimSpace(extension))
	return strings.TrimPrefix(ext, ".")
}

// Classify maps a file extension to a content type. The lookup is
// case-insensitive and accepts extensions with or without a leading
// dot. Unknown extensions default to document, which gets the most
// conservative cleaning. Total function, no error path.
func Classify(extension string) types.ContentType {
	ext := strings.ToLower(strings.TrimSpace(extension))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	if _, ok := codeExtensions[ext]; ok {
		return types.ContentCode
	}
	if _, ok := documentExtensions[ext]; ok {
		return types.ContentDocument
	}
	if _, ok := dataExtensions[ext]; ok {
		return types.ContentData
	}

	return types.ContentDocument
}
