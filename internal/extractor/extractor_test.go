package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textstitch/textstitch/pkg/types"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractFile_PlainText(t *testing.T) {
	path := writeTemp(t, "notes.txt", "Hello, world.\nSecond line.")

	doc, err := ExtractFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Hello, world.\nSecond line.", doc.Text)
	assert.Equal(t, "notes.txt", doc.Filename)
	assert.Equal(t, "txt", doc.Format)
	assert.Equal(t, int64(26), doc.SizeBytes)
}

func TestExtractFile_StripsNULBytes(t *testing.T) {
	path := writeTemp(t, "weird.log", "before\x00after")

	doc, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "beforeafter", doc.Text)
}

func TestExtractFile_UnsupportedFormat(t *testing.T) {
	for _, name := range []string{"book.epub", "sheet.xlsx", "old.xls"} {
		path := writeTemp(t, name, "irrelevant")

		_, err := ExtractFile(path)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, types.ErrUnsupportedFormat), name)
	}
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestExtractFile_NoExtension(t *testing.T) {
	path := writeTemp(t, "README", "plain content")

	doc, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "", doc.Format)
	assert.Equal(t, "plain content", doc.Text)
}

func TestExtract_Reader(t *testing.T) {
	doc, err := Extract(strings.NewReader("streamed body"), "upload.md")
	require.NoError(t, err)

	assert.Equal(t, "streamed body", doc.Text)
	assert.Equal(t, "md", doc.Format)
	assert.Equal(t, int64(13), doc.SizeBytes)
}

func TestExtract_ReaderUnsupported(t *testing.T) {
	_, err := Extract(strings.NewReader("data"), "upload.epub")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnsupportedFormat))
}
