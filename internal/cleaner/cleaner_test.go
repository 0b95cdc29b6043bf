package cleaner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/textstitch/textstitch/pkg/types"
)

func TestClean_EmptyInput(t *testing.T) {
	for _, ct := range []types.ContentType{types.ContentCode, types.ContentDocument, types.ContentData} {
		assert.Equal(t, "", Clean("", ct, DefaultOptions()))
	}
}

func TestCleanCode_PreservesIndentation(t *testing.T) {
	input := "func main() {\n\tif true {\n\t\tfmt.Println(\"hi\")   \n\t}\n}"
	got := Clean(input, types.ContentCode, DefaultOptions())

	assert.Contains(t, got, "\tif true {")
	assert.Contains(t, got, "\t\tfmt.Println(\"hi\")")
	assert.NotContains(t, got, "\")   ")
}

func TestCleanCode_CollapsesBlankRuns(t *testing.T) {
	input := "func a() {}\n\n\n\nfunc b() {}"
	got := Clean(input, types.ContentCode, DefaultOptions())

	assert.Equal(t, "func a() {}\n\nfunc b() {}", got)
}

func TestCleanCode_GlobalBlankSectionCap(t *testing.T) {
	// Four blank-separated sections; only the first two separations
	// keep a blank line, the rest are joined flush.
	input := "a\n\nb\n\nc\n\nd\n\ne"
	got := Clean(input, types.ContentCode, DefaultOptions())

	assert.Equal(t, "a\n\nb\n\nc\nd\ne", got)
}

func TestCleanCode_StripsEdgeBlankLines(t *testing.T) {
	input := "\n\n\tindented first line\ncode\n\n\n"
	got := Clean(input, types.ContentCode, DefaultOptions())

	// Leading blank lines removed, first-line indentation intact
	assert.True(t, strings.HasPrefix(got, "\tindented"))
	assert.False(t, strings.HasSuffix(got, "\n"))
}

func TestCleanDocument_NormalizesWhitespace(t *testing.T) {
	input := "This line\nwraps onto the   next.\n\nSecond  paragraph\nhere."
	got := Clean(input, types.ContentDocument, DefaultOptions())

	assert.Equal(t, "This line wraps onto the next.\n\nSecond paragraph here.", got)
}

func TestCleanDocument_CapsNewlineRuns(t *testing.T) {
	input := "First paragraph.\n\n\n\n\nSecond paragraph."
	got := Clean(input, types.ContentDocument, DefaultOptions())

	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", got)
}

func TestCleanDocument_RemovesHeaders(t *testing.T) {
	input := "*** START OF THE PROJECT GUTENBERG EBOOK ***\nActual content here.\n42\nPage 3 of 10 Some Title\nMore content.\n*** END OF THE PROJECT GUTENBERG EBOOK ***"
	got := Clean(input, types.ContentDocument, DefaultOptions())

	assert.Contains(t, got, "Actual content here.")
	assert.Contains(t, got, "More content.")
	assert.NotContains(t, got, "GUTENBERG")
	assert.NotContains(t, got, "Page 3 of 10")
	assert.NotContains(t, got, "42")
}

func TestCleanDocument_StripsBullets(t *testing.T) {
	input := "• first item\n- second item\n1. third item"
	got := Clean(input, types.ContentDocument, DefaultOptions())

	assert.NotContains(t, got, "•")
	assert.NotContains(t, got, "-")
	assert.NotContains(t, got, "1.")
	assert.Contains(t, got, "first item")
	assert.Contains(t, got, "third item")
}

func TestCleanDocument_FlagsIndependent(t *testing.T) {
	input := "• bullet\nwrapped\nline"

	// Bullets kept when stripping disabled
	opts := Options{RemoveHeaders: true, NormalizeWhitespace: true}
	got := Clean(input, types.ContentDocument, opts)
	assert.Contains(t, got, "•")

	// Newlines kept when normalization disabled
	opts = Options{RemoveHeaders: true, StripBullets: true}
	got = Clean(input, types.ContentDocument, opts)
	assert.Contains(t, got, "wrapped\nline")
}

func TestCleanData_MinimalTouch(t *testing.T) {
	input := "col1,col2,  col3\nval1,val2,val3   "
	got := Clean(input, types.ContentData, DefaultOptions())

	// Interior spacing preserved, trailing whitespace trimmed
	assert.Equal(t, "col1,col2,  col3\nval1,val2,val3", got)
}

func TestCleanData_PermitsThreeBlankLines(t *testing.T) {
	input := "a\n\n\n\nb"
	got := Clean(input, types.ContentData, DefaultOptions())
	assert.Equal(t, input, got)

	input = "a\n\n\n\n\n\nb"
	got = Clean(input, types.ContentData, DefaultOptions())
	assert.Equal(t, "a\n\n\n\nb", got)
}

func TestClean_Idempotent(t *testing.T) {
	tests := []struct {
		name string
		text string
		ct   types.ContentType
	}{
		{"code with blanks", "a := 1\n\n\n\nb := 2\n\nc := 3\n\nd := 4", types.ContentCode},
		{"document wrapped", "Some text\nthat wraps.\n\n\n\nNext   paragraph\nhere.", types.ContentDocument},
		{"data dump", "k1=v1\n\n\n\n\nk2=v2", types.ContentData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Clean(tt.text, tt.ct, DefaultOptions())
			twice := Clean(once, tt.ct, DefaultOptions())
			assert.Equal(t, once, twice)
		})
	}
}
