package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	got, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestExtractTextMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	md := "# Title\n\nSome *emphasised* text.\n\n- item one\n- item two\n"
	require.NoError(t, os.WriteFile(path, []byte(md), 0o644))

	got, err := ExtractText(path)
	require.NoError(t, err)
	assert.Contains(t, got, "Title")
	assert.Contains(t, got, "emphasised")
	assert.Contains(t, got, "item two")
	assert.NotContains(t, got, "#")
	assert.NotContains(t, got, "*")
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	_, err := ExtractText("document.xyz")
	assert.Error(t, err)
}

// A PDF that cannot be loaded degrades to empty text instead of
// failing, so downstream stages run with zero chunks.
func TestExtractTextUnreadablePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	got, err := ExtractText(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractTextMissingPDF(t *testing.T) {
	got, err := ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPageCountUnreadablePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := PageCount(path)
	assert.Error(t, err)
}
