package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

// reconstruct joins the non-overlapping spans of consecutive chunks.
func reconstruct(text string, chunks []entity.Chunk) string {
	var b strings.Builder
	prevEnd := 0
	for _, ch := range chunks {
		b.WriteString(text[prevEnd:ch.End])
		prevEnd = ch.End
	}
	return b.String()
}

func TestSplitReconstructsText(t *testing.T) {
	paragraphs := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		paragraphs = append(paragraphs, strings.Repeat("All work and no play makes a dull chapter. ", 3))
	}
	text := strings.Join(paragraphs, "\n\n")

	c := New(400, 80)
	chunks := c.Split("doc-1", "notes.txt", text)
	require.NotEmpty(t, chunks)

	assert.Equal(t, text, reconstruct(text, chunks))
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Seq)
		assert.Equal(t, text[ch.Start:ch.End], ch.Text)
		assert.Equal(t, "doc-1", ch.DocumentID)
	}
}

func TestSplitOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij ", 200)
	c := New(300, 60)
	chunks := c.Split("doc-1", "notes.txt", text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		assert.Less(t, cur.Start, prev.End, "chunk %d should overlap its predecessor", i)
		assert.Greater(t, cur.End, prev.End, "chunk %d must advance", i)
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	first := strings.Repeat("x", 250)
	second := strings.Repeat("y", 250)
	text := first + "\n\n" + second

	c := New(300, 50)
	chunks := c.Split("doc-1", "notes.txt", text)
	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasSuffix(chunks[0].Text, "\n\n"),
		"first cut should land on the paragraph boundary, got %q", chunks[0].Text[len(chunks[0].Text)-10:])
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	text := "The capital of France is Paris."
	chunks := New(800, 100).Split("doc-1", "france.txt", text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len(text), chunks[0].End)
}

func TestSplitEmptyText(t *testing.T) {
	assert.Empty(t, New(800, 100).Split("doc-1", "empty.txt", ""))
	assert.Empty(t, New(800, 100).Split("doc-1", "blank.txt", "   \n\t  "))
}

func TestSplitHardCutDoesNotBreakRunes(t *testing.T) {
	text := strings.Repeat("日本語のテキスト", 200)
	c := New(100, 20)
	chunks := c.Split("doc-1", "jp.txt", text)
	require.NotEmpty(t, chunks)

	for _, ch := range chunks {
		assert.True(t, strings.HasPrefix(text[ch.Start:], ch.Text))
		assert.Equal(t, ch.Text, strings.ToValidUTF8(ch.Text, "?"))
	}
	assert.Equal(t, text, reconstruct(text, chunks))
}

func TestNewClampsOverlap(t *testing.T) {
	c := New(100, 150)
	chunks := c.Split("doc-1", "a.txt", strings.Repeat("z", 1000))
	require.NotEmpty(t, chunks)
	// Progress is guaranteed even with a pathological overlap request.
	assert.Less(t, len(chunks), 1000)
}
