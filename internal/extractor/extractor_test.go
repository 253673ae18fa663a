package extractor

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

func TestExtractPlainText(t *testing.T) {
	e := New(zap.NewNop())

	text, err := e.Extract([]byte("The capital of France is Paris.\n"), entity.DocumentTypeText)
	require.NoError(t, err)
	assert.Equal(t, "The capital of France is Paris.\n", text)

	text, err = e.Extract([]byte("# Notes\n\nSome *markdown* content."), entity.DocumentTypeMarkdown)
	require.NoError(t, err)
	assert.Contains(t, text, "markdown")
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := New(zap.NewNop())
	_, err := e.Extract([]byte("data"), entity.DocumentType("xlsx"))
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestExtractEmptyText(t *testing.T) {
	e := New(zap.NewNop())
	_, err := e.Extract([]byte("   \n \t "), entity.DocumentTypeText)
	assert.ErrorIs(t, err, entity.ErrExtractionFailed)
}

func TestExtractInvalidUTF8(t *testing.T) {
	e := New(zap.NewNop())
	_, err := e.Extract([]byte{0xff, 0xfe, 0x00}, entity.DocumentTypeText)
	assert.ErrorIs(t, err, entity.ErrExtractionFailed)
}

func TestExtractPDF(t *testing.T) {
	e := New(zap.NewNop())

	text, err := e.Extract(renderPDF(t, []string{
		"The capital of France is Paris.",
		"The capital of Germany is Berlin.",
	}), entity.DocumentTypePDF)
	require.NoError(t, err)
	assert.Contains(t, text, "Paris")
	assert.Contains(t, text, "Berlin")
}

func TestExtractPDFGarbage(t *testing.T) {
	e := New(zap.NewNop())
	_, err := e.Extract([]byte("definitely not a pdf"), entity.DocumentTypePDF)
	assert.ErrorIs(t, err, entity.ErrExtractionFailed)
}

// renderPDF writes one page per entry so the page loop is exercised.
func renderPDF(t *testing.T, pages []string) []byte {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, content := range pages {
		doc.AddPage()
		doc.MultiCell(0, 8, content, "", "L", false)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}
