// Package extractor turns uploaded files into flat UTF-8 text for the
// ingestion pipeline. PDF and DOCX are parsed structurally; plain text and
// markdown pass through unchanged.
package extractor

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice/document"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

// pageSeparator marks PDF page boundaries in the extracted text so the
// chunker can prefer splitting there.
const pageSeparator = "\n\n"

type Extractor struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns the text content of the file. It fails with
// entity.ErrUnsupportedFormat for unknown declared types and with
// entity.ErrExtractionFailed when the file yields no extractable text.
func (e *Extractor) Extract(content []byte, typ entity.DocumentType) (string, error) {
	var (
		text string
		err  error
	)
	switch typ {
	case entity.DocumentTypeText, entity.DocumentTypeMarkdown:
		text, err = e.extractPlain(content)
	case entity.DocumentTypePDF:
		text, err = e.extractPDF(content)
	case entity.DocumentTypeDocx:
		text, err = e.extractDocx(content)
	default:
		return "", fmt.Errorf("%w: %q", entity.ErrUnsupportedFormat, typ)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", entity.ErrExtractionFailed
	}
	return text, nil
}

func (e *Extractor) extractPlain(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: file is not valid UTF-8", entity.ErrExtractionFailed)
	}
	return string(content), nil
}

// extractPDF walks the document page by page. Pages that fail to decode
// are skipped and logged instead of failing the whole document; scanned
// image-only PDFs end up with no text at all and are rejected by Extract.
func (e *Extractor) extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", entity.ErrExtractionFailed, err)
	}

	var pages []string
	total := reader.NumPage()
	for n := 1; n <= total; n++ {
		pageText, err := e.extractPDFPage(reader, n)
		if err != nil {
			e.logger.Warn("skipping unreadable pdf page",
				zap.Int("page", n),
				zap.Int("total_pages", total),
				zap.Error(err),
			)
			continue
		}
		if strings.TrimSpace(pageText) != "" {
			pages = append(pages, pageText)
		}
	}
	return strings.Join(pages, pageSeparator), nil
}

func (e *Extractor) extractPDFPage(reader *pdf.Reader, n int) (text string, err error) {
	// The pdf library panics on some malformed content streams; a broken
	// page must not take down the rest of the document.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page content panic: %v", r)
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", n)
	}
	return page.GetPlainText(nil)
}

func (e *Extractor) extractDocx(content []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open docx: %v", entity.ErrExtractionFailed, err)
	}
	defer doc.Close()

	var b strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			b.WriteString(run.Text())
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
