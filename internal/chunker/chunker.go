// Package chunker splits extracted document text into overlapping,
// retrieval-sized segments. Splits prefer natural boundaries (paragraph,
// line, sentence, word) near the target size and fall back to hard
// character cuts only when no boundary exists within tolerance.
package chunker

import (
	"strings"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

const (
	DefaultChunkSize = 800
	DefaultOverlap   = 100
)

// separators are tried in order of preference when looking for a split
// point near the target chunk size.
var separators = []string{"\n\n", "\n", ". ", " "}

// boundaryTolerance is how far back from the target cut (as a fraction of
// the chunk size) a boundary may be and still be preferred over a hard cut.
const boundaryTolerance = 0.5

type Chunker struct {
	size    int
	overlap int
}

// New returns a chunker with the given target chunk size and overlap, both
// in bytes of UTF-8 text. Invalid values fall back to defaults; overlap is
// clamped below the chunk size.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split chunks text for the given document. Chunks are ordered, carry byte
// offsets into text, and consecutive chunks overlap by roughly the
// configured amount. Concatenating the non-overlapping spans
// (text[prevEnd:End] for each chunk) reconstructs text exactly. Text that
// fits in a single chunk yields exactly one chunk; empty or whitespace-only
// text yields none.
func (c *Chunker) Split(documentID, filename, text string) []entity.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []entity.Chunk
	start := 0
	seq := 0
	for start < len(text) {
		end := c.cutPoint(text, start)
		chunks = append(chunks, entity.Chunk{
			DocumentID: documentID,
			Filename:   filename,
			Seq:        seq,
			Text:       text[start:end],
			Start:      start,
			End:        end,
		})
		if end == len(text) {
			break
		}
		seq++
		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = alignRune(text, next)
	}
	return chunks
}

// cutPoint returns the end offset for a chunk starting at start, preferring
// the latest separator within tolerance of the size budget.
func (c *Chunker) cutPoint(text string, start int) int {
	limit := start + c.size
	if limit >= len(text) {
		return len(text)
	}

	window := text[start:limit]
	minCut := int(float64(c.size) * (1 - boundaryTolerance))
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx >= minCut {
			return start + idx + len(sep)
		}
	}
	return alignRune(text, limit)
}

// alignRune moves pos back to the start of the UTF-8 rune it falls inside,
// so hard cuts never split a multi-byte character.
func alignRune(text string, pos int) int {
	for pos > 0 && pos < len(text) && text[pos]&0xC0 == 0x80 {
		pos--
	}
	return pos
}
