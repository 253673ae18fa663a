package entity

import "time"

// DocumentType is the declared format of an uploaded file.
type DocumentType string

const (
	DocumentTypePDF      DocumentType = "pdf"
	DocumentTypeText     DocumentType = "txt"
	DocumentTypeMarkdown DocumentType = "md"
	DocumentTypeDocx     DocumentType = "docx"
)

// DocumentTypeFromExtension maps a file extension (with or without the
// leading dot) to a declared document type.
func DocumentTypeFromExtension(ext string) (DocumentType, bool) {
	switch ext {
	case ".pdf", "pdf":
		return DocumentTypePDF, true
	case ".txt", "txt":
		return DocumentTypeText, true
	case ".md", "md", ".markdown", "markdown":
		return DocumentTypeMarkdown, true
	case ".docx", "docx":
		return DocumentTypeDocx, true
	}
	return "", false
}

// Document is the metadata of one uploaded source file. The extracted text
// itself is not kept here; it lives, chunked and embedded, in the owner's
// vector index.
type Document struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Filename     string       `json:"filename"`
	OriginalName string       `json:"original_name"`
	StoragePath  string       `json:"-"`
	Type         DocumentType `json:"type"`
	UploadedAt   time.Time    `json:"uploaded_at"`
	ChunkCount   int          `json:"chunk_count"`
}

// Chunk is a contiguous span of a document's extracted text. Start and End
// are byte offsets into the extracted text for traceability.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Seq        int    `json:"seq"`
	Text       string `json:"text"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// ScoredChunk pairs a chunk with its similarity to a query.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// RetrievalResult is an ordered sequence of scored chunks, highest
// similarity first, drawn exclusively from one user's index. An empty
// result is a valid outcome: the user has no documents, or nothing passed
// the similarity floor.
type RetrievalResult struct {
	Chunks []ScoredChunk `json:"chunks"`
}

// Empty reports whether retrieval produced no usable context.
func (r RetrievalResult) Empty() bool { return len(r.Chunks) == 0 }

// IngestRequest carries a freshly uploaded file into the ingestion pipeline.
type IngestRequest struct {
	UserID       string
	OriginalName string
	Type         DocumentType
	Content      []byte
}

// PuzzleType selects the puzzle template.
type PuzzleType string

const (
	PuzzleFillBlank PuzzleType = "fill_blank"
	PuzzleScramble  PuzzleType = "word_scramble"
)

// QuestionType selects the question-bank template.
type QuestionType string

const (
	QuestionShortAnswer QuestionType = "short_answer"
	QuestionTrueFalse   QuestionType = "true_false"
	QuestionFlashcard   QuestionType = "flashcard"
)
