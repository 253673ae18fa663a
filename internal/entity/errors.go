package entity

import "errors"

// Domain errors
var (
	// Extraction errors
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtractionFailed  = errors.New("no extractable text in document")

	// Embedding errors
	ErrEmbeddingFailed   = errors.New("embedding request failed")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// Index errors
	ErrIndexCorrupted  = errors.New("persisted index is corrupted")
	ErrDocumentIndexed = errors.New("document is already indexed")

	// Generation errors
	ErrGenerationFailed = errors.New("all generation backends failed")
	ErrParseFailed      = errors.New("could not parse model output")
	ErrNoStudyMaterial  = errors.New("no study material indexed")

	// Document errors
	ErrDocumentNotFound = errors.New("document not found")
	ErrNotDocumentOwner = errors.New("document belongs to another user")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")
)
