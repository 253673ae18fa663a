package library

import (
	"context"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

type TextExtractor interface {
	Extract(content []byte, typ entity.DocumentType) (string, error)
}

type Chunker interface {
	Split(documentID, filename, text string) []entity.Chunk
}

type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}
