package study

import (
	"context"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

type Retriever interface {
	Retrieve(ctx context.Context, userID, query string, k int) (entity.RetrievalResult, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
