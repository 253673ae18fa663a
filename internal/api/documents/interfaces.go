package documents

import (
	"context"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

type LibraryUsecase interface {
	IngestDocument(ctx context.Context, req entity.IngestRequest) (*entity.Document, error)
	ListDocuments(ctx context.Context, userID string) ([]*entity.Document, error)
	RemoveDocument(ctx context.Context, userID, documentID string) error
	DeleteUserData(ctx context.Context, userID string) error
}
