// Package library manages a user's document collection: ingestion through
// the extract/chunk/embed/index pipeline, listing, and removal.
package library

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/index"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/repository"
)

// LibraryUsecase implements document library business logic
type LibraryUsecase struct {
	documentRepo repository.DocumentRepository
	extractor    TextExtractor
	chunker      Chunker
	embedder     Embedder
	store        *index.Store
	files        *FileStorage
	batchSize    int
	logger       *zap.Logger
}

// NewUsecase creates a new library use case
func NewUsecase(
	documentRepo repository.DocumentRepository,
	extractor TextExtractor,
	chunker Chunker,
	embedder Embedder,
	store *index.Store,
	files *FileStorage,
	batchSize int,
	logger *zap.Logger,
) *LibraryUsecase {
	if batchSize < 1 {
		batchSize = 1
	}
	return &LibraryUsecase{
		documentRepo: documentRepo,
		extractor:    extractor,
		chunker:      chunker,
		embedder:     embedder,
		store:        store,
		files:        files,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// IngestDocument runs an uploaded file through the full pipeline: extract
// text, chunk, embed, index, persist, and record metadata. The pipeline
// stages with no side effects run first, so most failures need no cleanup;
// anything written before a later failure is rolled back.
func (uc *LibraryUsecase) IngestDocument(ctx context.Context, req entity.IngestRequest) (*entity.Document, error) {
	idx, err := uc.store.GetOrCreate(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	text, err := uc.extractor.Extract(req.Content, req.Type)
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", req.OriginalName, err)
	}

	documentID := uuid.New().String()
	chunks := uc.chunker.Split(documentID, req.OriginalName, text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %q produced no chunks", entity.ErrExtractionFailed, req.OriginalName)
	}

	vectors, err := uc.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed %q: %w", req.OriginalName, err)
	}

	storagePath, filename, err := uc.files.Save(documentID, req.OriginalName, req.Content)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	document := entity.Document{
		ID:           documentID,
		UserID:       req.UserID,
		Filename:     filename,
		OriginalName: req.OriginalName,
		StoragePath:  storagePath,
		Type:         req.Type,
		ChunkCount:   len(chunks),
	}

	created, err := uc.documentRepo.Create(ctx, document)
	if err != nil {
		uc.files.Remove(storagePath)
		return nil, fmt.Errorf("save document metadata: %w", err)
	}

	if err := idx.Add(chunks, vectors); err != nil {
		uc.documentRepo.Delete(ctx, documentID)
		uc.files.Remove(storagePath)
		return nil, fmt.Errorf("index %q: %w", req.OriginalName, err)
	}

	if err := idx.Persist(); err != nil {
		idx.RemoveDocument(documentID)
		uc.documentRepo.Delete(ctx, documentID)
		uc.files.Remove(storagePath)
		return nil, fmt.Errorf("persist index: %w", err)
	}

	ctxzap.Info(ctx, "document ingested",
		zap.String("document_id", documentID),
		zap.String("user_id", req.UserID),
		zap.String("original_name", req.OriginalName),
		zap.Int("chunk_count", len(chunks)),
	)

	return created, nil
}

// ListDocuments returns the user's documents, newest first.
func (uc *LibraryUsecase) ListDocuments(ctx context.Context, userID string) ([]*entity.Document, error) {
	documents, err := uc.documentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return documents, nil
}

// RemoveDocument removes one document: its chunks leave the owner's index,
// the rebuilt index is persisted, and the metadata row and stored file go
// last. Only the owner may remove a document.
func (uc *LibraryUsecase) RemoveDocument(ctx context.Context, userID, documentID string) error {
	document, err := uc.documentRepo.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if document.UserID != userID {
		return entity.ErrNotDocumentOwner
	}

	idx, err := uc.store.GetOrCreate(userID)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	if err := idx.RemoveDocument(documentID); err != nil {
		return fmt.Errorf("remove document from index: %w", err)
	}
	if err := idx.Persist(); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}

	if err := uc.documentRepo.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document metadata: %w", err)
	}

	if err := uc.files.Remove(document.StoragePath); err != nil {
		ctxzap.Warn(ctx, "failed to remove stored file",
			zap.String("storage_path", document.StoragePath),
			zap.Error(err),
		)
	}

	ctxzap.Info(ctx, "document removed",
		zap.String("document_id", documentID),
		zap.String("user_id", userID),
	)
	return nil
}

// DeleteUserData wipes everything the system holds for a user: index,
// metadata rows, and stored files.
func (uc *LibraryUsecase) DeleteUserData(ctx context.Context, userID string) error {
	documents, err := uc.documentRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if err := uc.store.DeleteAll(userID); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	if err := uc.documentRepo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete document metadata: %w", err)
	}

	for _, document := range documents {
		if err := uc.files.Remove(document.StoragePath); err != nil {
			ctxzap.Warn(ctx, "failed to remove stored file",
				zap.String("storage_path", document.StoragePath),
				zap.Error(err),
			)
		}
	}

	ctxzap.Info(ctx, "user data deleted",
		zap.String("user_id", userID),
		zap.Int("document_count", len(documents)),
	)
	return nil
}

func (uc *LibraryUsecase) embedChunks(ctx context.Context, chunks []entity.Chunk) ([][]float64, error) {
	vectors := make([][]float64, 0, len(chunks))
	for start := 0; start < len(chunks); start += uc.batchSize {
		end := start + uc.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}
		batch, err := uc.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}
