package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

// DocumentRepository defines the interface for document metadata persistence
type DocumentRepository interface {
	Create(ctx context.Context, document entity.Document) (*entity.Document, error)
	Get(ctx context.Context, id string) (*entity.Document, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

var _ DocumentRepository = &DocumentPostgres{}

// DocumentPostgres implements DocumentRepository using PostgreSQL
type DocumentPostgres struct {
	db *pgxpool.Pool
}

func NewDocumentPostgres(db *pgxpool.Pool) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

const documentColumns = `id, user_id, filename, original_name, storage_path, type, chunk_count, uploaded_at`

func (r *DocumentPostgres) Create(ctx context.Context, document entity.Document) (*entity.Document, error) {
	documentID, err := uuid.Parse(document.ID)
	if err != nil {
		return nil, fmt.Errorf("parse document ID: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO documents (id, user_id, filename, original_name, storage_path, type, chunk_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+documentColumns,
		pgtype.UUID{Bytes: documentID, Valid: true},
		document.UserID,
		document.Filename,
		document.OriginalName,
		document.StoragePath,
		string(document.Type),
		document.ChunkCount,
	)

	created, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return created, nil
}

func (r *DocumentPostgres) Get(ctx context.Context, id string) (*entity.Document, error) {
	documentID, err := uuid.Parse(id)
	if err != nil {
		// An ID that is not a UUID cannot name any stored document.
		return nil, entity.ErrDocumentNotFound
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`,
		pgtype.UUID{Bytes: documentID, Valid: true},
	)

	document, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return document, nil
}

func (r *DocumentPostgres) ListByUser(ctx context.Context, userID string) ([]*entity.Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = $1 ORDER BY uploaded_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	documents := make([]*entity.Document, 0)
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, document)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return documents, nil
}

func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	documentID, err := uuid.Parse(id)
	if err != nil {
		return entity.ErrDocumentNotFound
	}

	tag, err := r.db.Exec(ctx,
		`DELETE FROM documents WHERE id = $1`,
		pgtype.UUID{Bytes: documentID, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentPostgres) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM documents WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete documents for user: %w", err)
	}
	return nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		id         pgtype.UUID
		document   entity.Document
		typ        string
		uploadedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&id,
		&document.UserID,
		&document.Filename,
		&document.OriginalName,
		&document.StoragePath,
		&typ,
		&document.ChunkCount,
		&uploadedAt,
	); err != nil {
		return nil, err
	}

	document.ID = uuid.UUID(id.Bytes).String()
	document.Type = entity.DocumentType(typ)
	document.UploadedAt = uploadedAt.Time
	return &document, nil
}
