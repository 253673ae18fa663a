package documents

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/api/middleware"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/logger"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/response"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/validator"
)

type Handler struct {
	usecase   LibraryUsecase
	cfg       config.FileUploadConfig
	validator *validator.Validator
}

func NewHandler(usecase LibraryUsecase, cfg config.FileUploadConfig, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
	}
}

// UploadDocument handles POST /documents
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDocument")
	userID := middleware.UserID(ctx)

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid form data or size too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		ctxzap.Warn(ctx, "no file provided", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "a file is required")
		return
	}
	defer file.Close()

	documentType, err := h.validator.ValidateUpload(header)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		ctxzap.Error(ctx, "failed to read uploaded file", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	ctxzap.Info(ctx, "ingesting document",
		zap.String("original_name", header.Filename),
		zap.String("type", string(documentType)),
		zap.Int("size_bytes", len(content)),
	)

	document, err := h.usecase.IngestDocument(ctx, entity.IngestRequest{
		UserID:       userID,
		OriginalName: header.Filename,
		Type:         documentType,
		Content:      content,
	})
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, document)
}

// ListDocuments handles GET /documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")
	userID := middleware.UserID(ctx)

	documents, err := h.usecase.ListDocuments(ctx, userID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "documents listed", zap.Int("count", len(documents)))
	response.Success(w, map[string]any{"documents": documents})
}

// DeleteDocument handles DELETE /documents/{document_id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("document_id", documentID),
		zap.String("action", "DeleteDocument"),
	)
	userID := middleware.UserID(ctx)

	if err := h.usecase.RemoveDocument(ctx, userID, documentID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "document deleted")
	response.Success(w, map[string]string{"status": "deleted"})
}

// DeleteUserData handles DELETE /admin/users/{user_id}
func (h *Handler) DeleteUserData(w http.ResponseWriter, r *http.Request) {
	targetUserID := chi.URLParam(r, "user_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("target_user_id", targetUserID),
		zap.String("action", "DeleteUserData"),
	)

	if err := h.usecase.DeleteUserData(ctx, targetUserID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "user data deleted")
	response.Success(w, map[string]string{"status": "deleted"})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrDocumentNotFound):
		response.Error(w, http.StatusNotFound, "document not found")
	case errors.Is(err, entity.ErrNotDocumentOwner):
		response.Error(w, http.StatusForbidden, "document belongs to another user")
	case errors.Is(err, entity.ErrUnsupportedFormat),
		errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrExtractionFailed),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrMissingField):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrEmbeddingFailed):
		response.RetryableError(w, http.StatusBadGateway, "embedding service unavailable")
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
