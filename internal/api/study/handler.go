package study

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/api/middleware"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/logger"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/response"
)

type Handler struct {
	usecase StudyUsecase
}

func NewHandler(usecase StudyUsecase) *Handler {
	return &Handler{usecase: usecase}
}

type chatRequest struct {
	Question string `json:"question"`
}

type quizRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type puzzleRequest struct {
	Type  entity.PuzzleType `json:"type"`
	Count int               `json:"count"`
}

type questionsRequest struct {
	Type  entity.QuestionType `json:"type"`
	Count int                 `json:"count"`
}

// Chat handles POST /chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")
	userID := middleware.UserID(ctx)

	var req chatRequest
	if !h.decodeBody(ctx, w, r, &req) {
		return
	}

	answer, err := h.usecase.AnswerChat(ctx, userID, req.Question)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, answer)
}

// GenerateQuiz handles POST /quiz/generate
func (h *Handler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateQuiz")
	userID := middleware.UserID(ctx)

	var req quizRequest
	if !h.decodeBody(ctx, w, r, &req) {
		return
	}

	quiz, err := h.usecase.GenerateQuiz(ctx, userID, req.Topic, req.Count)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, quiz)
}

// GeneratePuzzle handles POST /puzzle/generate
func (h *Handler) GeneratePuzzle(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GeneratePuzzle")
	userID := middleware.UserID(ctx)

	var req puzzleRequest
	if !h.decodeBody(ctx, w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = entity.PuzzleFillBlank
	}

	set, err := h.usecase.GeneratePuzzle(ctx, userID, req.Type, req.Count)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, set)
}

// GenerateQuestions handles POST /questions/generate
func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GenerateQuestions")
	userID := middleware.UserID(ctx)

	var req questionsRequest
	if !h.decodeBody(ctx, w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = entity.QuestionShortAnswer
	}

	set, err := h.usecase.GenerateQuestions(ctx, userID, req.Type, req.Count)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, set)
}

func (h *Handler) decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		ctxzap.Warn(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrNoStudyMaterial):
		response.Error(w, http.StatusNotFound, "no documents found, upload some files first")
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrMissingField):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrGenerationFailed):
		response.RetryableError(w, http.StatusBadGateway, "all generation backends failed")
	case errors.Is(err, entity.ErrParseFailed):
		response.RetryableError(w, http.StatusBadGateway, "model output could not be parsed")
	case errors.Is(err, entity.ErrEmbeddingFailed):
		response.RetryableError(w, http.StatusBadGateway, "embedding service unavailable")
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
