package study

import (
	"github.com/go-chi/chi/v5"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/api/middleware"
)

// RegisterRoutes registers study routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.UserIdentity)

		r.Post("/chat", h.Chat)
		r.Post("/quiz/generate", h.GenerateQuiz)
		r.Post("/puzzle/generate", h.GeneratePuzzle)
		r.Post("/questions/generate", h.GenerateQuestions)
	})
}
