package documents

import (
	"github.com/go-chi/chi/v5"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/api/middleware"
)

// RegisterRoutes registers document routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/documents", func(r chi.Router) {
		r.Use(middleware.UserIdentity)

		r.Post("/", h.UploadDocument)
		r.Get("/", h.ListDocuments)
		r.Delete("/{document_id}", h.DeleteDocument)
	})

	r.Delete("/admin/users/{user_id}", h.DeleteUserData)
}
