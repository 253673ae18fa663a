package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	documentsapi "github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/api/documents"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/api/middleware"
	studyapi "github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/api/study"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(documentsHandler *documentsapi.Handler, studyHandler *studyapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                  // Recover from panics
	r.Use(chimiddleware.RequestID)                  // Add request ID
	r.Use(middleware.Logger(logger))                // Log requests
	r.Use(middleware.CORS)                          // Handle CORS
	r.Use(chimiddleware.Timeout(120 * time.Second)) // Generation can be slow

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Register routes
	documentsapi.RegisterRoutes(r, documentsHandler)
	studyapi.RegisterRoutes(r, studyHandler)

	return r
}
