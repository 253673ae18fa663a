package middleware

import (
	"context"
	"net/http"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/logger"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/response"
	"go.uber.org/zap"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIdentity requires the X-User-ID header on every request it wraps.
// The value scopes all document and index operations; there is no other
// authentication layer here.
func UserIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			response.Error(w, http.StatusUnauthorized, "X-User-ID header is required")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = logger.AddFields(ctx, zap.String("user_id", userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user set by UserIdentity.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}
