package httputil

import (
	"context"
	"net/http"

	"famtree/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const userKey contextKey = "user"

// WithUser attaches the authenticated principal to the request context.
func WithUser(r *http.Request, user *models.AuthUser) *http.Request {
	ctx := context.WithValue(r.Context(), userKey, user)
	return r.WithContext(ctx)
}

// GetUser retrieves the authenticated principal, or nil when the request
// did not pass the auth middleware.
func GetUser(r *http.Request) *models.AuthUser {
	user, _ := r.Context().Value(userKey).(*models.AuthUser)
	return user
}
