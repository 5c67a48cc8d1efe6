package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"famtree/internal/auth"
	"famtree/internal/domain/repositories"
	"famtree/internal/httputil"
)

// publicPrefixes are served without a bearer token.
var publicPrefixes = []string{
	"/api/auth/",
	"/api/health",
	"/uploads/",
}

func isPublic(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Auth validates the bearer token on every non-public request, attaches the
// principal to the context, and records user activity. The activity upsert
// is best effort: presence tracking must not fail the request.
func Auth(verifier auth.TokenVerifier, activity repositories.UserActivityRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user := claims.User()
			if err := activity.Touch(r.Context(), user.ID, time.Now()); err != nil {
				logger.Warn("failed to record user activity", "user_id", user.ID, "error", err)
			}

			next.ServeHTTP(w, httputil.WithUser(r, user))
		})
	}
}
