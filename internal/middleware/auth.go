package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jobportal/jobportal-go/internal/model"
	"github.com/jobportal/jobportal-go/internal/service"
)

type contextKey string

const (
	userKey     contextKey = "user"
	resourceKey contextKey = "resource"
)

// SessionResolver turns a bearer token into the user it belongs to.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// Authenticate returns middleware that resolves the Bearer token from the
// Authorization header and stores the user in the request context.
func Authenticate(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			user, err := resolver.Resolve(r.Context(), strings.TrimSpace(token))
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
				logger.Error("resolve session", "error", err, "path", r.URL.Path)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// WithUser stores user in ctx the way Authenticate does.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
