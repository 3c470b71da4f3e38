package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobportal/jobportal-go/internal/authz"
	"github.com/jobportal/jobportal-go/internal/service"
)

// Loader loads the resource named by the {id} URL parameter together with the
// resources whose owners may act on it.
type Loader[T any] func(ctx context.Context, id string) (T, []authz.Resource, error)

// RequireOwnership returns middleware that loads the resource and lets the
// request through only if the authenticated user owns one of the returned
// resources. It must run after Authenticate. The loaded resource is stored in
// the request context for ResourceFromContext.
func RequireOwnership[T any](load Loader[T], logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			resource, owners, err := load(r.Context(), chi.URLParam(r, "id"))
			if err != nil {
				switch {
				case errors.Is(err, service.ErrJobNotFound), errors.Is(err, service.ErrApplicationNotFound):
					writeJSONError(w, http.StatusNotFound, err.Error())
				default:
					logger.Error("load resource", "error", err, "path", r.URL.Path)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
				}
				return
			}

			if !authz.CanAccess(user, owners...) {
				logger.Info("ownership check failed", "user_id", user.ID, "path", r.URL.Path)
				writeJSONError(w, http.StatusForbidden, service.ErrForbidden.Error())
				return
			}

			ctx := context.WithValue(r.Context(), resourceKey, resource)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResourceFromContext returns the resource loaded by RequireOwnership.
func ResourceFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(resourceKey).(T)
	return v, ok
}
