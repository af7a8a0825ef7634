// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/pkg/response"
)

// UserResolver turns a bearer token into the acting user. Implemented by the
// auth service: it verifies the token and re-fetches the user so deleted
// accounts lose access immediately.
type UserResolver interface {
	UserFromToken(ctx context.Context, token string) (*models.User, error)
}

type userCtxKey struct{}

// Auth returns middleware that requires a valid bearer token and stores the
// resolved user in the request context.
func Auth(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w)
				return
			}

			user, err := resolver.UserFromToken(r.Context(), token)
			if err != nil {
				response.FromError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromCtx returns the authenticated user stored by Auth.
func UserFromCtx(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(*models.User)
	return user, ok
}

// WithUser stores a user in ctx. Exposed for handler tests.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
