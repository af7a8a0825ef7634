// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/forkful/forkful/pkg/middleware"
	"github.com/forkful/forkful/pkg/response"
)

// HasRole returns middleware that allows access only to users whose role is
// in the given allow-list. Requires middleware.Auth to have already run.
// Rejection is a 403: the caller is authenticated, just not permitted.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := middleware.UserFromCtx(r.Context())
			if !ok || !allowed[user.Role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsOwner reports whether the acting user owns a resource, comparing the
// identifiers as opaque strings.
func IsOwner(resourceOwnerID, actingUserID string) bool {
	return resourceOwnerID != "" && resourceOwnerID == actingUserID
}
