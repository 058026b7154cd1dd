// internal/auth/middleware.go
package auth

import (
	"context"
	"net/http"
)

type contextKey string

const ownerKey contextKey = "ownerID"

// RequireOwner extracts the owner id supplied by the authentication
// layer (an upstream collaborator) and rejects requests without one.
// Every record set and sync operation is scoped to this owner.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := r.Header.Get("X-Owner-ID")
		if ownerID == "" {
			http.Error(w, "missing owner", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ownerKey, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerID returns the owner id placed on the request context by
// RequireOwner.
func OwnerID(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey).(string)
	return owner
}
