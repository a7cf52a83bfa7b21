package httpapi

import (
	"context"
	"net/http"
)

// contextKey keeps request-scoped values typed so unrelated middleware can
// never collide on a bare string key.
type contextKey int

const userIDKey contextKey = iota

// AuthMiddleware extracts the caller identity from the X-User-ID header.
// Real token validation lives at the edge proxy; by the time a request
// reaches this service the header is trusted.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}

// requireUser writes a 401 and returns "" when no identity is present.
func requireUser(w http.ResponseWriter, r *http.Request) string {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
	}
	return userID
}
