// Package identity resolves the authenticated caller at the HTTP
// boundary. Credentials are issued and validated upstream; this service
// trusts the identity headers set by the fronting proxy and only turns
// them into an explicit caller that handlers pass into the core.
package identity

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

const (
	userIDHeader = "X-User-Id"
	roleHeader   = "X-User-Role"

	roleAdmin = "admin"
)

type Caller struct {
	ID      uuid.UUID
	IsAdmin bool
}

type contextKey struct{}

// FromContext returns the caller placed by Authenticate. The second
// return is false on requests that never passed through the middleware.
func FromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(contextKey{}).(Caller)
	return caller, ok
}

// WithCaller returns a context carrying the given caller.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// Authenticate rejects requests without a parseable caller id and stores
// the caller on the request context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(userIDHeader))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing or invalid caller identity")
			return
		}

		caller := Caller{
			ID:      id,
			IsAdmin: r.Header.Get(roleHeader) == roleAdmin,
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// RequireAdmin guards administrative routes. It assumes Authenticate ran
// earlier in the chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing or invalid caller identity")
			return
		}
		if !caller.IsAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
