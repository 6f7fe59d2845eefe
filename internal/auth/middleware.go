package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
)

// Middleware rejects requests without a valid bearer token and stores the
// caller's Identity in the request context.
func Middleware(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				deny(w, http.StatusUnauthorized, "authorization header required")
				return
			}

			id, err := issuer.Parse(strings.TrimSpace(token))
			if err != nil {
				deny(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole lets through only callers with the given role.
func RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if id.Role != role {
				deny(w, http.StatusForbidden, string(role)+" privileges required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
