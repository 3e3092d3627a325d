package middleware

import (
	"crypto/subtle"
	"net/http"
)

// adminTokenHeader carries the moderation token.
const adminTokenHeader = "X-Admin-Token"

// NewAdminAuthMiddleware guards the moderation endpoints with a
// constant-time token comparison. There are no reader accounts in this
// system, so a single shared token is the whole admin surface.
func NewAdminAuthMiddleware(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(adminTokenHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponseBody{
					Success: false,
					Error:   "unauthorized",
					Code:    "UNAUTHORIZED",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
