package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader is echoed back so support can correlate a reader's
// report with the logs.
const requestIDHeader = "X-Request-ID"

var requestIDContextKey = contextKey("request_id")

// NewRequestIDMiddleware assigns a UUID to every request, stores it in
// the context and echoes it in the response header. An incoming
// X-Request-ID from a trusted proxy is kept.
func NewRequestIDMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)
			ctx := context.WithValue(r.Context(), requestIDContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the request's ID, or the empty string
// when the middleware did not run.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}
