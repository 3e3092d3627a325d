// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// contextKey is a type-safe key for context values.
type contextKey string

// clientIPContextKey stores the resolved client IP in the request
// context.
var clientIPContextKey = contextKey("client_ip")

// NewClientIPMiddleware resolves each request's client IP and injects
// it into the request context. The first address in X-Forwarded-For
// wins when the header carries a parseable IP; otherwise the
// connection's remote address is used. Reaction deduplication keys on
// this value and storage types it as INET, so only a real IP may leave
// here. A forged non-IP header token must not be able to poison
// submissions.
func NewClientIPMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolveClientIP(r)
			ctx := context.WithValue(r.Context(), clientIPContextKey, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, as some test harnesses set it.
		return r.RemoteAddr
	}
	return host
}

// ClientIPFromContext returns the client IP resolved by the
// middleware.
func ClientIPFromContext(ctx context.Context) (string, error) {
	ip, ok := ctx.Value(clientIPContextKey).(string)
	if !ok || ip == "" {
		return "", fmt.Errorf("client IP not found in context")
	}
	return ip, nil
}

// ContextWithClientIP injects a client IP into the context. Used by
// tests and non-HTTP callers.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey, ip)
}
