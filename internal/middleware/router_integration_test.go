package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// TestRouterIntegration_PublicAndAdminGroups verifies the middleware
// chain wired into chi the way the application router does it: the
// public group behind rate limiting, the admin group additionally
// behind the token check.
func TestRouterIntegration_PublicAndAdminGroups(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     100,
		GeneralBurst:    100,
		SubmissionRate:  100,
		SubmissionBurst: 100,
		CleanupInterval: time.Minute,
	})
	defer limiter.Stop()

	r := chi.NewRouter()
	r.Use(NewRequestIDMiddleware())
	r.Use(NewClientIPMiddleware())
	r.Use(NewLanguageMiddleware())

	r.Group(func(r chi.Router) {
		r.Use(limiter.GeneralMiddleware())
		r.Get("/api/stories", func(w http.ResponseWriter, r *http.Request) {
			WriteJSON(w, http.StatusOK, map[string]any{"success": true})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(NewAdminAuthMiddleware("router-test-token"))
		r.Post("/api/admin/comments/1/approve", func(w http.ResponseWriter, r *http.Request) {
			WriteJSON(w, http.StatusOK, map[string]any{"success": true})
		})
	})

	t.Run("public route without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/stories", nil)
		req.RemoteAddr = "198.51.100.1:1000"
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
		}
		if w.Result().Header.Get(requestIDHeader) == "" {
			t.Error("expected request ID header on public route")
		}
	})

	t.Run("admin route without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/comments/1/approve", nil)
		req.RemoteAddr = "198.51.100.1:1000"
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("admin route with token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/comments/1/approve", nil)
		req.RemoteAddr = "198.51.100.1:1000"
		req.Header.Set(adminTokenHeader, "router-test-token")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
		}
	})
}

// TestRouterIntegration_SubmissionRateLimit verifies that the tighter
// submission limiter applies on top of the general one.
func TestRouterIntegration_SubmissionRateLimit(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     1000,
		GeneralBurst:    1000,
		SubmissionRate:  2,
		SubmissionBurst: 2,
		CleanupInterval: time.Minute,
	})
	defer limiter.Stop()

	r := chi.NewRouter()
	r.Use(NewClientIPMiddleware())
	r.Use(limiter.GeneralMiddleware())

	r.Group(func(r chi.Router) {
		r.Use(limiter.SubmissionMiddleware())
		r.Post("/api/comments/add", func(w http.ResponseWriter, r *http.Request) {
			WriteJSON(w, http.StatusOK, map[string]any{"success": true})
		})
	})

	doPost := func() *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/comments/add", nil)
		req.RemoteAddr = "203.0.113.50:2000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Result()
	}

	for i := 0; i < 2; i++ {
		if resp := doPost(); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, resp.StatusCode, http.StatusOK)
		}
	}

	resp := doPost()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("code = %q, want %q", body.Code, "RATE_LIMIT_EXCEEDED")
	}
}
