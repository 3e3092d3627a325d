package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func adminRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/comments/1/approve", nil)
	if token != "" {
		req.Header.Set(adminTokenHeader, token)
	}
	return req
}

func TestAdminAuthMiddleware_ValidToken(t *testing.T) {
	handlerCalled := false
	handler := NewAdminAuthMiddleware("secret-token")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest("secret-token"))

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if !handlerCalled {
		t.Error("handler should have been called")
	}
}

func TestAdminAuthMiddleware_RejectsWrongToken(t *testing.T) {
	handler := NewAdminAuthMiddleware("secret-token")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest("wrong-token"))

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want %q", body.Code, "UNAUTHORIZED")
	}
}

func TestAdminAuthMiddleware_RejectsMissingToken(t *testing.T) {
	handler := NewAdminAuthMiddleware("secret-token")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest(""))

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAdminAuthMiddleware_EmptyConfiguredTokenRejectsEmptyHeader(t *testing.T) {
	// A misconfigured empty token must not open the admin surface.
	handler := NewAdminAuthMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, adminRequest(""))

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
