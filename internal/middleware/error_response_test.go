package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ishan/vaahaka/internal/model"
)

func TestWriteDomainError_Returns200WithSuccessFalse(t *testing.T) {
	w := httptest.NewRecorder()

	WriteDomainError(w, model.NewValidationError("username", "username must be at least 2 characters"))

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Error != "username must be at least 2 characters" {
		t.Errorf("error = %q, want validation message", body.Error)
	}
	if body.Code != model.ErrCodeValidation {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeValidation)
	}
	if body.Field != "username" {
		t.Errorf("field = %q, want %q", body.Field, "username")
	}
}

func TestWriteDomainError_OmitsEmptyField(t *testing.T) {
	w := httptest.NewRecorder()

	WriteDomainError(w, model.NewInvalidTargetError(model.ContentKindStory, 42))

	var raw map[string]interface{}
	if err := json.NewDecoder(w.Result().Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if _, ok := raw["field"]; ok {
		t.Error("field should be omitted when empty")
	}
}

func TestWriteBadRequest(t *testing.T) {
	w := httptest.NewRecorder()

	WriteBadRequest(w, "invalid request body")

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Code != "BAD_REQUEST" {
		t.Errorf("code = %q, want %q", body.Code, "BAD_REQUEST")
	}
	if body.Error != "invalid request body" {
		t.Errorf("error = %q, want %q", body.Error, "invalid request body")
	}
}

func TestWriteServiceUnavailable(t *testing.T) {
	w := httptest.NewRecorder()

	WriteServiceUnavailable(w)

	resp := w.Result()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if body.Code != "STORAGE_UNAVAILABLE" {
		t.Errorf("code = %q, want %q", body.Code, "STORAGE_UNAVAILABLE")
	}
	if body.Error == "" {
		t.Error("error message should not be empty")
	}
}

func TestWriteInternalServerError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteInternalServerError(w)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want %q", body.Code, "INTERNAL_ERROR")
	}
}

func TestWriteJSON_ArbitraryPayload(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"comment_id": 7,
	})

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if raw["success"] != true {
		t.Errorf("success = %v, want true", raw["success"])
	}
	if raw["comment_id"].(float64) != 7 {
		t.Errorf("comment_id = %v, want 7", raw["comment_id"])
	}
}
