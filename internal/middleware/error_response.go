package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/ishan/vaahaka/internal/model"
)

// ErrorResponseBody is the unified error response format. Domain rule
// violations travel in an HTTP 200 with success false; transport and
// infrastructure failures use real error status codes.
type ErrorResponseBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// WriteDomainError writes a recovered domain error. The request was
// understood and processed; the submission just broke a rule, so the
// transport status stays 200.
func WriteDomainError(w http.ResponseWriter, apiErr *model.APIError) {
	WriteJSON(w, http.StatusOK, ErrorResponseBody{
		Success: false,
		Error:   apiErr.Message,
		Code:    apiErr.Code,
		Field:   apiErr.Field,
	})
}

// WriteBadRequest writes a malformed-request response. Only used for
// requests that could not be parsed at all.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponseBody{
		Success: false,
		Error:   message,
		Code:    "BAD_REQUEST",
	})
}

// WriteServiceUnavailable writes the storage-failure response. Details
// go to the log only; the client gets a generic retryable message.
func WriteServiceUnavailable(w http.ResponseWriter) {
	WriteJSON(w, http.StatusServiceUnavailable, ErrorResponseBody{
		Success: false,
		Error:   "service is temporarily unavailable, please try again",
		Code:    "STORAGE_UNAVAILABLE",
	})
}

// WriteInternalServerError writes the generic unexpected-failure
// response.
func WriteInternalServerError(w http.ResponseWriter) {
	WriteJSON(w, http.StatusInternalServerError, ErrorResponseBody{
		Success: false,
		Error:   "an internal error occurred, please try again later",
		Code:    "INTERNAL_ERROR",
	})
}
