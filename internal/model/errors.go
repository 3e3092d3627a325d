package model

import "fmt"

// APIError is the unified domain error format. Every rule violation the
// engines can recover at the boundary is classified into one of these;
// raw internal error text is never passed through to a client.
type APIError struct {
	Code     string // stable error code
	Message  string // reader-facing message
	Category string // category: validation, target, moderation, system
	Field    string // offending field, validation errors only
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Defined error codes.
const (
	ErrCodeValidation          = "VALIDATION_FAILED"
	ErrCodeInvalidContentType  = "INVALID_CONTENT_TYPE"
	ErrCodeInvalidTarget       = "INVALID_TARGET"
	ErrCodeInvalidReactionKind = "INVALID_REACTION_KIND"
	ErrCodeCommentNotFound     = "COMMENT_NOT_FOUND"
	ErrCodeReactionConflict    = "REACTION_CONFLICT"
)

// NewValidationError reports a malformed or out-of-range submission
// field. Recovered at the boundary, never fatal.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  reason,
		Category: "validation",
		Field:    field,
	}
}

// NewInvalidContentTypeError reports a content_type token outside the
// enumerated set.
func NewInvalidContentTypeError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidContentType,
		Message:  fmt.Sprintf("invalid content type: %q", raw),
		Category: "validation",
		Field:    "content_type",
	}
}

// NewInvalidTargetError reports a target that did not resolve to an
// existing entity.
func NewInvalidTargetError(kind ContentKind, id int64) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTarget,
		Message:  fmt.Sprintf("no %s with id %d", kind, id),
		Category: "target",
	}
}

// NewInvalidReactionKindError reports a reaction_type token outside the
// enumerated set.
func NewInvalidReactionKindError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidReactionKind,
		Message:  fmt.Sprintf("invalid reaction type: %q", raw),
		Category: "validation",
		Field:    "reaction_type",
	}
}

// NewCommentNotFoundError reports a moderation action on a comment that
// does not exist.
func NewCommentNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotFound,
		Message:  fmt.Sprintf("no comment with id %d", id),
		Category: "moderation",
	}
}

// NewReactionConflictError reports a toggle that lost the insert race
// twice in a row. The state is consistent; the caller may safely retry.
func NewReactionConflictError() *APIError {
	return &APIError{
		Code:     ErrCodeReactionConflict,
		Message:  "reaction was changed concurrently, please retry",
		Category: "system",
	}
}
