// Package handler exposes the HTTP API.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ishan/vaahaka/internal/middleware"
	"github.com/ishan/vaahaka/internal/model"
)

// TargetResolver maps untrusted (content_type, object_id) pairs to
// validated targets. Satisfied by target.Resolver.
type TargetResolver interface {
	Resolve(ctx context.Context, rawKind string, id int64) (model.Target, error)
	ResolveCommentable(ctx context.Context, rawKind string, id int64) (model.Target, error)
}

// writeServiceError maps a service-layer error onto the wire contract.
// Domain rule violations are APIErrors and travel as HTTP 200 bodies
// with success false; anything else is a storage failure, logged in
// full and answered with a generic retryable 503.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteDomainError(w, apiErr)
		return
	}

	logger.Error("storage failure", slog.String("error", err.Error()))
	middleware.WriteServiceUnavailable(w)
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// targetQuery reads the content_type and object_id query parameters
// used by the comment list and engagement endpoints.
func targetQuery(r *http.Request) (rawKind string, id int64, err error) {
	rawKind = r.URL.Query().Get("content_type")
	id, err = strconv.ParseInt(r.URL.Query().Get("object_id"), 10, 64)
	return rawKind, id, err
}
