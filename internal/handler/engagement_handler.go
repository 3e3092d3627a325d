package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ishan/vaahaka/internal/engagement"
	"github.com/ishan/vaahaka/internal/middleware"
	"github.com/ishan/vaahaka/internal/model"
)

// EngagementServiceInterface is the service surface the engagement
// handler needs.
type EngagementServiceInterface interface {
	// Summarize collects every engagement figure for a target.
	Summarize(ctx context.Context, target model.Target) (*engagement.Summary, error)
}

// EngagementHandler serves engagement counts for one target.
type EngagementHandler struct {
	service  EngagementServiceInterface
	resolver TargetResolver
	logger   *slog.Logger
}

// NewEngagementHandler creates an EngagementHandler.
func NewEngagementHandler(service EngagementServiceInterface, resolver TargetResolver, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{
		service:  service,
		resolver: resolver,
		logger:   logger,
	}
}

// engagementResponse carries the counts for one target. Counts are
// recomputed on every request, never cached.
type engagementResponse struct {
	Success   bool           `json:"success"`
	Comments  int            `json:"comments"`
	Reactions int            `json:"reactions"`
	Hearts    int            `json:"hearts"`
	Breakdown map[string]int `json:"breakdown"`
}

// GetEngagement returns the engagement counts for a target.
// GET /api/engagement?content_type=...&object_id=...
func (h *EngagementHandler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	rawKind, objectID, err := targetQuery(r)
	if err != nil {
		middleware.WriteBadRequest(w, "object_id must be an integer")
		return
	}

	target, err := h.resolver.Resolve(r.Context(), rawKind, objectID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	summary, err := h.service.Summarize(r.Context(), target)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toEngagementResponse(summary))
}

func toEngagementResponse(summary *engagement.Summary) engagementResponse {
	breakdown := make(map[string]int, len(summary.Breakdown))
	for kind, n := range summary.Breakdown {
		breakdown[string(kind)] = n
	}
	return engagementResponse{
		Success:   true,
		Comments:  summary.Comments,
		Reactions: summary.Reactions,
		Hearts:    summary.Hearts,
		Breakdown: breakdown,
	}
}
