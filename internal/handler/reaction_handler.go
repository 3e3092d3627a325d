package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ishan/vaahaka/internal/middleware"
	"github.com/ishan/vaahaka/internal/reaction"
)

// ReactionServiceInterface is the service surface the reaction handler
// needs.
type ReactionServiceInterface interface {
	// Toggle flips a reaction on or off for (target, source IP, kind).
	Toggle(ctx context.Context, input reaction.ToggleInput) (*reaction.ToggleResult, error)
}

// ReactionHandler handles reaction toggles.
type ReactionHandler struct {
	service ReactionServiceInterface
	logger  *slog.Logger
}

// NewReactionHandler creates a ReactionHandler.
func NewReactionHandler(service ReactionServiceInterface, logger *slog.Logger) *ReactionHandler {
	return &ReactionHandler{
		service: service,
		logger:  logger,
	}
}

// addReactionRequest is the reaction toggle body. reaction_type
// defaults to heart when omitted.
type addReactionRequest struct {
	ContentType  string `json:"content_type"`
	ObjectID     int64  `json:"object_id"`
	ReactionType string `json:"reaction_type,omitempty"`
	Username     string `json:"username,omitempty"`
}

// addReactionResponse is the toggle response. reaction_id is present
// only when the toggle added a reaction.
type addReactionResponse struct {
	Success        bool   `json:"success"`
	Action         string `json:"action"`
	TotalReactions int    `json:"total_reactions"`
	ReactionID     int64  `json:"reaction_id,omitempty"`
}

// AddReaction handles a reaction toggle.
// POST /api/reactions/add
func (h *ReactionHandler) AddReaction(w http.ResponseWriter, r *http.Request) {
	var req addReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteBadRequest(w, "invalid request body")
		return
	}

	sourceIP, err := middleware.ClientIPFromContext(r.Context())
	if err != nil {
		h.logger.Error("client ip missing on reaction toggle")
		middleware.WriteInternalServerError(w)
		return
	}

	result, err := h.service.Toggle(r.Context(), reaction.ToggleInput{
		RawKind:     req.ContentType,
		TargetID:    req.ObjectID,
		RawReaction: req.ReactionType,
		Username:    req.Username,
		SourceIP:    sourceIP,
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, addReactionResponse{
		Success:        true,
		Action:         result.Action,
		TotalReactions: result.NewTotal,
		ReactionID:     result.ReactionID,
	})
}
