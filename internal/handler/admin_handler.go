package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ishan/vaahaka/internal/middleware"
	"github.com/ishan/vaahaka/internal/model"
)

// ModerationServiceInterface is the moderation surface the admin
// handler needs.
type ModerationServiceInterface interface {
	// SetApproved flips a comment's approval flag.
	SetApproved(ctx context.Context, id int64, approved bool) error
	// SetFeatured flips a comment's featured flag.
	SetFeatured(ctx context.Context, id int64, featured bool) error
	// Delete removes a comment and its attached reactions.
	Delete(ctx context.Context, id int64) error
	// ListForModeration returns all comments on a target, unapproved
	// included.
	ListForModeration(ctx context.Context, target model.Target) ([]*model.Comment, error)
}

// AttachmentPurgerInterface is the cascade hook for entity deletion.
type AttachmentPurgerInterface interface {
	// Purge removes every comment and reaction attached to a target.
	Purge(ctx context.Context, target model.Target) (int64, error)
}

// AdminHandler handles the token-guarded moderation endpoints.
type AdminHandler struct {
	moderation ModerationServiceInterface
	purger     AttachmentPurgerInterface
	resolver   TargetResolver
	logger     *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	moderation ModerationServiceInterface,
	purger AttachmentPurgerInterface,
	resolver TargetResolver,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		moderation: moderation,
		purger:     purger,
		resolver:   resolver,
		logger:     logger,
	}
}

// setApprovalRequest is the approval flag body.
type setApprovalRequest struct {
	Approved bool `json:"approved"`
}

// setFeaturedRequest is the featured flag body.
type setFeaturedRequest struct {
	Featured bool `json:"featured"`
}

// moderationCommentResponse is one comment in the moderation listing.
// Unlike the public listing it exposes the moderation flags, the email
// and the source IP.
type moderationCommentResponse struct {
	commentResponse
	Email      string `json:"email,omitempty"`
	IsApproved bool   `json:"is_approved"`
	SourceIP   string `json:"source_ip,omitempty"`
}

// ListComments returns every comment on a target, unapproved included.
// GET /api/admin/comments?content_type=...&object_id=...
func (h *AdminHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	rawKind, objectID, err := targetQuery(r)
	if err != nil {
		middleware.WriteBadRequest(w, "object_id must be an integer")
		return
	}

	target, err := h.resolver.ResolveCommentable(r.Context(), rawKind, objectID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	comments, err := h.moderation.ListForModeration(r.Context(), target)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	out := make([]moderationCommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, moderationCommentResponse{
			commentResponse: commentResponse{
				ID:         c.ID,
				Username:   c.Username,
				Comment:    c.Body,
				IsFeatured: c.IsFeatured,
				CreatedAt:  c.CreatedAt,
			},
			Email:      c.Email,
			IsApproved: c.IsApproved,
			SourceIP:   c.SourceIP,
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"comments": out,
	})
}

// SetApproval flips a comment's approval flag.
// PUT /api/admin/comments/{id}/approval
func (h *AdminHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.WriteBadRequest(w, "id must be an integer")
		return
	}

	var req setApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := h.moderation.SetApproved(r.Context(), id, req.Approved); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// SetFeatured flips a comment's featured flag.
// PUT /api/admin/comments/{id}/featured
func (h *AdminHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.WriteBadRequest(w, "id must be an integer")
		return
	}

	var req setFeaturedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := h.moderation.SetFeatured(r.Context(), id, req.Featured); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DeleteComment removes a comment together with its reactions.
// DELETE /api/admin/comments/{id}
func (h *AdminHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.WriteBadRequest(w, "id must be an integer")
		return
	}

	if err := h.moderation.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// PurgeTarget removes every attachment of a target. The owning
// entity's lifecycle calls this before destroying the entity itself.
// DELETE /api/admin/targets/{kind}/{id}/attachments
func (h *AdminHandler) PurgeTarget(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteBadRequest(w, "id must be an integer")
		return
	}

	target, err := h.resolver.Resolve(r.Context(), chi.URLParam(r, "kind"), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	purged, err := h.purger.Purge(r.Context(), target)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"purged":  purged,
	})
}
