package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ishan/vaahaka/internal/comment"
	"github.com/ishan/vaahaka/internal/middleware"
	"github.com/ishan/vaahaka/internal/model"
)

// CommentServiceInterface is the service surface the comment handler
// needs.
type CommentServiceInterface interface {
	// Submit validates and stores a comment submission.
	Submit(ctx context.Context, input comment.SubmitInput) (*model.Comment, error)
	// ListApproved returns the approved comments on a target, newest first.
	ListApproved(ctx context.Context, target model.Target) ([]*model.Comment, error)
}

// CommentHandler handles comment submission and listing.
type CommentHandler struct {
	service  CommentServiceInterface
	resolver TargetResolver
	logger   *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(service CommentServiceInterface, resolver TargetResolver, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		service:  service,
		resolver: resolver,
		logger:   logger,
	}
}

// addCommentRequest is the comment submission body.
type addCommentRequest struct {
	ContentType string `json:"content_type"`
	ObjectID    int64  `json:"object_id"`
	Username    string `json:"username"`
	Comment     string `json:"comment"`
	Email       string `json:"email,omitempty"`
}

// addCommentResponse is the successful submission response.
type addCommentResponse struct {
	Success   bool   `json:"success"`
	CommentID int64  `json:"comment_id"`
	Message   string `json:"message"`
}

// commentResponse is one comment in a listing.
type commentResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Comment    string    `json:"comment"`
	IsFeatured bool      `json:"is_featured"`
	CreatedAt  time.Time `json:"created_at"`
}

// listCommentsResponse is the comment listing response.
type listCommentsResponse struct {
	Success  bool              `json:"success"`
	Comments []commentResponse `json:"comments"`
}

// AddComment handles a comment submission.
// POST /api/comments/add
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteBadRequest(w, "invalid request body")
		return
	}

	sourceIP, err := middleware.ClientIPFromContext(r.Context())
	if err != nil {
		// The client IP middleware did not run; a wiring bug, not a
		// client error.
		h.logger.Error("client ip missing on comment submission")
		middleware.WriteInternalServerError(w)
		return
	}

	created, err := h.service.Submit(r.Context(), comment.SubmitInput{
		RawKind:  req.ContentType,
		TargetID: req.ObjectID,
		Username: req.Username,
		Body:     req.Comment,
		Email:    req.Email,
		SourceIP: sourceIP,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, addCommentResponse{
		Success:   true,
		CommentID: created.ID,
		Message:   "comment published",
	})
}

// ListComments returns the approved comments on a target.
// GET /api/comments?content_type=...&object_id=...
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
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

	comments, err := h.service.ListApproved(r.Context(), target)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, listCommentsResponse{
		Success:  true,
		Comments: toCommentResponses(comments),
	})
}

func toCommentResponses(comments []*model.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentResponse{
			ID:         c.ID,
			Username:   c.Username,
			Comment:    c.Body,
			IsFeatured: c.IsFeatured,
			CreatedAt:  c.CreatedAt,
		})
	}
	return out
}
