package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ishan/vaahaka/internal/model"
	"github.com/ishan/vaahaka/internal/repository"
)

// ModerationService applies moderation actions to stored comments.
// All operations are admin-only at the transport layer.
type ModerationService struct {
	comments repository.CommentRepository
	purger   repository.AttachmentPurger
	logger   *slog.Logger
}

// NewModerationService creates a ModerationService.
func NewModerationService(
	comments repository.CommentRepository,
	purger repository.AttachmentPurger,
	logger *slog.Logger,
) *ModerationService {
	return &ModerationService{
		comments: comments,
		purger:   purger,
		logger:   logger,
	}
}

// SetApproved flips a comment's approval. Unapproved comments stay
// stored but disappear from listings and engagement counts.
func (s *ModerationService) SetApproved(ctx context.Context, id int64, approved bool) error {
	found, err := s.comments.SetApproved(ctx, id, approved)
	if err != nil {
		return fmt.Errorf("failed to update approval: %w", err)
	}
	if !found {
		return model.NewCommentNotFoundError(id)
	}

	s.logger.Info("comment approval changed",
		slog.Int64("comment_id", id),
		slog.Bool("approved", approved),
	)
	return nil
}

// SetFeatured flips a comment's featured flag.
func (s *ModerationService) SetFeatured(ctx context.Context, id int64, featured bool) error {
	found, err := s.comments.SetFeatured(ctx, id, featured)
	if err != nil {
		return fmt.Errorf("failed to update featured flag: %w", err)
	}
	if !found {
		return model.NewCommentNotFoundError(id)
	}

	s.logger.Info("comment featured flag changed",
		slog.Int64("comment_id", id),
		slog.Bool("featured", featured),
	)
	return nil
}

// Delete removes a comment and, first, every reaction attached to it.
// The reactions must go before the comment row or they would be
// orphaned with no remaining way to find them.
func (s *ModerationService) Delete(ctx context.Context, id int64) error {
	existing, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if existing == nil {
		return model.NewCommentNotFoundError(id)
	}

	commentTarget := model.Target{Kind: model.ContentKindComment, ID: id}
	removed, err := s.purger.PurgeTarget(ctx, commentTarget)
	if err != nil {
		return fmt.Errorf("failed to purge comment attachments: %w", err)
	}

	found, err := s.comments.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if !found {
		// Raced with another delete; the purge already ran, nothing
		// left to do.
		return model.NewCommentNotFoundError(id)
	}

	s.logger.Info("comment deleted",
		slog.Int64("comment_id", id),
		slog.Int64("purged_attachments", removed),
	)
	return nil
}

// ListForModeration returns all comments attached to a target,
// including unapproved ones, newest first.
func (s *ModerationService) ListForModeration(ctx context.Context, target model.Target) ([]*model.Comment, error) {
	comments, err := s.comments.ListByTarget(ctx, target, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
