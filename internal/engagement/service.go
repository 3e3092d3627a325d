// Package engagement computes on-demand engagement counts for content
// entities. Nothing here is cached or denormalized; every figure is a
// fresh count so moderation changes and toggles show up immediately.
package engagement

import (
	"context"
	"fmt"

	"github.com/ishan/vaahaka/internal/model"
	"github.com/ishan/vaahaka/internal/repository"
)

// Summary is the full engagement picture for one target.
type Summary struct {
	Target    model.Target
	Comments  int // approved comments only
	Reactions int // reactions of all kinds
	Hearts    int
	Breakdown map[model.ReactionKind]int
}

// Service aggregates comment and reaction counts.
type Service struct {
	comments  repository.CommentRepository
	reactions repository.ReactionRepository
}

// NewService creates an engagement Service.
func NewService(comments repository.CommentRepository, reactions repository.ReactionRepository) *Service {
	return &Service{comments: comments, reactions: reactions}
}

// TotalApprovedComments counts the approved comments on a target.
// Unapproved comments are stored but invisible here.
func (s *Service) TotalApprovedComments(ctx context.Context, target model.Target) (int, error) {
	n, err := s.comments.CountApprovedByTarget(ctx, target)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return n, nil
}

// TotalReactions counts reactions of every kind on a target.
func (s *Service) TotalReactions(ctx context.Context, target model.Target) (int, error) {
	n, err := s.reactions.CountByTarget(ctx, target)
	if err != nil {
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return n, nil
}

// HeartReactions counts heart reactions on a target.
func (s *Service) HeartReactions(ctx context.Context, target model.Target) (int, error) {
	n, err := s.reactions.CountByTargetAndKind(ctx, target, model.ReactionKindHeart)
	if err != nil {
		return 0, fmt.Errorf("failed to count heart reactions: %w", err)
	}
	return n, nil
}

// Summarize collects every engagement figure for a target in one call.
func (s *Service) Summarize(ctx context.Context, target model.Target) (*Summary, error) {
	comments, err := s.comments.CountApprovedByTarget(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	breakdown, err := s.reactions.BreakdownByTarget(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to break down reactions: %w", err)
	}

	total := 0
	for _, n := range breakdown {
		total += n
	}

	return &Summary{
		Target:    target,
		Comments:  comments,
		Reactions: total,
		Hearts:    breakdown[model.ReactionKindHeart],
		Breakdown: breakdown,
	}, nil
}
