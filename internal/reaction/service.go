// Package reaction implements the idempotent reaction toggle.
package reaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ishan/vaahaka/internal/metrics"
	"github.com/ishan/vaahaka/internal/model"
	"github.com/ishan/vaahaka/internal/repository"
)

// Toggle actions.
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// TargetResolver verifies that a toggle's target exists. Reactions
// attach to every content kind, comments included.
type TargetResolver interface {
	Resolve(ctx context.Context, rawKind string, id int64) (model.Target, error)
}

// ToggleInput is one reaction toggle as received from the client plus
// the source IP the transport extracted.
type ToggleInput struct {
	RawKind     string // content_type token
	TargetID    int64
	RawReaction string // reaction_type token, empty means heart
	Username    string // optional
	SourceIP    string
	UserAgent   string
}

// ToggleResult is the outcome of one toggle.
type ToggleResult struct {
	Action     string // ActionAdded or ActionRemoved
	ReactionID int64  // set when Action is ActionAdded
	NewTotal   int    // reactions of all kinds on the target, after the toggle
}

// Service flips reactions on and off.
type Service struct {
	reactions repository.ReactionRepository
	resolver  TargetResolver
	collector metrics.MetricsCollector
	logger    *slog.Logger
}

// NewService creates a reaction Service.
func NewService(
	reactions repository.ReactionRepository,
	resolver TargetResolver,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Service {
	return &Service{
		reactions: reactions,
		resolver:  resolver,
		collector: collector,
		logger:    logger,
	}
}

// Toggle adds the reaction if the (target, source IP, kind) tuple has
// no row and removes it if one exists. The delete runs first so a
// repeat submission is a cheap single statement; when the insert loses
// a race to a concurrent identical toggle, the unique constraint fires
// and the toggle retries once as a delete. Losing both races means two
// flips happened concurrently; state is consistent and the caller may
// retry.
func (s *Service) Toggle(ctx context.Context, input ToggleInput) (*ToggleResult, error) {
	raw := input.RawReaction
	if raw == "" {
		raw = string(model.ReactionKindHeart)
	}
	kind, ok := model.ParseReactionKind(raw)
	if !ok {
		return nil, model.NewInvalidReactionKindError(raw)
	}

	if input.SourceIP == "" {
		return nil, model.NewValidationError("source_ip", "client address could not be determined")
	}

	target, err := s.resolver.Resolve(ctx, input.RawKind, input.TargetID)
	if err != nil {
		return nil, err
	}

	result, err := s.flip(ctx, target, kind, input)
	if err != nil {
		return nil, err
	}

	total, err := s.reactions.CountByTarget(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to count reactions: %w", err)
	}
	result.NewTotal = total

	s.collector.RecordReactionToggle(result.Action, string(kind))
	s.logger.Info("reaction toggled",
		slog.String("action", result.Action),
		slog.String("reaction_kind", string(kind)),
		slog.String("target_kind", string(target.Kind)),
		slog.Int64("target_id", target.ID),
	)
	return result, nil
}

func (s *Service) flip(ctx context.Context, target model.Target, kind model.ReactionKind, input ToggleInput) (*ToggleResult, error) {
	removed, err := s.reactions.DeleteMatch(ctx, target, input.SourceIP, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to remove reaction: %w", err)
	}
	if removed {
		return &ToggleResult{Action: ActionRemoved}, nil
	}

	reaction := &model.Reaction{
		Target:    target,
		Kind:      kind,
		Username:  input.Username,
		SourceIP:  input.SourceIP,
		UserAgent: input.UserAgent,
	}
	err = s.reactions.Create(ctx, reaction)
	if err == nil {
		return &ToggleResult{Action: ActionAdded, ReactionID: reaction.ID}, nil
	}
	if !errors.Is(err, repository.ErrDuplicateReaction) {
		return nil, fmt.Errorf("failed to store reaction: %w", err)
	}

	// A concurrent identical toggle inserted between our delete and
	// insert. Their row is ours to remove.
	s.collector.RecordReactionConflictRetry()
	removed, err = s.reactions.DeleteMatch(ctx, target, input.SourceIP, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to remove reaction after conflict: %w", err)
	}
	if removed {
		return &ToggleResult{Action: ActionRemoved}, nil
	}
	return nil, model.NewReactionConflictError()
}
