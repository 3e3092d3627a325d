// Package comment implements comment submission and moderation.
package comment

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ishan/vaahaka/internal/metrics"
	"github.com/ishan/vaahaka/internal/model"
	"github.com/ishan/vaahaka/internal/notify"
	"github.com/ishan/vaahaka/internal/repository"
	"github.com/ishan/vaahaka/internal/security"
)

// notifyTimeout bounds the best-effort webhook delivery that runs
// after the submission response has already been decided.
const notifyTimeout = 10 * time.Second

// TargetResolver verifies that a submission's target exists and
// accepts comments.
type TargetResolver interface {
	ResolveCommentable(ctx context.Context, rawKind string, id int64) (model.Target, error)
}

// SubmitInput is one comment submission, fields as received from the
// client plus the source IP the transport extracted.
type SubmitInput struct {
	RawKind  string // content_type token
	TargetID int64
	Username string
	Body     string
	Email    string // optional
	SourceIP string
}

// Service validates and persists comment submissions.
type Service struct {
	comments  repository.CommentRepository
	resolver  TargetResolver
	sanitizer security.CommentSanitizerService
	notifier  notify.CommentNotifier
	collector metrics.MetricsCollector
	logger    *slog.Logger
}

// NewService creates a comment Service.
func NewService(
	comments repository.CommentRepository,
	resolver TargetResolver,
	sanitizer security.CommentSanitizerService,
	notifier notify.CommentNotifier,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
) *Service {
	return &Service{
		comments:  comments,
		resolver:  resolver,
		sanitizer: sanitizer,
		notifier:  notifier,
		collector: collector,
		logger:    logger,
	}
}

// Submit validates the submission, resolves its target and stores the
// comment. Comments are approved immediately; moderation demotes them
// later if needed. The stored username and body are sanitized plain
// text, trimmed, and validated after both transformations so the
// length rules hold for what is actually persisted.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*model.Comment, error) {
	username := strings.TrimSpace(s.sanitizer.Sanitize(input.Username))
	body := strings.TrimSpace(s.sanitizer.Sanitize(input.Body))

	// Length limits count characters, not bytes. Thaana text is two
	// bytes per rune, so a byte count would halve the effective limits
	// for Dhivehi submissions and disagree with the char_length checks
	// in the schema.
	if utf8.RuneCountInString(username) < model.CommentUsernameMinLen {
		s.collector.RecordCommentRejected("validation")
		return nil, model.NewValidationError("username", fmt.Sprintf("name must be at least %d characters", model.CommentUsernameMinLen))
	}
	if utf8.RuneCountInString(username) > model.CommentUsernameMaxLen {
		s.collector.RecordCommentRejected("validation")
		return nil, model.NewValidationError("username", fmt.Sprintf("name must be at most %d characters", model.CommentUsernameMaxLen))
	}
	if utf8.RuneCountInString(body) < model.CommentBodyMinLen {
		s.collector.RecordCommentRejected("validation")
		return nil, model.NewValidationError("comment", fmt.Sprintf("comment must be at least %d characters", model.CommentBodyMinLen))
	}

	email := strings.TrimSpace(input.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			s.collector.RecordCommentRejected("validation")
			return nil, model.NewValidationError("email", "invalid email address")
		}
	}

	target, err := s.resolver.ResolveCommentable(ctx, input.RawKind, input.TargetID)
	if err != nil {
		s.collector.RecordCommentRejected("target")
		return nil, err
	}

	comment := &model.Comment{
		Target:     target,
		Username:   username,
		Body:       body,
		Email:      email,
		IsApproved: true,
		SourceIP:   input.SourceIP,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to store comment: %w", err)
	}

	s.collector.RecordCommentAccepted(string(target.Kind))
	s.logger.Info("comment accepted",
		slog.Int64("comment_id", comment.ID),
		slog.String("target_kind", string(target.Kind)),
		slog.Int64("target_id", target.ID),
	)

	// Delivery happens off the request path. The submission already
	// succeeded; a webhook failure is logged by the notifier and
	// otherwise ignored.
	go func(c model.Comment) {
		nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		_ = s.notifier.NotifyComment(nctx, &c)
	}(*comment)

	return comment, nil
}

// ListApproved returns the approved comments attached to a target,
// newest first.
func (s *Service) ListApproved(ctx context.Context, target model.Target) ([]*model.Comment, error) {
	comments, err := s.comments.ListByTarget(ctx, target, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
