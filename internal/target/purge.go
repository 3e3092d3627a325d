package target

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ishan/vaahaka/internal/metrics"
	"github.com/ishan/vaahaka/internal/model"
	"github.com/ishan/vaahaka/internal/repository"
)

// PurgeService removes every attachment of a target when its owning
// entity is destroyed. Without this, deleting a story would leave its
// comments, their reactions and its own reactions orphaned forever.
type PurgeService struct {
	purger    repository.AttachmentPurger
	collector metrics.MetricsCollector
	logger    *slog.Logger
}

// NewPurgeService creates a PurgeService.
func NewPurgeService(purger repository.AttachmentPurger, collector metrics.MetricsCollector, logger *slog.Logger) *PurgeService {
	return &PurgeService{purger: purger, collector: collector, logger: logger}
}

// Purge deletes all comments and reactions attached to the target,
// including reactions attached to the target's comments, in one
// transaction. Returns the number of rows removed.
func (s *PurgeService) Purge(ctx context.Context, target model.Target) (int64, error) {
	removed, err := s.purger.PurgeTarget(ctx, target)
	if err != nil {
		return 0, fmt.Errorf("purge attachments: %w", err)
	}

	s.collector.RecordPurgedAttachments(removed)
	s.logger.Info("purged attachments",
		slog.String("target_kind", string(target.Kind)),
		slog.Int64("target_id", target.ID),
		slog.Int64("removed", removed),
	)
	return removed, nil
}
