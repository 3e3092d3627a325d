package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ishan/vaahaka/internal/model"
)

// PostgresPurgeRepo removes all attachments of a target. It is the hook
// the owning entity's lifecycle calls when the entity is destroyed, so
// that orphaned comments and reactions never survive their target.
type PostgresPurgeRepo struct {
	db *sql.DB
}

// NewPostgresPurgeRepo creates a PostgresPurgeRepo.
func NewPostgresPurgeRepo(db *sql.DB) *PostgresPurgeRepo {
	return &PostgresPurgeRepo{db: db}
}

// PurgeTarget deletes, in one transaction: reactions attached to the
// target's comments, the comments themselves, and reactions attached to
// the target directly. Returns the total number of rows removed.
func (r *PostgresPurgeRepo) PurgeTarget(ctx context.Context, target model.Target) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin purge: %w", err)
	}
	defer tx.Rollback()

	var total int64

	// Reactions on the target's comments go first; once the comments are
	// gone there is no way to find them.
	res, err := tx.ExecContext(ctx,
		`DELETE FROM reactions
		 WHERE target_kind = $1 AND target_id IN (
		     SELECT id FROM comments WHERE target_kind = $2 AND target_id = $3
		 )`,
		model.ContentKindComment, target.Kind, target.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("purge comment reactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge comment reactions: %w", err)
	}
	total += n

	res, err = tx.ExecContext(ctx,
		`DELETE FROM comments WHERE target_kind = $1 AND target_id = $2`,
		target.Kind, target.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("purge comments: %w", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge comments: %w", err)
	}
	total += n

	res, err = tx.ExecContext(ctx,
		`DELETE FROM reactions WHERE target_kind = $1 AND target_id = $2`,
		target.Kind, target.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("purge reactions: %w", err)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge reactions: %w", err)
	}
	total += n

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit purge: %w", err)
	}

	return total, nil
}

// compile-time interface check
var _ AttachmentPurger = (*PostgresPurgeRepo)(nil)
