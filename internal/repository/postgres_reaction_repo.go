package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ishan/vaahaka/internal/model"
)

// pqUniqueViolation is the PostgreSQL error code for a unique
// constraint violation.
const pqUniqueViolation = "23505"

// PostgresReactionRepo is the PostgreSQL reaction repository.
//
// The reactions table carries
// UNIQUE (target_kind, target_id, source_ip, reaction_kind); that index,
// not application logic, is what makes the toggle's uniqueness invariant
// hold under concurrent submissions.
type PostgresReactionRepo struct {
	db *sql.DB
}

// NewPostgresReactionRepo creates a PostgresReactionRepo.
func NewPostgresReactionRepo(db *sql.DB) *PostgresReactionRepo {
	return &PostgresReactionRepo{db: db}
}

// Create inserts the reaction and fills ID and CreatedAt.
// Returns ErrDuplicateReaction when the unique index fires.
func (r *PostgresReactionRepo) Create(ctx context.Context, reaction *model.Reaction) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reactions (target_kind, target_id, reaction_kind, username, source_ip, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		reaction.Target.Kind, reaction.Target.ID, reaction.Kind,
		reaction.Username, reaction.SourceIP, reaction.UserAgent,
	).Scan(&reaction.ID, &reaction.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateReaction
		}
		return fmt.Errorf("insert reaction: %w", err)
	}

	return nil
}

// DeleteMatch removes the reaction matching (target, sourceIP, kind)
// exactly and reports whether a row was removed.
func (r *PostgresReactionRepo) DeleteMatch(ctx context.Context, target model.Target, sourceIP string, kind model.ReactionKind) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reactions
		 WHERE target_kind = $1 AND target_id = $2 AND source_ip = $3 AND reaction_kind = $4`,
		target.Kind, target.ID, sourceIP, kind,
	)
	if err != nil {
		return false, fmt.Errorf("delete reaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete reaction: %w", err)
	}
	return n > 0, nil
}

// CountByTarget counts reactions of any kind attached to the target.
func (r *PostgresReactionRepo) CountByTarget(ctx context.Context, target model.Target) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reactions WHERE target_kind = $1 AND target_id = $2`,
		target.Kind, target.ID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reactions: %w", err)
	}
	return count, nil
}

// CountByTargetAndKind counts reactions of one kind attached to the target.
func (r *PostgresReactionRepo) CountByTargetAndKind(ctx context.Context, target model.Target, kind model.ReactionKind) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reactions
		 WHERE target_kind = $1 AND target_id = $2 AND reaction_kind = $3`,
		target.Kind, target.ID, kind,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reactions by kind: %w", err)
	}
	return count, nil
}

// BreakdownByTarget returns per-kind reaction counts for the target.
func (r *PostgresReactionRepo) BreakdownByTarget(ctx context.Context, target model.Target) (map[model.ReactionKind]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT reaction_kind, COUNT(*) FROM reactions
		 WHERE target_kind = $1 AND target_id = $2
		 GROUP BY reaction_kind`,
		target.Kind, target.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("reaction breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[model.ReactionKind]int)
	for rows.Next() {
		var kind model.ReactionKind
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan reaction breakdown: %w", err)
		}
		breakdown[kind] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reaction breakdown: %w", err)
	}

	return breakdown, nil
}

// compile-time interface check
var _ ReactionRepository = (*PostgresReactionRepo)(nil)
