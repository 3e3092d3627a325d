package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ishan/vaahaka/internal/model"
)

// PostgresCommentRepo is the PostgreSQL comment repository.
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo creates a PostgresCommentRepo.
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

const commentColumns = `id, target_kind, target_id, username, body, email,
	 is_approved, is_featured, source_ip, created_at, updated_at`

// Create inserts the comment and fills ID, CreatedAt and UpdatedAt.
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	var sourceIP sql.NullString
	if comment.SourceIP != "" {
		sourceIP = sql.NullString{String: comment.SourceIP, Valid: true}
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (target_kind, target_id, username, body, email,
		     is_approved, is_featured, source_ip)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		comment.Target.Kind, comment.Target.ID,
		comment.Username, comment.Body, comment.Email,
		comment.IsApproved, comment.IsFeatured, sourceIP,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// FindByID returns the comment, or nil if it does not exist.
func (r *PostgresCommentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)

	comment, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return comment, nil
}

// ListByTarget returns comments attached to the target, newest first.
func (r *PostgresCommentRepo) ListByTarget(ctx context.Context, target model.Target, approvedOnly bool) ([]*model.Comment, error) {
	query := `SELECT ` + commentColumns + `
		 FROM comments WHERE target_kind = $1 AND target_id = $2`
	if approvedOnly {
		query += ` AND is_approved`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, target.Kind, target.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return comments, nil
}

// CountApprovedByTarget counts approved comments attached to the target.
func (r *PostgresCommentRepo) CountApprovedByTarget(ctx context.Context, target model.Target) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments
		 WHERE target_kind = $1 AND target_id = $2 AND is_approved`,
		target.Kind, target.ID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count approved comments: %w", err)
	}
	return count, nil
}

// SetApproved flips the moderation flag.
func (r *PostgresCommentRepo) SetApproved(ctx context.Context, id int64, approved bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET is_approved = $2, updated_at = now() WHERE id = $1`,
		id, approved,
	)
	if err != nil {
		return false, fmt.Errorf("set comment approved: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set comment approved: %w", err)
	}
	return n > 0, nil
}

// SetFeatured flips the featured flag.
func (r *PostgresCommentRepo) SetFeatured(ctx context.Context, id int64, featured bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET is_featured = $2, updated_at = now() WHERE id = $1`,
		id, featured,
	)
	if err != nil {
		return false, fmt.Errorf("set comment featured: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set comment featured: %w", err)
	}
	return n > 0, nil
}

// DeleteByID removes the comment row only. Cascading the comment's own
// reactions is the comment engine's job.
func (r *PostgresCommentRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return n > 0, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*model.Comment, error) {
	comment := &model.Comment{}
	var sourceIP sql.NullString

	err := row.Scan(
		&comment.ID, &comment.Target.Kind, &comment.Target.ID,
		&comment.Username, &comment.Body, &comment.Email,
		&comment.IsApproved, &comment.IsFeatured, &sourceIP,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.SourceIP = sourceIP.String
	return comment, nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
