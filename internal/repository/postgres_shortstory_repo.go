package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ishan/vaahaka/internal/model"
)

// PostgresShortStoryRepo is the PostgreSQL short story repository.
// Every query here filters on is_published; an unpublished short story
// is invisible to readers and cannot be a comment or reaction target.
type PostgresShortStoryRepo struct {
	db *sql.DB
}

// NewPostgresShortStoryRepo creates a PostgresShortStoryRepo.
func NewPostgresShortStoryRepo(db *sql.DB) *PostgresShortStoryRepo {
	return &PostgresShortStoryRepo{db: db}
}

const shortStoryColumns = `id, title_dv, title_en, content_dv, content_en,
	 author_id, genre_id, category_id, published_date, is_featured, is_published,
	 created_at, updated_at`

// FindByID returns the published short story, or nil.
func (r *PostgresShortStoryRepo) FindByID(ctx context.Context, id int64) (*model.ShortStory, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+shortStoryColumns+` FROM short_stories WHERE id = $1 AND is_published`, id)

	story, err := scanShortStory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find short story: %w", err)
	}
	return story, nil
}

// Exists reports whether a published short story exists.
func (r *PostgresShortStoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM short_stories WHERE id = $1 AND is_published)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("short story exists: %w", err)
	}
	return exists, nil
}

// List returns published short stories newest first, optionally filtered
// by category.
func (r *PostgresShortStoryRepo) List(ctx context.Context, categoryID int64) ([]*model.ShortStory, error) {
	query := `SELECT ` + shortStoryColumns + ` FROM short_stories WHERE is_published`
	args := []any{}
	if categoryID > 0 {
		query += ` AND category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY published_date DESC, created_at DESC`

	return r.queryShortStories(ctx, query, args...)
}

// ListFeatured returns featured published short stories, newest first.
func (r *PostgresShortStoryRepo) ListFeatured(ctx context.Context, limit int) ([]*model.ShortStory, error) {
	return r.queryShortStories(ctx,
		`SELECT `+shortStoryColumns+` FROM short_stories
		 WHERE is_published AND is_featured
		 ORDER BY published_date DESC
		 LIMIT $1`,
		limit,
	)
}

func (r *PostgresShortStoryRepo) queryShortStories(ctx context.Context, query string, args ...any) ([]*model.ShortStory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list short stories: %w", err)
	}
	defer rows.Close()

	var stories []*model.ShortStory
	for rows.Next() {
		story, err := scanShortStory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan short story: %w", err)
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list short stories: %w", err)
	}

	return stories, nil
}

func scanShortStory(row rowScanner) (*model.ShortStory, error) {
	story := &model.ShortStory{}
	var genreID, categoryID sql.NullInt64

	err := row.Scan(
		&story.ID, &story.TitleDv, &story.TitleEn,
		&story.ContentDv, &story.ContentEn,
		&story.AuthorID, &genreID, &categoryID,
		&story.PublishedDate, &story.IsFeatured, &story.IsPublished,
		&story.CreatedAt, &story.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if genreID.Valid {
		story.GenreID = &genreID.Int64
	}
	if categoryID.Valid {
		story.CategoryID = &categoryID.Int64
	}
	return story, nil
}

// compile-time interface check
var _ ShortStoryRepository = (*PostgresShortStoryRepo)(nil)
