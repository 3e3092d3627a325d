package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ishan/vaahaka/internal/model"
)

// PostgresStoryRepo is the PostgreSQL story catalog repository.
type PostgresStoryRepo struct {
	db *sql.DB
}

// NewPostgresStoryRepo creates a PostgresStoryRepo.
func NewPostgresStoryRepo(db *sql.DB) *PostgresStoryRepo {
	return &PostgresStoryRepo{db: db}
}

const storyColumns = `id, title, description, release_date, category_id, is_featured`

// FindByID returns the story, or nil if it does not exist.
func (r *PostgresStoryRepo) FindByID(ctx context.Context, id int64) (*model.Story, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE id = $1`, id)

	story, err := scanStory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find story: %w", err)
	}
	return story, nil
}

// Exists reports whether the story exists.
func (r *PostgresStoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM stories WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("story exists: %w", err)
	}
	return exists, nil
}

// List returns stories newest release first, optionally filtered by category.
func (r *PostgresStoryRepo) List(ctx context.Context, categoryID int64) ([]*model.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories`
	args := []any{}
	if categoryID > 0 {
		query += ` WHERE category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY release_date DESC`

	return r.queryStories(ctx, query, args...)
}

// ListLatest returns the newest stories by release date.
func (r *PostgresStoryRepo) ListLatest(ctx context.Context, limit int) ([]*model.Story, error) {
	return r.queryStories(ctx,
		`SELECT `+storyColumns+` FROM stories ORDER BY release_date DESC LIMIT $1`,
		limit,
	)
}

// Episodes returns the story's episodes ordered by episode number.
func (r *PostgresStoryRepo) Episodes(ctx context.Context, storyID int64) ([]*model.Episode, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.episode_number, e.title_dv, e.title_en, e.content_dv, e.content_en,
		     e.published_date, e.author_id, e.genre_id
		 FROM episodes e
		 JOIN story_episodes se ON se.episode_id = e.id
		 WHERE se.story_id = $1
		 ORDER BY e.episode_number`,
		storyID,
	)
	if err != nil {
		return nil, fmt.Errorf("story episodes: %w", err)
	}
	defer rows.Close()

	return collectEpisodes(rows)
}

// Characters returns the story's characters, main characters first.
func (r *PostgresStoryRepo) Characters(ctx context.Context, storyID int64) ([]*model.Character, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, story_id, name, description, is_main_character, created_at, updated_at
		 FROM characters WHERE story_id = $1
		 ORDER BY is_main_character DESC, name`,
		storyID,
	)
	if err != nil {
		return nil, fmt.Errorf("story characters: %w", err)
	}
	defer rows.Close()

	var characters []*model.Character
	for rows.Next() {
		ch := &model.Character{}
		if err := rows.Scan(
			&ch.ID, &ch.StoryID, &ch.Name, &ch.Description,
			&ch.IsMainCharacter, &ch.CreatedAt, &ch.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		characters = append(characters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("story characters: %w", err)
	}

	return characters, nil
}

func (r *PostgresStoryRepo) queryStories(ctx context.Context, query string, args ...any) ([]*model.Story, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var stories []*model.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	return stories, nil
}

func scanStory(row rowScanner) (*model.Story, error) {
	story := &model.Story{}
	var categoryID sql.NullInt64

	err := row.Scan(
		&story.ID, &story.Title, &story.Description,
		&story.ReleaseDate, &categoryID, &story.IsFeatured,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		story.CategoryID = &categoryID.Int64
	}
	return story, nil
}

// compile-time interface check
var _ StoryRepository = (*PostgresStoryRepo)(nil)
