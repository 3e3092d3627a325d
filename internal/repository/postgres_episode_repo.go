package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ishan/vaahaka/internal/model"
)

// PostgresEpisodeRepo is the PostgreSQL episode repository.
type PostgresEpisodeRepo struct {
	db *sql.DB
}

// NewPostgresEpisodeRepo creates a PostgresEpisodeRepo.
func NewPostgresEpisodeRepo(db *sql.DB) *PostgresEpisodeRepo {
	return &PostgresEpisodeRepo{db: db}
}

const episodeColumns = `id, episode_number, title_dv, title_en, content_dv, content_en,
	 published_date, author_id, genre_id`

// FindByID returns the episode, or nil if it does not exist.
func (r *PostgresEpisodeRepo) FindByID(ctx context.Context, id int64) (*model.Episode, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes WHERE id = $1`, id)

	episode, err := scanEpisode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find episode: %w", err)
	}
	return episode, nil
}

// Exists reports whether the episode exists.
func (r *PostgresEpisodeRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM episodes WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("episode exists: %w", err)
	}
	return exists, nil
}

// List returns all episodes ordered by episode number.
func (r *PostgresEpisodeRepo) List(ctx context.Context) ([]*model.Episode, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes ORDER BY episode_number`)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	return collectEpisodes(rows)
}

// ListLatest returns the newest episodes by published date.
func (r *PostgresEpisodeRepo) ListLatest(ctx context.Context, limit int) ([]*model.Episode, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes ORDER BY published_date DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list latest episodes: %w", err)
	}
	defer rows.Close()

	return collectEpisodes(rows)
}

// StoryOf returns the first story the episode is linked to, or nil.
func (r *PostgresEpisodeRepo) StoryOf(ctx context.Context, episodeID int64) (*model.Story, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT s.id, s.title, s.description, s.release_date, s.category_id, s.is_featured
		 FROM stories s
		 JOIN story_episodes se ON se.story_id = s.id
		 WHERE se.episode_id = $1
		 ORDER BY s.id
		 LIMIT 1`,
		episodeID,
	)

	story, err := scanStory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("story of episode: %w", err)
	}
	return story, nil
}

// Neighbors returns the previous and next episode within the same story
// by episode number. Either may be nil at the edges, and both are nil
// for an episode not linked to any story.
func (r *PostgresEpisodeRepo) Neighbors(ctx context.Context, episodeID int64) (*model.Episode, *model.Episode, error) {
	episode, err := r.FindByID(ctx, episodeID)
	if err != nil {
		return nil, nil, err
	}
	if episode == nil {
		return nil, nil, nil
	}

	story, err := r.StoryOf(ctx, episodeID)
	if err != nil {
		return nil, nil, err
	}
	if story == nil {
		return nil, nil, nil
	}

	prev, err := r.neighbor(ctx, story.ID, episode.EpisodeNumber, false)
	if err != nil {
		return nil, nil, err
	}
	next, err := r.neighbor(ctx, story.ID, episode.EpisodeNumber, true)
	if err != nil {
		return nil, nil, err
	}

	return prev, next, nil
}

func (r *PostgresEpisodeRepo) neighbor(ctx context.Context, storyID int64, episodeNumber int, forward bool) (*model.Episode, error) {
	cmp, order := "<", "DESC"
	if forward {
		cmp, order = ">", "ASC"
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT e.id, e.episode_number, e.title_dv, e.title_en, e.content_dv, e.content_en,
		     e.published_date, e.author_id, e.genre_id
		 FROM episodes e
		 JOIN story_episodes se ON se.episode_id = e.id
		 WHERE se.story_id = $1 AND e.episode_number `+cmp+` $2
		 ORDER BY e.episode_number `+order+`
		 LIMIT 1`,
		storyID, episodeNumber,
	)

	episode, err := scanEpisode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("neighbor episode: %w", err)
	}
	return episode, nil
}

func collectEpisodes(rows *sql.Rows) ([]*model.Episode, error) {
	var episodes []*model.Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, episode)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collect episodes: %w", err)
	}
	return episodes, nil
}

func scanEpisode(row rowScanner) (*model.Episode, error) {
	episode := &model.Episode{}
	var genreID sql.NullInt64

	err := row.Scan(
		&episode.ID, &episode.EpisodeNumber,
		&episode.TitleDv, &episode.TitleEn,
		&episode.ContentDv, &episode.ContentEn,
		&episode.PublishedDate, &episode.AuthorID, &genreID,
	)
	if err != nil {
		return nil, err
	}

	if genreID.Valid {
		episode.GenreID = &genreID.Int64
	}
	return episode, nil
}

// compile-time interface check
var _ EpisodeRepository = (*PostgresEpisodeRepo)(nil)
