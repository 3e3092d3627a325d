// Package catalog implements the read side of the story catalog: the
// home feed, story and episode browsing, short stories and categories.
package catalog

import (
	"context"
	"fmt"

	"github.com/ishan/vaahaka/internal/model"
	"github.com/ishan/vaahaka/internal/repository"
)

// Home feed sizes, matching what the landing page renders.
const (
	homeStoryCount        = 3
	homeEpisodeCount      = 5
	homeFeaturedShortsMax = 3
)

// HomeFeed is the landing page content.
type HomeFeed struct {
	LatestStories  []*model.Story
	LatestEpisodes []*model.Episode
	FeaturedShorts []*model.ShortStory
	Categories     []*model.Category
}

// StoryDetail is one story with its episodes and characters.
type StoryDetail struct {
	Story      *model.Story
	Episodes   []*model.Episode
	Characters []*model.Character
}

// EpisodeDetail is one episode with reading navigation.
type EpisodeDetail struct {
	Episode  *model.Episode
	Story    *model.Story // nil when the episode is unlinked
	Previous *model.Episode
	Next     *model.Episode
}

// Service reads the catalog.
type Service struct {
	stories      repository.StoryRepository
	episodes     repository.EpisodeRepository
	shortStories repository.ShortStoryRepository
	categories   repository.CategoryRepository
}

// NewService creates a catalog Service.
func NewService(
	stories repository.StoryRepository,
	episodes repository.EpisodeRepository,
	shortStories repository.ShortStoryRepository,
	categories repository.CategoryRepository,
) *Service {
	return &Service{
		stories:      stories,
		episodes:     episodes,
		shortStories: shortStories,
		categories:   categories,
	}
}

// Home assembles the landing page feed.
func (s *Service) Home(ctx context.Context) (*HomeFeed, error) {
	stories, err := s.stories.ListLatest(ctx, homeStoryCount)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest stories: %w", err)
	}

	episodes, err := s.episodes.ListLatest(ctx, homeEpisodeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest episodes: %w", err)
	}

	shorts, err := s.shortStories.ListFeatured(ctx, homeFeaturedShortsMax)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured short stories: %w", err)
	}

	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return &HomeFeed{
		LatestStories:  stories,
		LatestEpisodes: episodes,
		FeaturedShorts: shorts,
		Categories:     categories,
	}, nil
}

// Stories lists stories, optionally filtered by category.
// categoryID 0 means no filter.
func (s *Service) Stories(ctx context.Context, categoryID int64) ([]*model.Story, error) {
	stories, err := s.stories.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

// Story returns one story with its episodes and characters, or an
// invalid-target error when it does not exist.
func (s *Service) Story(ctx context.Context, id int64) (*StoryDetail, error) {
	story, err := s.stories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load story: %w", err)
	}
	if story == nil {
		return nil, model.NewInvalidTargetError(model.ContentKindStory, id)
	}

	episodes, err := s.stories.Episodes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load episodes: %w", err)
	}

	characters, err := s.stories.Characters(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load characters: %w", err)
	}

	return &StoryDetail{Story: story, Episodes: episodes, Characters: characters}, nil
}

// Episodes lists all episodes in reading order.
func (s *Service) Episodes(ctx context.Context) ([]*model.Episode, error) {
	episodes, err := s.episodes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	return episodes, nil
}

// Episode returns one episode with its story and the previous and
// next episodes in the same story.
func (s *Service) Episode(ctx context.Context, id int64) (*EpisodeDetail, error) {
	episode, err := s.episodes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load episode: %w", err)
	}
	if episode == nil {
		return nil, model.NewInvalidTargetError(model.ContentKindEpisode, id)
	}

	story, err := s.episodes.StoryOf(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load episode story: %w", err)
	}

	prev, next, err := s.episodes.Neighbors(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load episode neighbors: %w", err)
	}

	return &EpisodeDetail{Episode: episode, Story: story, Previous: prev, Next: next}, nil
}

// ShortStories lists published short stories, optionally filtered by
// category. categoryID 0 means no filter.
func (s *Service) ShortStories(ctx context.Context, categoryID int64) ([]*model.ShortStory, error) {
	shorts, err := s.shortStories.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list short stories: %w", err)
	}
	return shorts, nil
}

// ShortStory returns one published short story. Unpublished short
// stories do not exist as far as readers are concerned.
func (s *Service) ShortStory(ctx context.Context, id int64) (*model.ShortStory, error) {
	short, err := s.shortStories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load short story: %w", err)
	}
	if short == nil {
		return nil, model.NewInvalidTargetError(model.ContentKindShortStory, id)
	}
	return short, nil
}

// Categories lists the active browsing categories.
func (s *Service) Categories(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
