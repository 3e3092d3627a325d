// Package target resolves untrusted (content_type, object_id) pairs to
// verified attachment targets. Every comment or reaction write passes
// through here before it touches storage.
package target

import (
	"context"
	"fmt"

	"github.com/ishan/vaahaka/internal/model"
	"github.com/ishan/vaahaka/internal/repository"
)

// Resolver checks that a requested target points at an existing entity.
// Each kind delegates to its own repository; unpublished short stories
// are invisible here because the repository hides them.
type Resolver struct {
	stories      repository.StoryRepository
	episodes     repository.EpisodeRepository
	shortStories repository.ShortStoryRepository
	comments     repository.CommentRepository
}

// NewResolver creates a Resolver over the catalog repositories.
func NewResolver(
	stories repository.StoryRepository,
	episodes repository.EpisodeRepository,
	shortStories repository.ShortStoryRepository,
	comments repository.CommentRepository,
) *Resolver {
	return &Resolver{
		stories:      stories,
		episodes:     episodes,
		shortStories: shortStories,
		comments:     comments,
	}
}

// Resolve validates the raw content_type token and confirms the entity
// exists. Returns an APIError for unknown kinds and missing entities.
func (r *Resolver) Resolve(ctx context.Context, rawKind string, id int64) (model.Target, error) {
	kind, ok := model.ParseContentKind(rawKind)
	if !ok {
		return model.Target{}, model.NewInvalidContentTypeError(rawKind)
	}

	exists, err := r.exists(ctx, kind, id)
	if err != nil {
		return model.Target{}, fmt.Errorf("target existence check: %w", err)
	}
	if !exists {
		return model.Target{}, model.NewInvalidTargetError(kind, id)
	}

	return model.Target{Kind: kind, ID: id}, nil
}

// ResolveCommentable is Resolve restricted to kinds that accept
// comments. Comments on comments are rejected before the existence
// check runs.
func (r *Resolver) ResolveCommentable(ctx context.Context, rawKind string, id int64) (model.Target, error) {
	kind, ok := model.ParseContentKind(rawKind)
	if !ok || !kind.Commentable() {
		return model.Target{}, model.NewInvalidContentTypeError(rawKind)
	}
	return r.Resolve(ctx, rawKind, id)
}

func (r *Resolver) exists(ctx context.Context, kind model.ContentKind, id int64) (bool, error) {
	switch kind {
	case model.ContentKindStory:
		return r.stories.Exists(ctx, id)
	case model.ContentKindEpisode:
		return r.episodes.Exists(ctx, id)
	case model.ContentKindShortStory:
		return r.shortStories.Exists(ctx, id)
	case model.ContentKindComment:
		c, err := r.comments.FindByID(ctx, id)
		if err != nil {
			return false, err
		}
		return c != nil, nil
	}
	return false, nil
}
