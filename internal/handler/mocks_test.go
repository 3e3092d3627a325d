package handler

import (
	"context"

	"github.com/ishan/vaahaka/internal/catalog"
	"github.com/ishan/vaahaka/internal/comment"
	"github.com/ishan/vaahaka/internal/engagement"
	"github.com/ishan/vaahaka/internal/model"
	"github.com/ishan/vaahaka/internal/reaction"
)

type mockCommentService struct {
	submitFn       func(ctx context.Context, input comment.SubmitInput) (*model.Comment, error)
	listApprovedFn func(ctx context.Context, target model.Target) ([]*model.Comment, error)
}

func (m *mockCommentService) Submit(ctx context.Context, input comment.SubmitInput) (*model.Comment, error) {
	return m.submitFn(ctx, input)
}

func (m *mockCommentService) ListApproved(ctx context.Context, target model.Target) ([]*model.Comment, error) {
	if m.listApprovedFn == nil {
		return nil, nil
	}
	return m.listApprovedFn(ctx, target)
}

type mockReactionService struct {
	toggleFn func(ctx context.Context, input reaction.ToggleInput) (*reaction.ToggleResult, error)
}

func (m *mockReactionService) Toggle(ctx context.Context, input reaction.ToggleInput) (*reaction.ToggleResult, error) {
	return m.toggleFn(ctx, input)
}

type mockEngagementService struct {
	summarizeFn func(ctx context.Context, target model.Target) (*engagement.Summary, error)
}

func (m *mockEngagementService) Summarize(ctx context.Context, target model.Target) (*engagement.Summary, error) {
	if m.summarizeFn == nil {
		return &engagement.Summary{Target: target, Breakdown: map[model.ReactionKind]int{}}, nil
	}
	return m.summarizeFn(ctx, target)
}

type mockCatalogService struct {
	homeFn         func(ctx context.Context) (*catalog.HomeFeed, error)
	storiesFn      func(ctx context.Context, categoryID int64) ([]*model.Story, error)
	storyFn        func(ctx context.Context, id int64) (*catalog.StoryDetail, error)
	episodesFn     func(ctx context.Context) ([]*model.Episode, error)
	episodeFn      func(ctx context.Context, id int64) (*catalog.EpisodeDetail, error)
	shortStoriesFn func(ctx context.Context, categoryID int64) ([]*model.ShortStory, error)
	shortStoryFn   func(ctx context.Context, id int64) (*model.ShortStory, error)
	categoriesFn   func(ctx context.Context) ([]*model.Category, error)
}

func (m *mockCatalogService) Home(ctx context.Context) (*catalog.HomeFeed, error) {
	return m.homeFn(ctx)
}

func (m *mockCatalogService) Stories(ctx context.Context, categoryID int64) ([]*model.Story, error) {
	return m.storiesFn(ctx, categoryID)
}

func (m *mockCatalogService) Story(ctx context.Context, id int64) (*catalog.StoryDetail, error) {
	return m.storyFn(ctx, id)
}

func (m *mockCatalogService) Episodes(ctx context.Context) ([]*model.Episode, error) {
	return m.episodesFn(ctx)
}

func (m *mockCatalogService) Episode(ctx context.Context, id int64) (*catalog.EpisodeDetail, error) {
	return m.episodeFn(ctx, id)
}

func (m *mockCatalogService) ShortStories(ctx context.Context, categoryID int64) ([]*model.ShortStory, error) {
	return m.shortStoriesFn(ctx, categoryID)
}

func (m *mockCatalogService) ShortStory(ctx context.Context, id int64) (*model.ShortStory, error) {
	return m.shortStoryFn(ctx, id)
}

func (m *mockCatalogService) Categories(ctx context.Context) ([]*model.Category, error) {
	return m.categoriesFn(ctx)
}

type mockModerationService struct {
	setApprovedFn       func(ctx context.Context, id int64, approved bool) error
	setFeaturedFn       func(ctx context.Context, id int64, featured bool) error
	deleteFn            func(ctx context.Context, id int64) error
	listForModerationFn func(ctx context.Context, target model.Target) ([]*model.Comment, error)
}

func (m *mockModerationService) SetApproved(ctx context.Context, id int64, approved bool) error {
	return m.setApprovedFn(ctx, id, approved)
}

func (m *mockModerationService) SetFeatured(ctx context.Context, id int64, featured bool) error {
	return m.setFeaturedFn(ctx, id, featured)
}

func (m *mockModerationService) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockModerationService) ListForModeration(ctx context.Context, target model.Target) ([]*model.Comment, error) {
	return m.listForModerationFn(ctx, target)
}

type mockPurger struct {
	purgeFn func(ctx context.Context, target model.Target) (int64, error)
}

func (m *mockPurger) Purge(ctx context.Context, target model.Target) (int64, error) {
	return m.purgeFn(ctx, target)
}

// mockResolver resolves any parseable kind/id pair unless an fn
// overrides it.
type mockResolver struct {
	resolveFn            func(ctx context.Context, rawKind string, id int64) (model.Target, error)
	resolveCommentableFn func(ctx context.Context, rawKind string, id int64) (model.Target, error)
}

func (m *mockResolver) Resolve(ctx context.Context, rawKind string, id int64) (model.Target, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, rawKind, id)
	}
	kind, ok := model.ParseContentKind(rawKind)
	if !ok {
		return model.Target{}, model.NewInvalidContentTypeError(rawKind)
	}
	return model.Target{Kind: kind, ID: id}, nil
}

func (m *mockResolver) ResolveCommentable(ctx context.Context, rawKind string, id int64) (model.Target, error) {
	if m.resolveCommentableFn != nil {
		return m.resolveCommentableFn(ctx, rawKind, id)
	}
	return m.Resolve(ctx, rawKind, id)
}
