package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ishan/vaahaka/internal/catalog"
	"github.com/ishan/vaahaka/internal/middleware"
	"github.com/ishan/vaahaka/internal/model"
)

// CatalogServiceInterface is the read-side catalog surface.
type CatalogServiceInterface interface {
	Home(ctx context.Context) (*catalog.HomeFeed, error)
	Stories(ctx context.Context, categoryID int64) ([]*model.Story, error)
	Story(ctx context.Context, id int64) (*catalog.StoryDetail, error)
	Episodes(ctx context.Context) ([]*model.Episode, error)
	Episode(ctx context.Context, id int64) (*catalog.EpisodeDetail, error)
	ShortStories(ctx context.Context, categoryID int64) ([]*model.ShortStory, error)
	ShortStory(ctx context.Context, id int64) (*model.ShortStory, error)
	Categories(ctx context.Context) ([]*model.Category, error)
}

// CatalogHandler serves the browsing endpoints. Every story, episode
// and short-story payload carries freshly computed engagement counts.
type CatalogHandler struct {
	service    CatalogServiceInterface
	engagement EngagementServiceInterface
	comments   CommentServiceInterface
	cookie     middleware.LanguageCookieSettings
	logger     *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(
	service CatalogServiceInterface,
	engagement EngagementServiceInterface,
	comments CommentServiceInterface,
	cookie middleware.LanguageCookieSettings,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		service:    service,
		engagement: engagement,
		comments:   comments,
		cookie:     cookie,
		logger:     logger,
	}
}

// engagementCounts rides inside catalog payloads.
type engagementCounts struct {
	Comments  int `json:"comments"`
	Reactions int `json:"reactions"`
	Hearts    int `json:"hearts"`
}

type categoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

type storyResponse struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	ReleaseDate time.Time        `json:"release_date"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	IsFeatured  bool             `json:"is_featured"`
	Engagement  engagementCounts `json:"engagement"`
}

type episodeResponse struct {
	ID            int64            `json:"id"`
	EpisodeNumber int              `json:"episode_number"`
	TitleDv       string           `json:"title_dv"`
	TitleEn       string           `json:"title_en"`
	ContentDv     string           `json:"content_dv"`
	ContentEn     string           `json:"content_en"`
	PublishedDate time.Time        `json:"published_date"`
	AuthorID      int64            `json:"author_id"`
	GenreID       *int64           `json:"genre_id,omitempty"`
	Engagement    engagementCounts `json:"engagement"`
}

type shortStoryResponse struct {
	ID            int64            `json:"id"`
	TitleDv       string           `json:"title_dv"`
	TitleEn       string           `json:"title_en"`
	ContentDv     string           `json:"content_dv"`
	ContentEn     string           `json:"content_en"`
	AuthorID      int64            `json:"author_id"`
	GenreID       *int64           `json:"genre_id,omitempty"`
	CategoryID    *int64           `json:"category_id,omitempty"`
	PublishedDate time.Time        `json:"published_date"`
	IsFeatured    bool             `json:"is_featured"`
	Engagement    engagementCounts `json:"engagement"`
}

type characterResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	IsMainCharacter bool   `json:"is_main_character"`
}

// Home returns the landing page feed.
// GET /api/home
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.Home(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	stories, err := h.toStoryResponses(r.Context(), feed.LatestStories)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	episodes, err := h.toEpisodeResponses(r.Context(), feed.LatestEpisodes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	shorts, err := h.toShortStoryResponses(r.Context(), feed.FeaturedShorts)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"latest_stories":  stories,
		"latest_episodes": episodes,
		"featured_shorts": shorts,
		"categories":      toCategoryResponses(feed.Categories),
	})
}

// ListStories lists stories, optionally filtered by category.
// GET /api/stories?category_id=...
func (h *CatalogHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	categoryID, err := categoryFilter(r)
	if err != nil {
		middleware.WriteBadRequest(w, "category_id must be an integer")
		return
	}

	stories, err := h.service.Stories(r.Context(), categoryID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	out, err := h.toStoryResponses(r.Context(), stories)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stories": out,
	})
}

// GetStory returns a story with its episodes, characters and approved
// comments.
// GET /api/stories/{id}
func (h *CatalogHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.WriteBadRequest(w, "id must be an integer")
		return
	}

	detail, err := h.service.Story(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	story, err := h.toStoryResponse(r.Context(), detail.Story)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	episodes, err := h.toEpisodeResponses(r.Context(), detail.Episodes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	comments, err := h.comments.ListApproved(r.Context(), model.Target{Kind: model.ContentKindStory, ID: id})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"story":      story,
		"episodes":   episodes,
		"characters": toCharacterResponses(detail.Characters),
		"comments":   toCommentResponses(comments),
	})
}

// ListEpisodes lists all episodes in reading order.
// GET /api/episodes
func (h *CatalogHandler) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	episodes, err := h.service.Episodes(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	out, err := h.toEpisodeResponses(r.Context(), episodes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"episodes": out,
	})
}

// GetEpisode returns an episode with reading navigation and approved
// comments.
// GET /api/episodes/{id}
func (h *CatalogHandler) GetEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.WriteBadRequest(w, "id must be an integer")
		return
	}

	detail, err := h.service.Episode(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	episode, err := h.toEpisodeResponse(r.Context(), detail.Episode)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	comments, err := h.comments.ListApproved(r.Context(), model.Target{Kind: model.ContentKindEpisode, ID: id})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	payload := map[string]any{
		"success":  true,
		"episode":  episode,
		"comments": toCommentResponses(comments),
	}
	if detail.Story != nil {
		story, err := h.toStoryResponse(r.Context(), detail.Story)
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		payload["story"] = story
	}
	if detail.Previous != nil {
		payload["previous_episode_id"] = detail.Previous.ID
	}
	if detail.Next != nil {
		payload["next_episode_id"] = detail.Next.ID
	}

	middleware.WriteJSON(w, http.StatusOK, payload)
}

// ListShortStories lists published short stories.
// GET /api/shorts?category_id=...
func (h *CatalogHandler) ListShortStories(w http.ResponseWriter, r *http.Request) {
	categoryID, err := categoryFilter(r)
	if err != nil {
		middleware.WriteBadRequest(w, "category_id must be an integer")
		return
	}

	shorts, err := h.service.ShortStories(r.Context(), categoryID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	out, err := h.toShortStoryResponses(r.Context(), shorts)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"short_stories": out,
	})
}

// GetShortStory returns a published short story with its approved
// comments.
// GET /api/shorts/{id}
func (h *CatalogHandler) GetShortStory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.WriteBadRequest(w, "id must be an integer")
		return
	}

	short, err := h.service.ShortStory(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	out, err := h.toShortStoryResponse(r.Context(), short)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	comments, err := h.comments.ListApproved(r.Context(), model.Target{Kind: model.ContentKindShortStory, ID: id})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"short_story": out,
		"comments":    toCommentResponses(comments),
	})
}

// ListCategories lists the active browsing categories.
// GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"categories": toCategoryResponses(categories),
	})
}

// ToggleLanguage flips the reader's language preference cookie.
// POST /api/language/toggle
func (h *CatalogHandler) ToggleLanguage(w http.ResponseWriter, r *http.Request) {
	lang := middleware.LanguageFromContext(r.Context()).Toggle()
	middleware.SetLanguageCookie(w, lang, h.cookie)

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"language": string(lang),
	})
}

func (h *CatalogHandler) counts(ctx context.Context, kind model.ContentKind, id int64) (engagementCounts, error) {
	summary, err := h.engagement.Summarize(ctx, model.Target{Kind: kind, ID: id})
	if err != nil {
		return engagementCounts{}, err
	}
	return engagementCounts{
		Comments:  summary.Comments,
		Reactions: summary.Reactions,
		Hearts:    summary.Hearts,
	}, nil
}

func (h *CatalogHandler) toStoryResponse(ctx context.Context, story *model.Story) (storyResponse, error) {
	counts, err := h.counts(ctx, model.ContentKindStory, story.ID)
	if err != nil {
		return storyResponse{}, err
	}
	return storyResponse{
		ID:          story.ID,
		Title:       story.Title,
		Description: story.Description,
		ReleaseDate: story.ReleaseDate,
		CategoryID:  story.CategoryID,
		IsFeatured:  story.IsFeatured,
		Engagement:  counts,
	}, nil
}

func (h *CatalogHandler) toStoryResponses(ctx context.Context, stories []*model.Story) ([]storyResponse, error) {
	out := make([]storyResponse, 0, len(stories))
	for _, story := range stories {
		resp, err := h.toStoryResponse(ctx, story)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (h *CatalogHandler) toEpisodeResponse(ctx context.Context, episode *model.Episode) (episodeResponse, error) {
	counts, err := h.counts(ctx, model.ContentKindEpisode, episode.ID)
	if err != nil {
		return episodeResponse{}, err
	}
	return episodeResponse{
		ID:            episode.ID,
		EpisodeNumber: episode.EpisodeNumber,
		TitleDv:       episode.TitleDv,
		TitleEn:       episode.TitleEn,
		ContentDv:     episode.ContentDv,
		ContentEn:     episode.ContentEn,
		PublishedDate: episode.PublishedDate,
		AuthorID:      episode.AuthorID,
		GenreID:       episode.GenreID,
		Engagement:    counts,
	}, nil
}

func (h *CatalogHandler) toEpisodeResponses(ctx context.Context, episodes []*model.Episode) ([]episodeResponse, error) {
	out := make([]episodeResponse, 0, len(episodes))
	for _, episode := range episodes {
		resp, err := h.toEpisodeResponse(ctx, episode)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (h *CatalogHandler) toShortStoryResponse(ctx context.Context, short *model.ShortStory) (shortStoryResponse, error) {
	counts, err := h.counts(ctx, model.ContentKindShortStory, short.ID)
	if err != nil {
		return shortStoryResponse{}, err
	}
	return shortStoryResponse{
		ID:            short.ID,
		TitleDv:       short.TitleDv,
		TitleEn:       short.TitleEn,
		ContentDv:     short.ContentDv,
		ContentEn:     short.ContentEn,
		AuthorID:      short.AuthorID,
		GenreID:       short.GenreID,
		CategoryID:    short.CategoryID,
		PublishedDate: short.PublishedDate,
		IsFeatured:    short.IsFeatured,
		Engagement:    counts,
	}, nil
}

func (h *CatalogHandler) toShortStoryResponses(ctx context.Context, shorts []*model.ShortStory) ([]shortStoryResponse, error) {
	out := make([]shortStoryResponse, 0, len(shorts))
	for _, short := range shorts {
		resp, err := h.toShortStoryResponse(ctx, short)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func toCategoryResponses(categories []*model.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Color:       c.Color,
			Icon:        c.Icon,
		})
	}
	return out
}

func toCharacterResponses(characters []*model.Character) []characterResponse {
	out := make([]characterResponse, 0, len(characters))
	for _, c := range characters {
		out = append(out, characterResponse{
			ID:              c.ID,
			Name:            c.Name,
			Description:     c.Description,
			IsMainCharacter: c.IsMainCharacter,
		})
	}
	return out
}

// categoryFilter reads the optional category_id query parameter;
// 0 means no filter.
func categoryFilter(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("category_id")
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
