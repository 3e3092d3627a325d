// Package repository defines the persistence interfaces.
package repository

import (
	"context"
	"errors"

	"github.com/ishan/vaahaka/internal/model"
)

// ErrDuplicateReaction is returned by ReactionRepository.Create when the
// (target kind, target id, source ip, reaction kind) unique constraint is
// violated. The reaction engine treats it as "someone else already added
// it" and retries the toggle as a delete.
var ErrDuplicateReaction = errors.New("reaction already exists")

// CommentRepository persists reader comments.
type CommentRepository interface {
	// Create inserts the comment and fills ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, comment *model.Comment) error

	// FindByID returns the comment, or nil if it does not exist.
	FindByID(ctx context.Context, id int64) (*model.Comment, error)

	// ListByTarget returns comments attached to the target, newest first.
	// approvedOnly restricts to is_approved rows; moderation lists all.
	ListByTarget(ctx context.Context, target model.Target, approvedOnly bool) ([]*model.Comment, error)

	// CountApprovedByTarget counts approved comments attached to the target.
	CountApprovedByTarget(ctx context.Context, target model.Target) (int, error)

	// SetApproved flips the moderation flag. Returns false if the comment
	// does not exist.
	SetApproved(ctx context.Context, id int64, approved bool) (bool, error)

	// SetFeatured flips the featured flag. Returns false if the comment
	// does not exist.
	SetFeatured(ctx context.Context, id int64, featured bool) (bool, error)

	// DeleteByID removes the comment. Returns false if it did not exist.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// ReactionRepository persists emoji reactions.
type ReactionRepository interface {
	// Create inserts the reaction and fills ID and CreatedAt.
	// Returns ErrDuplicateReaction when the uniqueness constraint fires.
	Create(ctx context.Context, reaction *model.Reaction) error

	// DeleteMatch removes the reaction matching (target, sourceIP, kind)
	// exactly and reports whether a row was removed.
	DeleteMatch(ctx context.Context, target model.Target, sourceIP string, kind model.ReactionKind) (bool, error)

	// CountByTarget counts reactions of any kind attached to the target.
	CountByTarget(ctx context.Context, target model.Target) (int, error)

	// CountByTargetAndKind counts reactions of one kind attached to the target.
	CountByTargetAndKind(ctx context.Context, target model.Target, kind model.ReactionKind) (int, error)

	// BreakdownByTarget returns per-kind reaction counts for the target.
	// Kinds with no reactions are absent from the map.
	BreakdownByTarget(ctx context.Context, target model.Target) (map[model.ReactionKind]int, error)
}

// AttachmentPurger removes every comment and reaction attached to a
// target, including reactions attached to the target's own comments.
// The owning entity's lifecycle calls this when the entity is destroyed.
type AttachmentPurger interface {
	// PurgeTarget deletes all attachments of the target in one
	// transaction and returns the number of rows removed.
	PurgeTarget(ctx context.Context, target model.Target) (int64, error)
}

// StoryRepository reads the story catalog.
type StoryRepository interface {
	// FindByID returns the story, or nil if it does not exist.
	FindByID(ctx context.Context, id int64) (*model.Story, error)
	// Exists reports whether the story exists.
	Exists(ctx context.Context, id int64) (bool, error)
	// List returns stories newest release first, optionally filtered by
	// category (categoryID = 0 means no filter).
	List(ctx context.Context, categoryID int64) ([]*model.Story, error)
	// ListLatest returns the newest stories by release date.
	ListLatest(ctx context.Context, limit int) ([]*model.Story, error)
	// Episodes returns the story's episodes ordered by episode number.
	Episodes(ctx context.Context, storyID int64) ([]*model.Episode, error)
	// Characters returns the story's characters, main characters first.
	Characters(ctx context.Context, storyID int64) ([]*model.Character, error)
}

// EpisodeRepository reads episodes.
type EpisodeRepository interface {
	// FindByID returns the episode, or nil if it does not exist.
	FindByID(ctx context.Context, id int64) (*model.Episode, error)
	// Exists reports whether the episode exists.
	Exists(ctx context.Context, id int64) (bool, error)
	// List returns all episodes ordered by episode number.
	List(ctx context.Context) ([]*model.Episode, error)
	// ListLatest returns the newest episodes by published date.
	ListLatest(ctx context.Context, limit int) ([]*model.Episode, error)
	// StoryOf returns the first story the episode is linked to, or nil.
	StoryOf(ctx context.Context, episodeID int64) (*model.Story, error)
	// Neighbors returns the previous and next episode within the same
	// story by episode number. Either may be nil at the edges.
	Neighbors(ctx context.Context, episodeID int64) (prev, next *model.Episode, err error)
}

// ShortStoryRepository reads short stories. Unpublished short stories
// are invisible to all read paths and to target resolution.
type ShortStoryRepository interface {
	// FindByID returns the published short story, or nil.
	FindByID(ctx context.Context, id int64) (*model.ShortStory, error)
	// Exists reports whether a published short story exists.
	Exists(ctx context.Context, id int64) (bool, error)
	// List returns published short stories newest first, optionally
	// filtered by category (categoryID = 0 means no filter).
	List(ctx context.Context, categoryID int64) ([]*model.ShortStory, error)
	// ListFeatured returns featured published short stories, newest first.
	ListFeatured(ctx context.Context, limit int) ([]*model.ShortStory, error)
}

// CategoryRepository reads browsing categories.
type CategoryRepository interface {
	// ListActive returns active categories ordered by name.
	ListActive(ctx context.Context) ([]*model.Category, error)
}
