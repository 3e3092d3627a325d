// Package model defines the domain model.
package model

// ContentKind identifies a type of content that comments and reactions
// can attach to. The set is closed; adding a kind means touching this
// enum and the target resolver, nothing else.
type ContentKind string

const (
	// ContentKindStory is a serialized story.
	ContentKindStory ContentKind = "story"
	// ContentKindEpisode is a single episode of a story.
	ContentKindEpisode ContentKind = "episode"
	// ContentKindShortStory is a standalone short story.
	ContentKindShortStory ContentKind = "shortstory"
	// ContentKindComment is a reader comment. Comments accept reactions
	// but not comments.
	ContentKindComment ContentKind = "comment"
)

// ParseContentKind maps an untrusted content_type token to a ContentKind.
// Returns false for anything outside the closed set.
func ParseContentKind(raw string) (ContentKind, bool) {
	switch ContentKind(raw) {
	case ContentKindStory, ContentKindEpisode, ContentKindShortStory, ContentKindComment:
		return ContentKind(raw), true
	}
	return "", false
}

// Commentable reports whether the kind accepts comments.
// Comments themselves are a reaction-only target.
func (k ContentKind) Commentable() bool {
	return k != ContentKindComment
}

// Target is a typed (kind, id) reference to the entity a comment or
// reaction attaches to. It is a reference, not an owned entity: the
// resolver must confirm it points at an existing row before any write.
type Target struct {
	Kind ContentKind
	ID   int64
}
