package model

import "time"

// ReactionKind is one of the fixed emoji reactions.
type ReactionKind string

const (
	// ReactionKindHeart is the default reaction.
	ReactionKindHeart ReactionKind = "heart"
	// ReactionKindLike is a thumbs-up.
	ReactionKindLike ReactionKind = "like"
	// ReactionKindLove is a heart-eyes face.
	ReactionKindLove ReactionKind = "love"
	// ReactionKindLaugh is a laughing face.
	ReactionKindLaugh ReactionKind = "laugh"
	// ReactionKindWow is a surprised face.
	ReactionKindWow ReactionKind = "wow"
)

// ParseReactionKind maps an untrusted reaction_type token to a
// ReactionKind. Returns false for anything outside the enumerated set.
func ParseReactionKind(raw string) (ReactionKind, bool) {
	switch ReactionKind(raw) {
	case ReactionKindHeart, ReactionKindLike, ReactionKindLove, ReactionKindLaugh, ReactionKindWow:
		return ReactionKind(raw), true
	}
	return "", false
}

// Reaction is an anonymous emoji reaction attached to a target entity.
// At most one reaction may exist per (target kind, target id, source IP,
// reaction kind); the same IP may hold several distinct kinds on one
// target at once. A repeated identical submission removes the row
// instead of duplicating it; there is no update-in-place.
type Reaction struct {
	ID        int64
	Target    Target
	Kind      ReactionKind
	Username  string // optional display name
	SourceIP  string // required, the dedup key component
	UserAgent string // optional
	CreatedAt time.Time
}
