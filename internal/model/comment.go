package model

import "time"

// Comment username and body limits, applied after trimming whitespace.
const (
	CommentUsernameMinLen = 2
	CommentUsernameMaxLen = 50
	CommentBodyMinLen     = 5
)

// Comment is an anonymous reader comment attached to a target entity.
// Comments are auto-approved on submission; moderation flips the flags
// out-of-band. The core never hard-deletes a comment except through the
// moderation delete and the target purge cascade.
type Comment struct {
	ID         int64
	Target     Target
	Username   string
	Body       string
	Email      string // optional, for notifications
	IsApproved bool
	IsFeatured bool
	SourceIP   string // optional, kept for moderation
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
