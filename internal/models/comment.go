package models

import "time"

// Comment lives in a sub-collection of its target entity.
type Comment struct {
	ID         string     `json:"id"`
	TargetID   string     `json:"target_id"`
	TargetType TargetType `json:"target_type"`
	AuthorID   string     `json:"author_id"`
	Content    string     `json:"content"`
	Edited     bool       `json:"edited"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreateCommentRequest is the payload for commenting on a target.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// UpdateCommentRequest is the payload for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
