package models

import "time"

// Like records one user liking one target. The document ID is the composite
// key userID_targetID, so at most one like per pair can ever exist and the
// document's existence is the source of truth for the liked state.
type Like struct {
	UserID     string     `json:"user_id"`
	TargetID   string     `json:"target_id"`
	TargetType TargetType `json:"target_type"`
	CreatedAt  time.Time  `json:"created_at"`
}

// LikeID builds the composite document ID for a (user, target) pair.
func LikeID(userID, targetID string) string {
	return userID + "_" + targetID
}
