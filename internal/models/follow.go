package models

import "time"

// Follow records a directed follow edge. The document ID is the composite
// key followerID_followingID. Self-follows are rejected before a document is
// ever written.
type Follow struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowID builds the composite document ID for a follow edge.
func FollowID(followerID, followingID string) string {
	return followerID + "_" + followingID
}
