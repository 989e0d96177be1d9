package models

import "time"

// SavedProject is the relational bookmark backing the saved feed. Unlike the
// engine's documents it lives in PostgreSQL; the saved feed is a plain
// relation lookup, not an activity-feed source.
type SavedProject struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;uniqueIndex:idx_user_project;size:128"`
	ProjectID string    `json:"project_id" gorm:"index;uniqueIndex:idx_user_project;size:128"`
	CreatedAt time.Time `json:"created_at"`
}
