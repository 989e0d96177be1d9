package models

import "time"

// NotificationType enumerates the events a user is notified about.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationFollow  NotificationType = "follow"
	NotificationComment NotificationType = "comment"
	NotificationBadge   NotificationType = "badge"
)

// Notification is one entry in a user's append-only notification log. Only
// the Read flag is ever updated in place.
type Notification struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Type       NotificationType `json:"type"`
	ActorID    string           `json:"actor_id,omitempty"`
	TargetID   string           `json:"target_id,omitempty"`
	TargetType TargetType       `json:"target_type,omitempty"`
	Message    string           `json:"message"`
	ActionURL  string           `json:"action_url,omitempty"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"created_at"`
}
