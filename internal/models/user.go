package models

// UserStats holds the denormalized per-user counters that drive badge
// evaluation. Every field is maintained by atomic increments, never by
// read-modify-write, and may lag the true counts until reconciled.
type UserStats struct {
	ProjectCount     int64 `json:"project_count"`
	ArmyCount        int64 `json:"army_count"`
	RecipesCreated   int64 `json:"recipes_created"`
	LikesReceived    int64 `json:"likes_received"`
	FollowerCount    int64 `json:"follower_count"`
	FollowingCount   int64 `json:"following_count"`
	CommentCount     int64 `json:"comment_count"`
	CommentsReceived int64 `json:"comments_received"`
	BadgeCount       int64 `json:"badge_count"`
}

// User is the user aggregate. The ID is the Firebase UID.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Stats       UserStats `json:"stats"`

	// UnreadNotificationCount is denormalized from the user's notification
	// log and can drift; readers fall back to a COUNT query when it does.
	UnreadNotificationCount int64 `json:"unread_notification_count"`
}

// UserCompact is the embedded author/actor shape returned inside feeds and
// notifications.
type UserCompact struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// ToCompact returns the compact representation of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL}
}

// EnsureUserRequest registers or refreshes the caller's profile document.
type EnsureUserRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
	PhotoURL    string `json:"photo_url,omitempty" validate:"omitempty,url"`
}
