package models

import (
	"fmt"
	"time"
)

// ActivityType enumerates every event the feed tracks.
type ActivityType string

const (
	ActivityProjectCreated ActivityType = "project_created"
	ActivityArmyCreated    ActivityType = "army_created"
	ActivityRecipeCreated  ActivityType = "recipe_created"
	ActivityLiked          ActivityType = "liked"
	ActivityFollowed       ActivityType = "followed"
	ActivityCommented      ActivityType = "commented"
)

// CreationActivityType maps a target type to its creation event.
func CreationActivityType(t TargetType) (ActivityType, error) {
	switch t {
	case TargetProject:
		return ActivityProjectCreated, nil
	case TargetArmy:
		return ActivityArmyCreated, nil
	case TargetRecipe:
		return ActivityRecipeCreated, nil
	default:
		return "", fmt.Errorf("no creation activity for target type %q", string(t))
	}
}

// Visibility values stored in activity metadata.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// ActivityMetadata is the snapshot captured at write time. It deliberately
// does not track later changes to the target or actor; the reconciler patches
// visibility and photo fields when the target changes.
type ActivityMetadata struct {
	TargetName    string `json:"target_name,omitempty"`
	PhotoURL      string `json:"photo_url,omitempty"`
	Visibility    string `json:"visibility,omitempty"`
	LikeCount     int64  `json:"like_count"`
	CommentCount  int64  `json:"comment_count"`
	ActorName     string `json:"actor_name,omitempty"`
	ActorPhotoURL string `json:"actor_photo_url,omitempty"`
}

// Activity is one denormalized feed entry.
type Activity struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Type       ActivityType     `json:"type"`
	TargetID   string           `json:"target_id,omitempty"`
	TargetType TargetType       `json:"target_type,omitempty"`
	Metadata   ActivityMetadata `json:"metadata"`
	CreatedAt  time.Time        `json:"created_at"`
}
