package models

import "time"

// BadgeType names one achievement tier. A user can earn each badge at most
// once; the badge document ID is the badge type, which makes awards
// create-only and therefore idempotent.
type BadgeType string

const (
	// Projects painted.
	BadgeFirstProject   BadgeType = "first_project"
	BadgeProjects10     BadgeType = "projects_10"
	BadgeProjects25     BadgeType = "projects_25"
	BadgeProjects50     BadgeType = "projects_50"
	// Armies assembled.
	BadgeFirstArmy BadgeType = "first_army"
	BadgeArmies5   BadgeType = "armies_5"
	BadgeArmies10  BadgeType = "armies_10"
	// Paint recipes shared.
	BadgeFirstRecipe BadgeType = "first_recipe"
	BadgeRecipes10   BadgeType = "recipes_10"
	BadgeRecipes25   BadgeType = "recipes_25"
	// Likes received across all targets.
	BadgeLikes10  BadgeType = "likes_10"
	BadgeLikes50  BadgeType = "likes_50"
	BadgeLikes250 BadgeType = "likes_250"
	// Followers.
	BadgeFollowers10  BadgeType = "followers_10"
	BadgeFollowers50  BadgeType = "followers_50"
	BadgeFollowers250 BadgeType = "followers_250"
	// Comments written.
	BadgeComments10  BadgeType = "comments_10"
	BadgeComments100 BadgeType = "comments_100"
)

// BadgeCategory groups badge tiers into one threshold ladder.
type BadgeCategory string

const (
	BadgeCategoryProjects  BadgeCategory = "projects"
	BadgeCategoryArmies    BadgeCategory = "armies"
	BadgeCategoryRecipes   BadgeCategory = "recipes"
	BadgeCategoryLikes     BadgeCategory = "likes_received"
	BadgeCategoryFollowers BadgeCategory = "followers"
	BadgeCategoryComments  BadgeCategory = "comments"
)

// Badge is an earned achievement. Immutable once created, except for the
// Notified flag set after the award notification goes out.
type Badge struct {
	UserID   string    `json:"user_id"`
	Type     BadgeType `json:"type"`
	Notified bool      `json:"notified"`
	EarnedAt time.Time `json:"earned_at"`
}
