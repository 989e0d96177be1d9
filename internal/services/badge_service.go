package services

import (
	"context"
	"fmt"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"go.uber.org/zap"
)

// BadgeRule is one tier in a category ladder.
type BadgeRule struct {
	Type      models.BadgeType
	Threshold int64
}

// badgeLadder evaluates one stat against a descending threshold ladder.
type badgeLadder struct {
	category models.BadgeCategory
	stat     func(models.UserStats) int64
	// rules are ordered highest threshold first; evaluation stops at the
	// first rule the stat satisfies.
	rules []BadgeRule
}

var ladders = []badgeLadder{
	{
		category: models.BadgeCategoryProjects,
		stat:     func(s models.UserStats) int64 { return s.ProjectCount },
		rules: []BadgeRule{
			{models.BadgeProjects50, 50},
			{models.BadgeProjects25, 25},
			{models.BadgeProjects10, 10},
			{models.BadgeFirstProject, 1},
		},
	},
	{
		category: models.BadgeCategoryArmies,
		stat:     func(s models.UserStats) int64 { return s.ArmyCount },
		rules: []BadgeRule{
			{models.BadgeArmies10, 10},
			{models.BadgeArmies5, 5},
			{models.BadgeFirstArmy, 1},
		},
	},
	{
		category: models.BadgeCategoryRecipes,
		stat:     func(s models.UserStats) int64 { return s.RecipesCreated },
		rules: []BadgeRule{
			{models.BadgeRecipes25, 25},
			{models.BadgeRecipes10, 10},
			{models.BadgeFirstRecipe, 1},
		},
	},
	{
		category: models.BadgeCategoryLikes,
		stat:     func(s models.UserStats) int64 { return s.LikesReceived },
		rules: []BadgeRule{
			{models.BadgeLikes250, 250},
			{models.BadgeLikes50, 50},
			{models.BadgeLikes10, 10},
		},
	},
	{
		category: models.BadgeCategoryFollowers,
		stat:     func(s models.UserStats) int64 { return s.FollowerCount },
		rules: []BadgeRule{
			{models.BadgeFollowers250, 250},
			{models.BadgeFollowers50, 50},
			{models.BadgeFollowers10, 10},
		},
	},
	{
		category: models.BadgeCategoryComments,
		stat:     func(s models.UserStats) int64 { return s.CommentCount },
		rules: []BadgeRule{
			{models.BadgeComments100, 100},
			{models.BadgeComments10, 10},
		},
	},
}

// BadgeService evaluates achievement ladders against a user's stats
// snapshot. Callers invoke it after every stat-mutating operation;
// at-least-once invocation is enough because each award is create-only.
type BadgeService struct {
	badges        repositories.BadgeRepository
	users         repositories.UserRepository
	notifications *NotificationService
	logger        *zap.Logger
}

// NewBadgeService creates a BadgeService.
func NewBadgeService(badges repositories.BadgeRepository, users repositories.UserRepository, notifications *NotificationService, logger *zap.Logger) *BadgeService {
	return &BadgeService{badges: badges, users: users, notifications: notifications, logger: logger}
}

// CheckAndAwardBadges awards, per category, the single highest unearned tier
// the user's stats currently reach. A stat that jumps several tiers in one
// update therefore earns only the top one; intermediate tiers stay skipped.
// Calling again with unchanged stats awards nothing.
func (s *BadgeService) CheckAndAwardBadges(ctx context.Context, userID string) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return mapStoreErr(err, "user %s", userID)
	}
	earned, err := s.badges.EarnedTypes(ctx, userID)
	if err != nil {
		return mapStoreErr(err, "badges for %s", userID)
	}
	for _, ladder := range ladders {
		value := ladder.stat(user.Stats)
		for _, rule := range ladder.rules {
			if value < rule.Threshold {
				continue
			}
			if !earned[rule.Type] {
				if err := s.award(ctx, user, rule.Type); err != nil {
					return err
				}
			}
			break
		}
	}
	return nil
}

// ListBadges returns the user's earned badges.
func (s *BadgeService) ListBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	badges, err := s.badges.List(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err, "badges for %s", userID)
	}
	return badges, nil
}

// award creates the badge document, then runs the award's own secondary
// effects: badge counter, notification, notified flag. The create is the
// idempotency gate; once it reports the badge already present, nothing else
// runs.
func (s *BadgeService) award(ctx context.Context, user *models.User, t models.BadgeType) error {
	created, err := s.badges.Award(ctx, &models.Badge{UserID: user.ID, Type: t})
	if err != nil {
		return mapStoreErr(err, "badge %s for %s", t, user.ID)
	}
	if !created {
		return nil
	}
	s.logger.Info("badge awarded",
		zap.String("user_id", user.ID), zap.String("badge", string(t)))

	sideEffect(s.logger, "badge count", func() error {
		return s.users.IncrementStat(ctx, user.ID, "badgeCount", 1)
	})
	sideEffect(s.logger, "badge notification", func() error {
		if err := s.notifications.Create(ctx, &models.Notification{
			UserID:    user.ID,
			Type:      models.NotificationBadge,
			Message:   fmt.Sprintf("You earned the %s badge!", string(t)),
			ActionURL: "/users/" + user.ID + "/badges",
		}); err != nil {
			return err
		}
		return s.badges.MarkNotified(ctx, user.ID, t)
	})
	return nil
}
