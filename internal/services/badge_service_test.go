package services

import (
	"context"
	"testing"

	"github.com/brushforge/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func earnedTypes(t *testing.T, env *testEnv, userID string) map[models.BadgeType]bool {
	t.Helper()
	earned, err := env.badgeRepo.EarnedTypes(context.Background(), userID)
	require.NoError(t, err)
	return earned
}

func TestFirstProjectAwardsBadgeOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")

	env.mustProject(t, "painter", "First Mini", true)

	painter, err := env.users.GetUserByID(ctx, "painter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), painter.Stats.ProjectCount)
	assert.Equal(t, int64(1), painter.Stats.BadgeCount)

	earned := earnedTypes(t, env, "painter")
	assert.True(t, earned[models.BadgeFirstProject])

	badgeNotifications := env.notificationsOfType(t, "painter", models.NotificationBadge)
	require.Len(t, badgeNotifications, 1)
	assert.Equal(t, "You earned the first_project badge!", badgeNotifications[0].Message)

	// A second evaluation with unchanged stats awards nothing.
	require.NoError(t, env.badges.CheckAndAwardBadges(ctx, "painter"))

	painter, err = env.users.GetUserByID(ctx, "painter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), painter.Stats.BadgeCount)
	assert.Len(t, env.notificationsOfType(t, "painter", models.NotificationBadge), 1)
}

func TestCheckAndAwardBadgesSkipsIntermediateTiers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "popular", "Popular")

	require.NoError(t, env.users.IncrementStat(ctx, "popular", "likesReceived", 60))
	require.NoError(t, env.badges.CheckAndAwardBadges(ctx, "popular"))

	earned := earnedTypes(t, env, "popular")
	assert.True(t, earned[models.BadgeLikes50])
	assert.False(t, earned[models.BadgeLikes10])
	assert.False(t, earned[models.BadgeLikes250])
}

func TestBadgeLaddersEvaluateIndependently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "veteran", "Veteran")

	require.NoError(t, env.users.IncrementStat(ctx, "veteran", "projectCount", 12))
	require.NoError(t, env.users.IncrementStat(ctx, "veteran", "followerCount", 10))
	require.NoError(t, env.badges.CheckAndAwardBadges(ctx, "veteran"))

	earned := earnedTypes(t, env, "veteran")
	assert.True(t, earned[models.BadgeProjects10])
	assert.True(t, earned[models.BadgeFollowers10])
	assert.False(t, earned[models.BadgeFirstProject])

	// Crossing the next threshold awards the next tier only.
	require.NoError(t, env.users.IncrementStat(ctx, "veteran", "projectCount", 15))
	require.NoError(t, env.badges.CheckAndAwardBadges(ctx, "veteran"))

	earned = earnedTypes(t, env, "veteran")
	assert.True(t, earned[models.BadgeProjects25])
	assert.False(t, earned[models.BadgeProjects50])
}

func TestAwardMarksNotified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")
	env.mustProject(t, "painter", "Mini", true)

	badges, err := env.badges.ListBadges(ctx, "painter")
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeFirstProject, badges[0].Type)
	assert.True(t, badges[0].Notified)
	assert.False(t, badges[0].EarnedAt.IsZero())
}
