package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/brushforge/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnFeedNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")

	env.mustProject(t, "painter", "Older", true)
	newer := env.mustProject(t, "painter", "Newer", true)

	activities, err := env.feed.OwnFeed(ctx, "painter", 10)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, newer.ID, activities[0].TargetID)
	assert.Equal(t, models.ActivityProjectCreated, activities[0].Type)
}

func TestGlobalFeedHidesPrivateSnapshots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")

	public := env.mustProject(t, "painter", "Public Piece", true)
	private := env.mustProject(t, "painter", "Secret Piece", false)

	activities, err := env.feed.GlobalFeed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, public.ID, activities[0].TargetID)
	for _, a := range activities {
		assert.NotEqual(t, private.ID, a.TargetID)
	}
}

func TestFollowingFeedFansInAcrossChunks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "reader", "Reader")

	// 45 followees force two any-of chunks.
	for i := 0; i < 45; i++ {
		uid := fmt.Sprintf("author%02d", i)
		env.mustUser(t, uid, "Author "+uid)
		env.mustProject(t, uid, fmt.Sprintf("Piece %02d", i), true)
		require.NoError(t, env.follows.Create(ctx, &models.Follow{FollowerID: "reader", FollowingID: uid}))
	}

	activities, err := env.feed.FollowingFeed(ctx, "reader", 20)
	require.NoError(t, err)
	require.Len(t, activities, 20)
	for i := 1; i < len(activities); i++ {
		assert.False(t, activities[i].CreatedAt.After(activities[i-1].CreatedAt),
			"feed must be sorted newest first")
	}
}

func TestFollowingFeedEmptyWithoutFollows(t *testing.T) {
	env := newTestEnv(t)
	env.mustUser(t, "loner", "Loner")

	activities, err := env.feed.FollowingFeed(context.Background(), "loner", 20)
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestSavedFeedResolvesBookmarks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")
	env.mustUser(t, "reader", "Reader")

	first := env.mustProject(t, "painter", "First", true)
	second := env.mustProject(t, "painter", "Second", true)
	require.NoError(t, env.saved.Save("reader", first.ID))
	require.NoError(t, env.saved.Save("reader", second.ID))

	projects, err := env.feed.SavedFeed(ctx, "reader", 10)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, second.ID, projects[0].ID)
	assert.Equal(t, first.ID, projects[1].ID)
}

func TestSavedFeedSkipsDeletedProjects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")
	env.mustUser(t, "reader", "Reader")

	kept := env.mustProject(t, "painter", "Kept", true)
	gone := env.mustProject(t, "painter", "Gone", true)
	require.NoError(t, env.saved.Save("reader", kept.ID))
	require.NoError(t, env.saved.Save("reader", gone.ID))
	require.NoError(t, env.targets.Delete(ctx, gone.Ref()))

	projects, err := env.feed.SavedFeed(ctx, "reader", 10)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, kept.ID, projects[0].ID)
}

func TestFeedLimitClamped(t *testing.T) {
	assert.Equal(t, DefaultFeedLimit, feedLimit(0))
	assert.Equal(t, DefaultFeedLimit, feedLimit(-3))
	assert.Equal(t, DefaultFeedLimit, feedLimit(500))
	assert.Equal(t, 35, feedLimit(35))
}
