package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brushforge/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCreationActivityPatchesExisting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")
	project := env.mustProject(t, "painter", "Hidden WIP", false)

	// The private creation activity exists but is invisible globally.
	global, err := env.feed.GlobalFeed(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, global)

	public := true
	name := "Finished Piece"
	_, err = env.targetSvc.UpdateTarget(ctx, "painter", project.Ref(),
		models.UpdateTargetRequest{IsPublic: &public, Name: &name})
	require.NoError(t, err)

	creation, err := env.activityRepo.FindCreation(ctx, project.ID, models.ActivityProjectCreated)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, creation.Metadata.Visibility)
	assert.Equal(t, "Finished Piece", creation.Metadata.TargetName)

	global, err = env.feed.GlobalFeed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, global, 1)
	assert.Equal(t, project.ID, global[0].TargetID)
}

func TestSyncCreationActivitySynthesizesWhenMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")

	// A target written without the activity fan-out, as if it predates
	// activity tracking.
	target := &models.Target{
		ID:       "legacy1",
		Type:     models.TargetProject,
		OwnerID:  "painter",
		Name:     "Legacy Project",
		IsPublic: true,
	}
	require.NoError(t, env.targets.Create(ctx, target))

	require.NoError(t, env.reconciler.SyncCreationActivity(ctx, target))

	creation, err := env.activityRepo.FindCreation(ctx, "legacy1", models.ActivityProjectCreated)
	require.NoError(t, err)
	assert.Equal(t, "painter", creation.UserID)
	assert.Equal(t, models.VisibilityPublic, creation.Metadata.Visibility)
	assert.Equal(t, "Legacy Project", creation.Metadata.TargetName)

	// Running again patches the one activity instead of duplicating it.
	require.NoError(t, env.reconciler.SyncCreationActivity(ctx, target))
	paths, err := env.activityRepo.PathsForTarget(ctx, "legacy1")
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestPruneDeletesAgedDocumentsInPages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "u1", "User One")
	env.mustUser(t, "u2", "User Two")

	cutoff := time.Now().UTC().AddDate(0, 0, -90)
	old := cutoff.Add(-24 * time.Hour)

	// More aged activities than one scan page holds.
	for i := 0; i < 650; i++ {
		require.NoError(t, env.store.Set(ctx, fmt.Sprintf("activities/old%d", i), map[string]any{
			"userId":    "u1",
			"type":      string(models.ActivityLiked),
			"createdAt": old.Add(time.Duration(i) * time.Second),
		}))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, env.store.Set(ctx, fmt.Sprintf("activities/new%d", i), map[string]any{
			"userId":    "u1",
			"type":      string(models.ActivityLiked),
			"createdAt": time.Now().UTC(),
		}))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, env.store.Set(ctx, fmt.Sprintf("users/u1/notifications/old%d", i), map[string]any{
			"userId":    "u1",
			"read":      false,
			"createdAt": old.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, env.store.Set(ctx, "users/u2/notifications/fresh", map[string]any{
		"userId":    "u2",
		"read":      false,
		"createdAt": time.Now().UTC(),
	}))

	report, err := env.reconciler.Prune(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 650, report.Activities)
	assert.Equal(t, 3, report.Notifications)

	remaining, err := env.activityRepo.Global(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, remaining, 5)

	fresh, err := env.notifRepo.List(ctx, "u2", 10)
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}

func TestPruneNoopWhenNothingAged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "u1", "User One")
	env.mustProject(t, "u1", "Fresh", true)

	report, err := env.reconciler.Prune(ctx, time.Now().UTC().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Activities)
	assert.Equal(t, 0, report.Notifications)
}
