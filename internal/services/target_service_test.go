package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brushforge/backend/internal/apperr"
	"github.com/brushforge/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTargetRunsCreationSideEffects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")

	army, err := env.targetSvc.CreateTarget(ctx, "painter", models.TargetArmy,
		models.CreateTargetRequest{Name: "Sylvaneth Host", IsPublic: true})
	require.NoError(t, err)

	painter, err := env.users.GetUserByID(ctx, "painter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), painter.Stats.ArmyCount)

	creation, err := env.activityRepo.FindCreation(ctx, army.ID, models.ActivityArmyCreated)
	require.NoError(t, err)
	assert.Equal(t, "Sylvaneth Host", creation.Metadata.TargetName)
	assert.Equal(t, "Painter", creation.Metadata.ActorName)

	earned, err := env.badgeRepo.EarnedTypes(ctx, "painter")
	require.NoError(t, err)
	assert.True(t, earned[models.BadgeFirstArmy])
}

func TestCreateTargetUnknownKindRejected(t *testing.T) {
	env := newTestEnv(t)
	env.mustUser(t, "painter", "Painter")

	_, err := env.targetSvc.CreateTarget(context.Background(), "painter", models.TargetType("diorama"),
		models.CreateTargetRequest{Name: "x"})
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)
}

func TestCreateTargetUnknownOwnerRejected(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.targetSvc.CreateTarget(context.Background(), "ghost", models.TargetProject,
		models.CreateTargetRequest{Name: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateTargetRequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")
	env.mustUser(t, "intruder", "Intruder")
	project := env.mustProject(t, "painter", "Mine", true)

	name := "Stolen"
	_, err := env.targetSvc.UpdateTarget(ctx, "intruder", project.Ref(),
		models.UpdateTargetRequest{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)

	err = env.targetSvc.DeleteTarget(ctx, "intruder", project.Ref())
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)
}

func TestUpdateTargetWithoutChangesIsNoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")
	project := env.mustProject(t, "painter", "Unchanged", true)

	updated, err := env.targetSvc.UpdateTarget(ctx, "painter", project.Ref(), models.UpdateTargetRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Unchanged", updated.Name)
}

func TestDeleteTargetCascadesOverInteractions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "painter", "Painter")
	project := env.mustProject(t, "painter", "Big Diorama", true)

	for _, uid := range []string{"f1", "f2", "f3"} {
		env.mustUser(t, uid, "Fan "+uid)
		_, err := env.engagement.ToggleLike(ctx, uid, project.Ref())
		require.NoError(t, err)
	}
	_, err := env.engagement.CreateComment(ctx, "f1", project.Ref(), "Wow")
	require.NoError(t, err)

	// More referencing activities than a single write batch can delete.
	old := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 1200; i++ {
		require.NoError(t, env.store.Set(ctx, fmt.Sprintf("activities/bulk%d", i), map[string]any{
			"userId":    "f1",
			"type":      string(models.ActivityLiked),
			"targetId":  project.ID,
			"createdAt": old.Add(time.Duration(i) * time.Second),
		}))
	}

	require.NoError(t, env.targetSvc.DeleteTarget(ctx, "painter", project.Ref()))

	_, err = env.targets.Get(ctx, project.Ref())
	require.Error(t, err)

	likePaths, err := env.likes.PathsForTarget(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, likePaths)

	commentPaths, err := env.comments.PathsForTarget(ctx, project.Ref())
	require.NoError(t, err)
	assert.Empty(t, commentPaths)

	activityPaths, err := env.activityRepo.PathsForTarget(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, activityPaths)

	painter, err := env.users.GetUserByID(ctx, "painter")
	require.NoError(t, err)
	assert.Equal(t, int64(0), painter.Stats.ProjectCount)
}
