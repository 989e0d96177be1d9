package services

import (
	"context"
	"testing"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/brushforge/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotifications(t *testing.T, env *testEnv, userID string, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		notification := &models.Notification{
			UserID:  userID,
			Type:    models.NotificationLike,
			Message: "someone liked your project",
		}
		require.NoError(t, env.notifications.Create(context.Background(), notification))
		ids = append(ids, notification.ID)
	}
	return ids
}

func TestCreateIncrementsUnreadCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "u1", "User One")

	seedNotifications(t, env, "u1", 3)

	count, err := env.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestUnreadCountRecomputesWhenCounterDrifts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "u1", "User One")
	seedNotifications(t, env, "u1", 2)

	// Simulate counter drift below zero; the read must recompute from the
	// log and repair the stored value.
	require.NoError(t, env.users.SetUnread(ctx, "u1", -4))

	count, err := env.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	user, err := env.users.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.UnreadNotificationCount)
}

func TestUnreadCountRecomputesWhenCounterFieldMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A user document written before the unread counter field existed.
	require.NoError(t, env.store.Set(ctx, "users/legacy", map[string]any{
		"displayName": "Legacy User",
		"stats":       map[string]any{},
		"createdAt":   store.ServerTimestamp,
	}))
	for _, id := range []string{"n1", "n2"} {
		require.NoError(t, env.store.Set(ctx, repositories.NotificationPath("legacy", id), map[string]any{
			"userId":    "legacy",
			"type":      string(models.NotificationLike),
			"message":   "someone liked your project",
			"read":      false,
			"createdAt": store.ServerTimestamp,
		}))
	}

	count, err := env.notifications.UnreadCount(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// The read repairs the stored counter.
	user, err := env.users.GetUserByID(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.UnreadNotificationCount)
}

func TestMarkReadDecrementsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "u1", "User One")
	ids := seedNotifications(t, env, "u1", 2)

	require.NoError(t, env.notifications.MarkRead(ctx, "u1", ids[0]))
	count, err := env.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Marking an already-read notification must not decrement again.
	require.NoError(t, env.notifications.MarkRead(ctx, "u1", ids[0]))
	count, err = env.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkAllReadResetsCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "u1", "User One")
	seedNotifications(t, env, "u1", 4)

	require.NoError(t, env.notifications.MarkAllRead(ctx, "u1"))

	count, err := env.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	unread, err := env.notifRepo.ListUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestDeleteUnreadDecrementsCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "u1", "User One")
	ids := seedNotifications(t, env, "u1", 2)

	require.NoError(t, env.notifications.Delete(ctx, "u1", ids[0]))

	count, err := env.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	remaining, err := env.notifications.List(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestDeleteReadNotificationKeepsCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustUser(t, "u1", "User One")
	ids := seedNotifications(t, env, "u1", 2)

	require.NoError(t, env.notifications.MarkRead(ctx, "u1", ids[0]))
	require.NoError(t, env.notifications.Delete(ctx, "u1", ids[0]))

	count, err := env.notifications.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
