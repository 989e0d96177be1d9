package services

import (
	"context"
	"testing"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/brushforge/backend/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv wires every service over one in-memory store.
type testEnv struct {
	store *store.MemoryStore

	users         repositories.UserRepository
	targets       repositories.TargetRepository
	likes         repositories.LikeRepository
	follows       repositories.FollowRepository
	comments      repositories.CommentRepository
	activityRepo  repositories.ActivityRepository
	notifRepo     repositories.NotificationRepository
	badgeRepo     repositories.BadgeRepository
	saved         *fakeSavedProjects

	notifications *NotificationService
	activities    *ActivityService
	badges        *BadgeService
	reconciler    *ReconcilerService
	engagement    *EngagementService
	targetSvc     *TargetService
	feed          *FeedService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	mem := store.NewMemoryStore()

	env := &testEnv{
		store:        mem,
		users:        repositories.NewUserRepository(mem),
		targets:      repositories.NewTargetRepository(mem),
		likes:        repositories.NewLikeRepository(mem),
		follows:      repositories.NewFollowRepository(mem),
		comments:     repositories.NewCommentRepository(mem),
		activityRepo: repositories.NewActivityRepository(mem),
		notifRepo:    repositories.NewNotificationRepository(mem),
		badgeRepo:    repositories.NewBadgeRepository(mem),
		saved:        newFakeSavedProjects(),
	}

	env.notifications = NewNotificationService(env.notifRepo, env.users, logger)
	env.activities = NewActivityService(env.activityRepo, logger)
	env.badges = NewBadgeService(env.badgeRepo, env.users, env.notifications, logger)
	env.reconciler = NewReconcilerService(env.activityRepo, env.notifRepo, env.users, 0, logger)
	env.engagement = NewEngagementService(
		env.likes, env.follows, env.comments, env.targets, env.users,
		env.notifications, env.activities, env.badges, logger)
	env.targetSvc = NewTargetService(
		env.targets, env.users, env.likes, env.comments,
		env.activities, env.badges, env.reconciler, logger)
	env.feed = NewFeedService(env.activityRepo, env.follows, env.targets, env.saved)
	return env
}

func (e *testEnv) mustUser(t *testing.T, id, name string) *models.User {
	t.Helper()
	require.NoError(t, e.users.EnsureUser(context.Background(), &models.User{ID: id, DisplayName: name}))
	user, err := e.users.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func (e *testEnv) mustProject(t *testing.T, ownerID, name string, public bool) *models.Target {
	t.Helper()
	target, err := e.targetSvc.CreateTarget(context.Background(), ownerID, models.TargetProject,
		models.CreateTargetRequest{Name: name, IsPublic: public})
	require.NoError(t, err)
	return target
}

func (e *testEnv) notificationsOfType(t *testing.T, userID string, nt models.NotificationType) []models.Notification {
	t.Helper()
	all, err := e.notifications.List(context.Background(), userID, 50)
	require.NoError(t, err)
	var out []models.Notification
	for _, n := range all {
		if n.Type == nt {
			out = append(out, n)
		}
	}
	return out
}

// fakeSavedProjects is an in-memory SavedProjectRepository so feed tests do
// not need PostgreSQL.
type fakeSavedProjects struct {
	byUser map[string][]string
}

func newFakeSavedProjects() *fakeSavedProjects {
	return &fakeSavedProjects{byUser: make(map[string][]string)}
}

func (f *fakeSavedProjects) Save(userID, projectID string) error {
	// Newest bookmark first, matching the SQL ordering.
	f.byUser[userID] = append([]string{projectID}, f.byUser[userID]...)
	return nil
}

func (f *fakeSavedProjects) Unsave(userID, projectID string) error {
	kept := f.byUser[userID][:0]
	for _, id := range f.byUser[userID] {
		if id != projectID {
			kept = append(kept, id)
		}
	}
	f.byUser[userID] = kept
	return nil
}

func (f *fakeSavedProjects) IsSaved(userID, projectID string) (bool, error) {
	for _, id := range f.byUser[userID] {
		if id == projectID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSavedProjects) SavedProjectIDs(userID string, limit int) ([]string, error) {
	ids := f.byUser[userID]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (f *fakeSavedProjects) SavedIDsAmong(userID string, projectIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range projectIDs {
		saved, _ := f.IsSaved(userID, id)
		if saved {
			out[id] = true
		}
	}
	return out, nil
}
