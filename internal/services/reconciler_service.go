package services

import (
	"context"
	"errors"
	"time"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/brushforge/backend/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultRetentionDays is the pruning horizon for activities and
	// notifications.
	DefaultRetentionDays = 90

	// prunePageSize bounds each scan page well below the batch-write limit.
	prunePageSize = 300
)

// PruneReport summarizes one pruning run.
type PruneReport struct {
	Activities    int `json:"activities"`
	Notifications int `json:"notifications"`
}

// ReconcilerService repairs drift between target entities and their
// denormalized activity snapshots, and prunes aged activity and notification
// documents. Repair is lazy: it runs when a visibility- or photo-affecting
// update happens, not on a continuous background sync. Pruning is an
// out-of-band maintenance operation and must never run on the request path.
type ReconcilerService struct {
	activities    repositories.ActivityRepository
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	logger        *zap.Logger

	// throttle is slept between prune pages to keep the scan rate-limited;
	// zero disables it.
	throttle time.Duration
}

// NewReconcilerService creates a ReconcilerService.
func NewReconcilerService(
	activities repositories.ActivityRepository,
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	throttle time.Duration,
	logger *zap.Logger,
) *ReconcilerService {
	return &ReconcilerService{
		activities:    activities,
		notifications: notifications,
		users:         users,
		throttle:      throttle,
		logger:        logger,
	}
}

// SyncCreationActivity converges the target's creation activity with the
// target's current visibility, photo, and name. When no creation activity
// exists (the target predates activity tracking, or it just became public
// for the first time) one is synthesized so the global feed can pick the
// target up.
func (s *ReconcilerService) SyncCreationActivity(ctx context.Context, target *models.Target) error {
	creationType, err := models.CreationActivityType(target.Type)
	if err != nil {
		return err
	}
	existing, err := s.activities.FindCreation(ctx, target.ID, creationType)
	if err == nil {
		return mapStoreErr(s.activities.PatchMetadata(ctx, existing.ID, map[string]any{
			"metadata.visibility": visibilityOf(target.IsPublic),
			"metadata.photoUrl":   target.PhotoURL,
			"metadata.targetName": target.Name,
		}), "activity %s", existing.ID)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return mapStoreErr(err, "creation activity for %s", target.ID)
	}

	s.logger.Info("synthesizing missing creation activity",
		zap.String("target_id", target.ID), zap.String("target_type", string(target.Type)))
	return mapStoreErr(s.activities.Create(ctx, &models.Activity{
		ID:         uuid.NewString(),
		UserID:     target.OwnerID,
		Type:       creationType,
		TargetID:   target.ID,
		TargetType: target.Type,
		Metadata: models.ActivityMetadata{
			TargetName:   target.Name,
			PhotoURL:     target.PhotoURL,
			Visibility:   visibilityOf(target.IsPublic),
			LikeCount:    target.LikeCount,
			CommentCount: target.CommentCount,
		},
	}), "creation activity for %s", target.ID)
}

// Prune deletes activities and notifications older than the cutoff via a
// paginated scan with bounded batch deletes.
func (s *ReconcilerService) Prune(ctx context.Context, cutoff time.Time) (PruneReport, error) {
	var report PruneReport

	for {
		activities, err := s.activities.OlderThan(ctx, cutoff, prunePageSize)
		if err != nil {
			return report, mapStoreErr(err, "activity prune scan")
		}
		if len(activities) == 0 {
			break
		}
		paths := make([]string, 0, len(activities))
		for _, a := range activities {
			paths = append(paths, repositories.ActivityPath(a.ID))
		}
		if err := s.activities.DeletePaths(ctx, paths); err != nil {
			return report, mapStoreErr(err, "activity prune delete")
		}
		report.Activities += len(paths)
		s.pause()
	}

	var after time.Time
	for {
		userIDs, next, err := s.users.UsersPage(ctx, after, prunePageSize)
		if err != nil {
			return report, mapStoreErr(err, "user prune scan")
		}
		if len(userIDs) == 0 {
			break
		}
		for _, userID := range userIDs {
			n, err := s.pruneNotifications(ctx, userID, cutoff)
			if err != nil {
				return report, err
			}
			report.Notifications += n
		}
		after = next
		s.pause()
	}

	s.logger.Info("prune complete",
		zap.Time("cutoff", cutoff),
		zap.Int("activities", report.Activities),
		zap.Int("notifications", report.Notifications))
	return report, nil
}

func (s *ReconcilerService) pruneNotifications(ctx context.Context, userID string, cutoff time.Time) (int, error) {
	total := 0
	for {
		notifications, err := s.notifications.OlderThan(ctx, userID, cutoff, prunePageSize)
		if err != nil {
			return total, mapStoreErr(err, "notification prune scan for %s", userID)
		}
		if len(notifications) == 0 {
			return total, nil
		}
		paths := make([]string, 0, len(notifications))
		for _, n := range notifications {
			paths = append(paths, repositories.NotificationPath(userID, n.ID))
		}
		if err := s.notifications.DeletePaths(ctx, paths); err != nil {
			return total, mapStoreErr(err, "notification prune delete for %s", userID)
		}
		total += len(paths)
		s.pause()
	}
}

func (s *ReconcilerService) pause() {
	if s.throttle > 0 {
		time.Sleep(s.throttle)
	}
}
