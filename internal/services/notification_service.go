package services

import (
	"context"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService appends to each user's notification log and maintains
// the denormalized unread counter. The counter and the log live in different
// documents and are not mutually atomic: the counter can drift, and reads
// repair it from a COUNT query instead of locking.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	logger        *zap.Logger
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, logger: logger}
}

// Create appends the notification and increments the recipient's unread
// counter. The append is the primary write; a failed counter increment is
// logged and left for the recompute fallback.
func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return mapStoreErr(err, "notification for %s", n.UserID)
	}
	if err := s.users.IncrementUnread(ctx, n.UserID, 1); err != nil {
		s.logger.Warn("unread counter increment failed",
			zap.String("user_id", n.UserID), zap.Error(err))
	}
	return nil
}

// List returns the user's newest notifications.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	notifications, err := s.notifications.List(ctx, userID, limit)
	if err != nil {
		return nil, mapStoreErr(err, "notifications for %s", userID)
	}
	return notifications, nil
}

// UnreadCount returns the denormalized counter, recomputing and repairing it
// from the log when it has drifted negative or the user document lacks it.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return 0, mapStoreErr(err, "user %s", userID)
	}
	if user.UnreadNotificationCount >= 0 {
		return user.UnreadNotificationCount, nil
	}
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, mapStoreErr(err, "unread count for %s", userID)
	}
	if err := s.users.SetUnread(ctx, userID, count); err != nil {
		s.logger.Warn("unread counter repair failed",
			zap.String("user_id", userID), zap.Error(err))
	}
	return count, nil
}

// MarkRead flips one notification to read and decrements the counter. This
// is a read-then-write sequence, not a compare-and-swap: two concurrent
// calls on the same notification can both observe it unread and
// double-decrement. The recompute fallback in UnreadCount absorbs that.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	n, err := s.notifications.Get(ctx, userID, id)
	if err != nil {
		return mapStoreErr(err, "notification %s", id)
	}
	if n.Read {
		return nil
	}
	if err := s.notifications.MarkRead(ctx, userID, id); err != nil {
		return mapStoreErr(err, "notification %s", id)
	}
	if err := s.users.IncrementUnread(ctx, userID, -1); err != nil {
		s.logger.Warn("unread counter decrement failed",
			zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

// MarkAllRead flips every unread notification in bounded batches, then
// resets the counter outright.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	unread, err := s.notifications.ListUnread(ctx, userID)
	if err != nil {
		return mapStoreErr(err, "unread notifications for %s", userID)
	}
	paths := make([]string, 0, len(unread))
	for _, n := range unread {
		paths = append(paths, repositories.NotificationPath(userID, n.ID))
	}
	if err := s.notifications.MarkReadPaths(ctx, paths); err != nil {
		return mapStoreErr(err, "mark all read for %s", userID)
	}
	if err := s.users.SetUnread(ctx, userID, 0); err != nil {
		s.logger.Warn("unread counter reset failed",
			zap.String("user_id", userID), zap.Error(err))
	}
	return nil
}

// Delete removes one notification, decrementing the counter when the entry
// was still unread. Same read-then-write caveat as MarkRead.
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	n, err := s.notifications.Get(ctx, userID, id)
	if err != nil {
		return mapStoreErr(err, "notification %s", id)
	}
	if err := s.notifications.Delete(ctx, userID, id); err != nil {
		return mapStoreErr(err, "notification %s", id)
	}
	if !n.Read {
		if err := s.users.IncrementUnread(ctx, userID, -1); err != nil {
			s.logger.Warn("unread counter decrement failed",
				zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}
