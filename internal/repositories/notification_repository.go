package repositories

import (
	"context"
	"time"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/store"
)

// NotificationRepository defines the interface for a user's notification log,
// a sub-collection of the user aggregate.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	Get(ctx context.Context, userID, id string) (*models.Notification, error)
	List(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]models.Notification, error)
	// CountUnread recomputes the true unread count from the log.
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, userID, id string) error
	// OlderThan pages through a user's notifications past the cutoff.
	OlderThan(ctx context.Context, userID string, cutoff time.Time, limit int) ([]models.Notification, error)
	DeletePaths(ctx context.Context, paths []string) error
	// MarkReadPaths flips the read flag on the given documents in bounded
	// batches.
	MarkReadPaths(ctx context.Context, paths []string) error
}

type notificationRepository struct {
	store store.Store
}

// NewNotificationRepository creates a NotificationRepository over the
// document store.
func NewNotificationRepository(s store.Store) NotificationRepository {
	return &notificationRepository{store: s}
}

// NotificationPath returns the document path of one notification.
func NotificationPath(userID, id string) string {
	return "users/" + userID + "/notifications/" + id
}

func notificationCollection(userID string) string {
	return "users/" + userID + "/notifications"
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.store.Set(ctx, NotificationPath(n.UserID, n.ID), map[string]any{
		"userId":     n.UserID,
		"type":       string(n.Type),
		"actorId":    n.ActorID,
		"targetId":   n.TargetID,
		"targetType": string(n.TargetType),
		"message":    n.Message,
		"actionUrl":  n.ActionURL,
		"read":       false,
		"createdAt":  store.ServerTimestamp,
	})
}

func (r *notificationRepository) Get(ctx context.Context, userID, id string) (*models.Notification, error) {
	doc, err := r.store.Get(ctx, NotificationPath(userID, id))
	if err != nil {
		return nil, err
	}
	n := notificationFromDoc(doc)
	return &n, nil
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	return r.query(ctx, store.Query{
		Collection: notificationCollection(userID),
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      limit,
	})
}

func (r *notificationRepository) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	return r.query(ctx, store.Query{
		Collection: notificationCollection(userID),
		Filters:    []store.Filter{{Field: "read", Op: store.OpEqual, Value: false}},
	})
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.store.Count(ctx, store.Query{
		Collection: notificationCollection(userID),
		Filters:    []store.Filter{{Field: "read", Op: store.OpEqual, Value: false}},
	})
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	return r.store.Update(ctx, NotificationPath(userID, id), map[string]any{"read": true})
}

func (r *notificationRepository) Delete(ctx context.Context, userID, id string) error {
	return r.store.Delete(ctx, NotificationPath(userID, id))
}

func (r *notificationRepository) OlderThan(ctx context.Context, userID string, cutoff time.Time, limit int) ([]models.Notification, error) {
	return r.query(ctx, store.Query{
		Collection: notificationCollection(userID),
		Filters:    []store.Filter{{Field: "createdAt", Op: store.OpLess, Value: cutoff}},
		OrderBy:    "createdAt",
		Limit:      limit,
	})
}

func (r *notificationRepository) DeletePaths(ctx context.Context, paths []string) error {
	for _, chunk := range store.ChunkStrings(paths, store.MaxBatchWrites) {
		batch := r.store.NewBatch()
		for _, p := range chunk {
			batch.Delete(p)
		}
		if err := batch.Commit(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *notificationRepository) MarkReadPaths(ctx context.Context, paths []string) error {
	for _, chunk := range store.ChunkStrings(paths, store.MaxBatchWrites) {
		batch := r.store.NewBatch()
		for _, p := range chunk {
			batch.Update(p, map[string]any{"read": true})
		}
		if err := batch.Commit(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *notificationRepository) query(ctx context.Context, q store.Query) ([]models.Notification, error) {
	docs, err := r.store.RunQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	notifications := make([]models.Notification, 0, len(docs))
	for _, d := range docs {
		notifications = append(notifications, notificationFromDoc(d))
	}
	return notifications, nil
}

func notificationFromDoc(d store.Doc) models.Notification {
	return models.Notification{
		ID:         d.ID(),
		UserID:     d.String("userId"),
		Type:       models.NotificationType(d.String("type")),
		ActorID:    d.String("actorId"),
		TargetID:   d.String("targetId"),
		TargetType: models.TargetType(d.String("targetType")),
		Message:    d.String("message"),
		ActionURL:  d.String("actionUrl"),
		Read:       d.Bool("read"),
		CreatedAt:  d.Time("createdAt"),
	}
}
