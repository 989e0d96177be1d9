package repositories

import (
	"context"
	"errors"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/store"
)

// BadgeRepository defines the interface for earned badges. The badge type is
// the document ID inside the user's badge sub-collection, which makes an
// award a create-only operation: a second attempt hits the existing document
// and is reported as not created rather than failing.
type BadgeRepository interface {
	// Award creates the badge document; it returns false when the badge was
	// already earned.
	Award(ctx context.Context, badge *models.Badge) (bool, error)
	EarnedTypes(ctx context.Context, userID string) (map[models.BadgeType]bool, error)
	List(ctx context.Context, userID string) ([]models.Badge, error)
	MarkNotified(ctx context.Context, userID string, t models.BadgeType) error
}

type badgeRepository struct {
	store store.Store
}

// NewBadgeRepository creates a BadgeRepository over the document store.
func NewBadgeRepository(s store.Store) BadgeRepository {
	return &badgeRepository{store: s}
}

// BadgePath returns the document path of one earned badge.
func BadgePath(userID string, t models.BadgeType) string {
	return "users/" + userID + "/badges/" + string(t)
}

func (r *badgeRepository) Award(ctx context.Context, badge *models.Badge) (bool, error) {
	err := r.store.Create(ctx, BadgePath(badge.UserID, badge.Type), map[string]any{
		"userId":   badge.UserID,
		"type":     string(badge.Type),
		"notified": false,
		"earnedAt": store.ServerTimestamp,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *badgeRepository) EarnedTypes(ctx context.Context, userID string) (map[models.BadgeType]bool, error) {
	badges, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	earned := make(map[models.BadgeType]bool, len(badges))
	for _, b := range badges {
		earned[b.Type] = true
	}
	return earned, nil
}

func (r *badgeRepository) List(ctx context.Context, userID string) ([]models.Badge, error) {
	docs, err := r.store.RunQuery(ctx, store.Query{
		Collection: "users/" + userID + "/badges",
	})
	if err != nil {
		return nil, err
	}
	badges := make([]models.Badge, 0, len(docs))
	for _, d := range docs {
		badges = append(badges, models.Badge{
			UserID:   d.String("userId"),
			Type:     models.BadgeType(d.String("type")),
			Notified: d.Bool("notified"),
			EarnedAt: d.Time("earnedAt"),
		})
	}
	return badges, nil
}

func (r *badgeRepository) MarkNotified(ctx context.Context, userID string, t models.BadgeType) error {
	return r.store.Update(ctx, BadgePath(userID, t), map[string]any{"notified": true})
}
