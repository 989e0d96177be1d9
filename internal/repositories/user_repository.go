package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/store"
)

// UserRepository defines the interface for user aggregate access.
type UserRepository interface {
	EnsureUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// IncrementStat atomically adjusts one stats counter, e.g. "likesReceived".
	IncrementStat(ctx context.Context, userID, stat string, delta int64) error
	IncrementUnread(ctx context.Context, userID string, delta int64) error
	SetUnread(ctx context.Context, userID string, count int64) error
	// UsersPage returns up to limit user IDs ordered by creation time,
	// resuming after the cursor. Used by maintenance scans.
	UsersPage(ctx context.Context, after time.Time, limit int) ([]string, time.Time, error)
}

type userRepository struct {
	store store.Store
}

// NewUserRepository creates a UserRepository over the document store.
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{store: s}
}

// UserPath returns the document path of a user aggregate.
func UserPath(id string) string { return "users/" + id }

// EnsureUser creates the user document on first login or refreshes the
// profile fields without touching counters.
func (r *userRepository) EnsureUser(ctx context.Context, user *models.User) error {
	err := r.store.Create(ctx, UserPath(user.ID), map[string]any{
		"displayName":             user.DisplayName,
		"photoUrl":                user.PhotoURL,
		"stats":                   statsData(models.UserStats{}),
		"unreadNotificationCount": int64(0),
		"createdAt":               store.ServerTimestamp,
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		return err
	}
	return r.store.Update(ctx, UserPath(user.ID), map[string]any{
		"displayName": user.DisplayName,
		"photoUrl":    user.PhotoURL,
	})
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.Get(ctx, UserPath(id))
	if err != nil {
		return nil, err
	}
	return userFromDoc(doc), nil
}

func (r *userRepository) IncrementStat(ctx context.Context, userID, stat string, delta int64) error {
	return r.store.Update(ctx, UserPath(userID), map[string]any{
		"stats." + stat: store.Increment(delta),
	})
}

func (r *userRepository) IncrementUnread(ctx context.Context, userID string, delta int64) error {
	return r.store.Update(ctx, UserPath(userID), map[string]any{
		"unreadNotificationCount": store.Increment(delta),
	})
}

func (r *userRepository) SetUnread(ctx context.Context, userID string, count int64) error {
	return r.store.Update(ctx, UserPath(userID), map[string]any{
		"unreadNotificationCount": count,
	})
}

func (r *userRepository) UsersPage(ctx context.Context, after time.Time, limit int) ([]string, time.Time, error) {
	q := store.Query{
		Collection: "users",
		OrderBy:    "createdAt",
		Limit:      limit,
	}
	if !after.IsZero() {
		q.StartAfter = after
	}
	docs, err := r.store.RunQuery(ctx, q)
	if err != nil {
		return nil, time.Time{}, err
	}
	ids := make([]string, 0, len(docs))
	var next time.Time
	for _, d := range docs {
		ids = append(ids, d.ID())
		next = d.Time("createdAt")
	}
	return ids, next, nil
}

func userFromDoc(d store.Doc) *models.User {
	stats := store.Doc{Data: d.Map("stats")}
	// A document written before the unread counter existed decodes as -1,
	// which sends reads down the recompute path.
	unread := int64(-1)
	if _, ok := d.Data["unreadNotificationCount"]; ok {
		unread = d.Int64("unreadNotificationCount")
	}
	return &models.User{
		ID:          d.ID(),
		DisplayName: d.String("displayName"),
		PhotoURL:    d.String("photoUrl"),
		Stats: models.UserStats{
			ProjectCount:     stats.Int64("projectCount"),
			ArmyCount:        stats.Int64("armyCount"),
			RecipesCreated:   stats.Int64("recipesCreated"),
			LikesReceived:    stats.Int64("likesReceived"),
			FollowerCount:    stats.Int64("followerCount"),
			FollowingCount:   stats.Int64("followingCount"),
			CommentCount:     stats.Int64("commentCount"),
			CommentsReceived: stats.Int64("commentsReceived"),
			BadgeCount:       stats.Int64("badgeCount"),
		},
		UnreadNotificationCount: unread,
	}
}

func statsData(s models.UserStats) map[string]any {
	return map[string]any{
		"projectCount":     s.ProjectCount,
		"armyCount":        s.ArmyCount,
		"recipesCreated":   s.RecipesCreated,
		"likesReceived":    s.LikesReceived,
		"followerCount":    s.FollowerCount,
		"followingCount":   s.FollowingCount,
		"commentCount":     s.CommentCount,
		"commentsReceived": s.CommentsReceived,
		"badgeCount":       s.BadgeCount,
	}
}
