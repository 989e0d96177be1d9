package repositories

import (
	"context"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/store"
)

// FollowRepository defines the interface for follow edge access.
type FollowRepository interface {
	Get(ctx context.Context, followerID, followingID string) (*models.Follow, error)
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID string) error
	// FollowingIDs resolves every user the given user follows.
	FollowingIDs(ctx context.Context, followerID string) ([]string, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type followRepository struct {
	store store.Store
}

// NewFollowRepository creates a FollowRepository over the document store.
func NewFollowRepository(s store.Store) FollowRepository {
	return &followRepository{store: s}
}

// FollowPath returns the document path of one follow edge.
func FollowPath(followerID, followingID string) string {
	return "follows/" + models.FollowID(followerID, followingID)
}

func (r *followRepository) Get(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	doc, err := r.store.Get(ctx, FollowPath(followerID, followingID))
	if err != nil {
		return nil, err
	}
	return &models.Follow{
		FollowerID:  doc.String("followerId"),
		FollowingID: doc.String("followingId"),
		CreatedAt:   doc.Time("createdAt"),
	}, nil
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	return r.store.Create(ctx, FollowPath(follow.FollowerID, follow.FollowingID), map[string]any{
		"followerId":  follow.FollowerID,
		"followingId": follow.FollowingID,
		"createdAt":   store.ServerTimestamp,
	})
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	return r.store.Delete(ctx, FollowPath(followerID, followingID))
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	docs, err := r.store.RunQuery(ctx, store.Query{
		Collection: "follows",
		Filters:    []store.Filter{{Field: "followerId", Op: store.OpEqual, Value: followerID}},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.String("followingId"))
	}
	return ids, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.store.Count(ctx, store.Query{
		Collection: "follows",
		Filters:    []store.Filter{{Field: "followingId", Op: store.OpEqual, Value: userID}},
	})
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.store.Count(ctx, store.Query{
		Collection: "follows",
		Filters:    []store.Filter{{Field: "followerId", Op: store.OpEqual, Value: userID}},
	})
}
