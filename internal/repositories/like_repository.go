package repositories

import (
	"context"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/store"
)

// LikeRepository defines the interface for like relation access. A like's
// document ID is the composite userID_targetID key, so existence checks and
// toggles are single-document operations.
type LikeRepository interface {
	Get(ctx context.Context, userID, targetID string) (*models.Like, error)
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, targetID string) error
	CountForTarget(ctx context.Context, targetID string) (int64, error)
	// PathsForTarget returns the like document paths referencing targetID,
	// for cascade deletion.
	PathsForTarget(ctx context.Context, targetID string) ([]string, error)
}

type likeRepository struct {
	store store.Store
}

// NewLikeRepository creates a LikeRepository over the document store.
func NewLikeRepository(s store.Store) LikeRepository {
	return &likeRepository{store: s}
}

// LikePath returns the document path of one like relation.
func LikePath(userID, targetID string) string {
	return "likes/" + models.LikeID(userID, targetID)
}

func (r *likeRepository) Get(ctx context.Context, userID, targetID string) (*models.Like, error) {
	doc, err := r.store.Get(ctx, LikePath(userID, targetID))
	if err != nil {
		return nil, err
	}
	return likeFromDoc(doc), nil
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	return r.store.Create(ctx, LikePath(like.UserID, like.TargetID), map[string]any{
		"userId":     like.UserID,
		"targetId":   like.TargetID,
		"targetType": string(like.TargetType),
		"createdAt":  store.ServerTimestamp,
	})
}

func (r *likeRepository) Delete(ctx context.Context, userID, targetID string) error {
	return r.store.Delete(ctx, LikePath(userID, targetID))
}

func (r *likeRepository) CountForTarget(ctx context.Context, targetID string) (int64, error) {
	return r.store.Count(ctx, store.Query{
		Collection: "likes",
		Filters:    []store.Filter{{Field: "targetId", Op: store.OpEqual, Value: targetID}},
	})
}

func (r *likeRepository) PathsForTarget(ctx context.Context, targetID string) ([]string, error) {
	docs, err := r.store.RunQuery(ctx, store.Query{
		Collection: "likes",
		Filters:    []store.Filter{{Field: "targetId", Op: store.OpEqual, Value: targetID}},
	})
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.Path)
	}
	return paths, nil
}

func likeFromDoc(d store.Doc) *models.Like {
	return &models.Like{
		UserID:     d.String("userId"),
		TargetID:   d.String("targetId"),
		TargetType: models.TargetType(d.String("targetType")),
		CreatedAt:  d.Time("createdAt"),
	}
}
