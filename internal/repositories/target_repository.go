package repositories

import (
	"context"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/store"
)

// TargetRepository is the single access path for all three target kinds.
// Projects, armies, and recipes live in separate collections but share the
// capability set the engine cares about.
type TargetRepository interface {
	Create(ctx context.Context, t *models.Target) error
	Get(ctx context.Context, ref models.TargetRef) (*models.Target, error)
	Delete(ctx context.Context, ref models.TargetRef) error
	IncrementLikeCount(ctx context.Context, ref models.TargetRef, delta int64) error
	IncrementCommentCount(ctx context.Context, ref models.TargetRef, delta int64) error
	// Patch applies name/photo/visibility changes.
	Patch(ctx context.Context, ref models.TargetRef, fields map[string]any) error
	// ListByOwner returns the owner's targets of one kind, newest first.
	ListByOwner(ctx context.Context, ownerID string, t models.TargetType, limit int) ([]models.Target, error)
	// GetMany resolves project documents by ID, skipping missing ones.
	GetMany(ctx context.Context, t models.TargetType, ids []string) ([]models.Target, error)
}

type targetRepository struct {
	store store.Store
}

// NewTargetRepository creates a TargetRepository over the document store.
func NewTargetRepository(s store.Store) TargetRepository {
	return &targetRepository{store: s}
}

// TargetPath returns the document path of a target entity.
func TargetPath(ref models.TargetRef) (string, error) {
	coll, err := ref.Type.Collection()
	if err != nil {
		return "", err
	}
	return coll + "/" + ref.ID, nil
}

func (r *targetRepository) Create(ctx context.Context, t *models.Target) error {
	path, err := TargetPath(t.Ref())
	if err != nil {
		return err
	}
	return r.store.Create(ctx, path, map[string]any{
		"ownerId":      t.OwnerID,
		"name":         t.Name,
		"photoUrl":     t.PhotoURL,
		"isPublic":     t.IsPublic,
		"likeCount":    int64(0),
		"commentCount": int64(0),
		"createdAt":    store.ServerTimestamp,
	})
}

func (r *targetRepository) Get(ctx context.Context, ref models.TargetRef) (*models.Target, error) {
	path, err := TargetPath(ref)
	if err != nil {
		return nil, err
	}
	doc, err := r.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return targetFromDoc(ref.Type, doc), nil
}

func (r *targetRepository) Delete(ctx context.Context, ref models.TargetRef) error {
	path, err := TargetPath(ref)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, path)
}

func (r *targetRepository) IncrementLikeCount(ctx context.Context, ref models.TargetRef, delta int64) error {
	return r.increment(ctx, ref, "likeCount", delta)
}

func (r *targetRepository) IncrementCommentCount(ctx context.Context, ref models.TargetRef, delta int64) error {
	return r.increment(ctx, ref, "commentCount", delta)
}

func (r *targetRepository) increment(ctx context.Context, ref models.TargetRef, field string, delta int64) error {
	path, err := TargetPath(ref)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, path, map[string]any{field: store.Increment(delta)})
}

func (r *targetRepository) Patch(ctx context.Context, ref models.TargetRef, fields map[string]any) error {
	path, err := TargetPath(ref)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, path, fields)
}

func (r *targetRepository) ListByOwner(ctx context.Context, ownerID string, t models.TargetType, limit int) ([]models.Target, error) {
	coll, err := t.Collection()
	if err != nil {
		return nil, err
	}
	docs, err := r.store.RunQuery(ctx, store.Query{
		Collection: coll,
		Filters:    []store.Filter{{Field: "ownerId", Op: store.OpEqual, Value: ownerID}},
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	targets := make([]models.Target, 0, len(docs))
	for _, d := range docs {
		targets = append(targets, *targetFromDoc(t, d))
	}
	return targets, nil
}

func (r *targetRepository) GetMany(ctx context.Context, t models.TargetType, ids []string) ([]models.Target, error) {
	targets := make([]models.Target, 0, len(ids))
	for _, id := range ids {
		target, err := r.Get(ctx, models.TargetRef{ID: id, Type: t})
		if err != nil {
			continue
		}
		targets = append(targets, *target)
	}
	return targets, nil
}

func targetFromDoc(t models.TargetType, d store.Doc) *models.Target {
	return &models.Target{
		ID:           d.ID(),
		Type:         t,
		OwnerID:      d.String("ownerId"),
		Name:         d.String("name"),
		PhotoURL:     d.String("photoUrl"),
		IsPublic:     d.Bool("isPublic"),
		LikeCount:    d.Int64("likeCount"),
		CommentCount: d.Int64("commentCount"),
	}
}
