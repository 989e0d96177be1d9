package repositories

import (
	"context"
	"time"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/store"
)

// ActivityRepository defines the interface for the denormalized feed log.
type ActivityRepository interface {
	Create(ctx context.Context, a *models.Activity) error
	// PatchMetadata updates snapshot fields on one activity in place. Only
	// the reconciler does this.
	PatchMetadata(ctx context.Context, id string, fields map[string]any) error
	ByUser(ctx context.Context, userID string, limit int) ([]models.Activity, error)
	// ByUsers runs one any-of query for a single chunk of at most
	// store.MaxAnyOfValues user IDs.
	ByUsers(ctx context.Context, userIDs []string, limit int) ([]models.Activity, error)
	Global(ctx context.Context, limit int) ([]models.Activity, error)
	// FindCreation locates the creation activity of a target, if any.
	FindCreation(ctx context.Context, targetID string, t models.ActivityType) (*models.Activity, error)
	PathsForTarget(ctx context.Context, targetID string) ([]string, error)
	// OlderThan pages through activities past the cutoff, oldest first.
	OlderThan(ctx context.Context, cutoff time.Time, limit int) ([]models.Activity, error)
	DeletePaths(ctx context.Context, paths []string) error
}

type activityRepository struct {
	store store.Store
}

// NewActivityRepository creates an ActivityRepository over the document store.
func NewActivityRepository(s store.Store) ActivityRepository {
	return &activityRepository{store: s}
}

// ActivityPath returns the document path of one activity.
func ActivityPath(id string) string { return "activities/" + id }

func (r *activityRepository) Create(ctx context.Context, a *models.Activity) error {
	return r.store.Set(ctx, ActivityPath(a.ID), map[string]any{
		"userId":     a.UserID,
		"type":       string(a.Type),
		"targetId":   a.TargetID,
		"targetType": string(a.TargetType),
		"metadata":   metadataData(a.Metadata),
		"createdAt":  store.ServerTimestamp,
	})
}

func (r *activityRepository) PatchMetadata(ctx context.Context, id string, fields map[string]any) error {
	return r.store.Update(ctx, ActivityPath(id), fields)
}

func (r *activityRepository) ByUser(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	return r.query(ctx, store.Query{
		Collection: "activities",
		Filters:    []store.Filter{{Field: "userId", Op: store.OpEqual, Value: userID}},
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      limit,
	})
}

func (r *activityRepository) ByUsers(ctx context.Context, userIDs []string, limit int) ([]models.Activity, error) {
	return r.query(ctx, store.Query{
		Collection: "activities",
		Filters:    []store.Filter{{Field: "userId", Op: store.OpIn, Value: userIDs}},
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      limit,
	})
}

func (r *activityRepository) Global(ctx context.Context, limit int) ([]models.Activity, error) {
	return r.query(ctx, store.Query{
		Collection: "activities",
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      limit,
	})
}

func (r *activityRepository) FindCreation(ctx context.Context, targetID string, t models.ActivityType) (*models.Activity, error) {
	docs, err := r.store.RunQuery(ctx, store.Query{
		Collection: "activities",
		Filters: []store.Filter{
			{Field: "targetId", Op: store.OpEqual, Value: targetID},
			{Field: "type", Op: store.OpEqual, Value: string(t)},
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, store.ErrNotFound
	}
	a := activityFromDoc(docs[0])
	return &a, nil
}

func (r *activityRepository) PathsForTarget(ctx context.Context, targetID string) ([]string, error) {
	docs, err := r.store.RunQuery(ctx, store.Query{
		Collection: "activities",
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

func (r *activityRepository) OlderThan(ctx context.Context, cutoff time.Time, limit int) ([]models.Activity, error) {
	return r.query(ctx, store.Query{
		Collection: "activities",
		Filters:    []store.Filter{{Field: "createdAt", Op: store.OpLess, Value: cutoff}},
		OrderBy:    "createdAt",
		Limit:      limit,
	})
}

// DeletePaths removes the given activity documents in sequential batches of
// at most store.MaxBatchWrites each.
func (r *activityRepository) DeletePaths(ctx context.Context, paths []string) error {
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

func (r *activityRepository) query(ctx context.Context, q store.Query) ([]models.Activity, error) {
	docs, err := r.store.RunQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	activities := make([]models.Activity, 0, len(docs))
	for _, d := range docs {
		activities = append(activities, activityFromDoc(d))
	}
	return activities, nil
}

func activityFromDoc(d store.Doc) models.Activity {
	meta := store.Doc{Data: d.Map("metadata")}
	return models.Activity{
		ID:         d.ID(),
		UserID:     d.String("userId"),
		Type:       models.ActivityType(d.String("type")),
		TargetID:   d.String("targetId"),
		TargetType: models.TargetType(d.String("targetType")),
		Metadata: models.ActivityMetadata{
			TargetName:    meta.String("targetName"),
			PhotoURL:      meta.String("photoUrl"),
			Visibility:    meta.String("visibility"),
			LikeCount:     meta.Int64("likeCount"),
			CommentCount:  meta.Int64("commentCount"),
			ActorName:     meta.String("actorName"),
			ActorPhotoURL: meta.String("actorPhotoUrl"),
		},
		CreatedAt: d.Time("createdAt"),
	}
}

func metadataData(m models.ActivityMetadata) map[string]any {
	return map[string]any{
		"targetName":    m.TargetName,
		"photoUrl":      m.PhotoURL,
		"visibility":    m.Visibility,
		"likeCount":     m.LikeCount,
		"commentCount":  m.CommentCount,
		"actorName":     m.ActorName,
		"actorPhotoUrl": m.ActorPhotoURL,
	}
}
