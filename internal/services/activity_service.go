package services

import (
	"context"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityService writes the denormalized activity log. Each activity
// carries a metadata snapshot supplied at write time; the snapshot is never
// re-derived on read, only patched by the reconciler.
type ActivityService struct {
	activities repositories.ActivityRepository
	logger     *zap.Logger
}

// NewActivityService creates an ActivityService.
func NewActivityService(activities repositories.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{activities: activities, logger: logger}
}

// CreateActivity records one feed entry for the actor. The actor's compact
// profile is folded into the metadata snapshot when provided.
func (s *ActivityService) CreateActivity(ctx context.Context, actorID string, actor *models.UserCompact, t models.ActivityType, ref models.TargetRef, meta models.ActivityMetadata) (*models.Activity, error) {
	if actor != nil {
		meta.ActorName = actor.DisplayName
		meta.ActorPhotoURL = actor.PhotoURL
	}
	activity := &models.Activity{
		ID:         uuid.NewString(),
		UserID:     actorID,
		Type:       t,
		TargetID:   ref.ID,
		TargetType: ref.Type,
		Metadata:   meta,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, mapStoreErr(err, "activity for %s", ref.ID)
	}
	return activity, nil
}

// DeleteActivitiesForTarget removes every activity referencing the target.
// The deletion runs as sequential bounded batches, so a target with more
// associated activities than one batch allows still cascades completely.
func (s *ActivityService) DeleteActivitiesForTarget(ctx context.Context, targetID string) (int, error) {
	paths, err := s.activities.PathsForTarget(ctx, targetID)
	if err != nil {
		return 0, mapStoreErr(err, "activities for %s", targetID)
	}
	if err := s.activities.DeletePaths(ctx, paths); err != nil {
		return 0, mapStoreErr(err, "activity cascade for %s", targetID)
	}
	s.logger.Info("deleted activities for target",
		zap.String("target_id", targetID), zap.Int("count", len(paths)))
	return len(paths), nil
}
