package services

import (
	"context"

	"github.com/brushforge/backend/internal/apperr"
	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TargetService owns the lifecycle hooks of projects, armies, and recipes
// that feed the interaction engine: creation (stat counter, creation
// activity, badge check), visibility/photo updates (activity
// reconciliation), and deletion (cascading removal of likes, comments, and
// activities in bounded batches).
type TargetService struct {
	targets    repositories.TargetRepository
	users      repositories.UserRepository
	likes      repositories.LikeRepository
	comments   repositories.CommentRepository
	activities *ActivityService
	badges     *BadgeService
	reconciler *ReconcilerService
	logger     *zap.Logger
}

// NewTargetService creates a TargetService.
func NewTargetService(
	targets repositories.TargetRepository,
	users repositories.UserRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	activities *ActivityService,
	badges *BadgeService,
	reconciler *ReconcilerService,
	logger *zap.Logger,
) *TargetService {
	return &TargetService{
		targets:    targets,
		users:      users,
		likes:      likes,
		comments:   comments,
		activities: activities,
		badges:     badges,
		reconciler: reconciler,
		logger:     logger,
	}
}

func creationStat(t models.TargetType) string {
	switch t {
	case models.TargetProject:
		return "projectCount"
	case models.TargetArmy:
		return "armyCount"
	default:
		return "recipesCreated"
	}
}

// CreateTarget writes the entity document, then fires the creation side
// effects: owner stat counter, creation activity, badge check.
func (s *TargetService) CreateTarget(ctx context.Context, ownerID string, t models.TargetType, req models.CreateTargetRequest) (*models.Target, error) {
	if !t.Valid() {
		return nil, apperr.InvalidOperation("unknown target type %q", string(t))
	}
	owner, err := s.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, mapStoreErr(err, "user %s", ownerID)
	}

	target := &models.Target{
		ID:       uuid.NewString(),
		Type:     t,
		OwnerID:  ownerID,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		IsPublic: req.IsPublic,
	}
	if err := s.targets.Create(ctx, target); err != nil {
		return nil, mapStoreErr(err, "%s %s", t, target.ID)
	}

	sideEffect(s.logger, "creation counter", func() error {
		return s.users.IncrementStat(ctx, ownerID, creationStat(t), 1)
	})
	sideEffect(s.logger, "creation activity", func() error {
		creationType, err := models.CreationActivityType(t)
		if err != nil {
			return err
		}
		compact := owner.ToCompact()
		_, err = s.activities.CreateActivity(ctx, ownerID, &compact, creationType, target.Ref(), models.ActivityMetadata{
			TargetName: target.Name,
			PhotoURL:   target.PhotoURL,
			Visibility: visibilityOf(target.IsPublic),
		})
		return err
	})
	sideEffect(s.logger, "creation badge check", func() error {
		return s.badges.CheckAndAwardBadges(ctx, ownerID)
	})
	return target, nil
}

// GetTarget resolves one target entity.
func (s *TargetService) GetTarget(ctx context.Context, ref models.TargetRef) (*models.Target, error) {
	target, err := s.targets.Get(ctx, ref)
	if err != nil {
		return nil, mapStoreErr(err, "%s %s", ref.Type, ref.ID)
	}
	return target, nil
}

// ListByOwner returns the owner's targets of one kind, newest first.
func (s *TargetService) ListByOwner(ctx context.Context, ownerID string, t models.TargetType, limit int) ([]models.Target, error) {
	targets, err := s.targets.ListByOwner(ctx, ownerID, t, feedLimit(limit))
	if err != nil {
		return nil, mapStoreErr(err, "%s list for %s", t, ownerID)
	}
	return targets, nil
}

// UpdateTarget patches the entity; a visibility-, photo-, or name-affecting
// change triggers creation-activity reconciliation so the feed snapshot
// converges.
func (s *TargetService) UpdateTarget(ctx context.Context, userID string, ref models.TargetRef, req models.UpdateTargetRequest) (*models.Target, error) {
	target, err := s.targets.Get(ctx, ref)
	if err != nil {
		return nil, mapStoreErr(err, "%s %s", ref.Type, ref.ID)
	}
	if target.OwnerID != userID {
		return nil, apperr.InvalidOperation("user %s does not own %s %s", userID, ref.Type, ref.ID)
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
		target.Name = *req.Name
	}
	if req.PhotoURL != nil {
		fields["photoUrl"] = *req.PhotoURL
		target.PhotoURL = *req.PhotoURL
	}
	if req.IsPublic != nil {
		fields["isPublic"] = *req.IsPublic
		target.IsPublic = *req.IsPublic
	}
	if len(fields) == 0 {
		return target, nil
	}
	if err := s.targets.Patch(ctx, ref, fields); err != nil {
		return nil, mapStoreErr(err, "%s %s", ref.Type, ref.ID)
	}

	sideEffect(s.logger, "activity reconciliation", func() error {
		return s.reconciler.SyncCreationActivity(ctx, target)
	})
	return target, nil
}

// DeleteTarget removes the entity and cascades over its likes, comments,
// and activities. Each cascade runs in bounded batches and is isolated, so
// a failed branch leaves orphans for the pruning job rather than aborting
// the deletion.
func (s *TargetService) DeleteTarget(ctx context.Context, userID string, ref models.TargetRef) error {
	target, err := s.targets.Get(ctx, ref)
	if err != nil {
		return mapStoreErr(err, "%s %s", ref.Type, ref.ID)
	}
	if target.OwnerID != userID {
		return apperr.InvalidOperation("user %s does not own %s %s", userID, ref.Type, ref.ID)
	}
	if err := s.targets.Delete(ctx, ref); err != nil {
		return mapStoreErr(err, "%s %s", ref.Type, ref.ID)
	}

	sideEffect(s.logger, "like cascade", func() error {
		paths, err := s.likes.PathsForTarget(ctx, ref.ID)
		if err != nil {
			return err
		}
		return s.batchDelete(ctx, paths)
	})
	sideEffect(s.logger, "comment cascade", func() error {
		paths, err := s.comments.PathsForTarget(ctx, ref)
		if err != nil {
			return err
		}
		return s.batchDelete(ctx, paths)
	})
	sideEffect(s.logger, "activity cascade", func() error {
		_, err := s.activities.DeleteActivitiesForTarget(ctx, ref.ID)
		return err
	})
	sideEffect(s.logger, "creation counter", func() error {
		return s.users.IncrementStat(ctx, target.OwnerID, creationStat(ref.Type), -1)
	})
	return nil
}

// batchDelete reuses the activity repository's bounded batch deletion for
// arbitrary document paths.
func (s *TargetService) batchDelete(ctx context.Context, paths []string) error {
	return s.activities.activities.DeletePaths(ctx, paths)
}
