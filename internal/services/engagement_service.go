package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/brushforge/backend/internal/apperr"
	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/brushforge/backend/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EngagementService is the ledger for likes, follows, and comments. Relation
// documents are keyed by composite IDs so existence is the source of truth;
// the denormalized counters on the affected aggregates are adjusted with
// atomic increments in the same call. Notifications, activities, received
// counters, and badge checks are secondary effects: isolated, logged on
// failure, never rolled back.
type EngagementService struct {
	likes         repositories.LikeRepository
	follows       repositories.FollowRepository
	comments      repositories.CommentRepository
	targets       repositories.TargetRepository
	users         repositories.UserRepository
	notifications *NotificationService
	activities    *ActivityService
	badges        *BadgeService
	logger        *zap.Logger
}

// NewEngagementService creates an EngagementService.
func NewEngagementService(
	likes repositories.LikeRepository,
	follows repositories.FollowRepository,
	comments repositories.CommentRepository,
	targets repositories.TargetRepository,
	users repositories.UserRepository,
	notifications *NotificationService,
	activities *ActivityService,
	badges *BadgeService,
	logger *zap.Logger,
) *EngagementService {
	return &EngagementService{
		likes:         likes,
		follows:       follows,
		comments:      comments,
		targets:       targets,
		users:         users,
		notifications: notifications,
		activities:    activities,
		badges:        badges,
		logger:        logger,
	}
}

// ToggleLike flips the like state of (userID, target). It returns the state
// after the toggle. Side effects fire only on the like transition, never on
// unlike.
func (s *EngagementService) ToggleLike(ctx context.Context, userID string, ref models.TargetRef) (bool, error) {
	target, err := s.targets.Get(ctx, ref)
	if err != nil {
		return false, mapStoreErr(err, "%s %s", ref.Type, ref.ID)
	}

	_, err = s.likes.Get(ctx, userID, ref.ID)
	switch {
	case err == nil:
		// Unlike: remove the relation and settle the counter. No side
		// effects on this transition. Like mark-read, this is a
		// read-then-write sequence, so two concurrent unlikes can
		// double-decrement.
		if err := s.likes.Delete(ctx, userID, ref.ID); err != nil {
			return true, mapStoreErr(err, "like %s", models.LikeID(userID, ref.ID))
		}
		if err := s.targets.IncrementLikeCount(ctx, ref, -1); err != nil {
			return false, mapStoreErr(err, "like count on %s", ref.ID)
		}
		return false, nil
	case !errors.Is(err, store.ErrNotFound):
		return false, mapStoreErr(err, "like %s", models.LikeID(userID, ref.ID))
	}

	err = s.likes.Create(ctx, &models.Like{UserID: userID, TargetID: ref.ID, TargetType: ref.Type})
	if errors.Is(err, store.ErrAlreadyExists) {
		// A concurrent toggle won the race; the composite key kept the
		// relation single so the counter must not move again.
		return true, nil
	}
	if err != nil {
		return false, mapStoreErr(err, "like %s", models.LikeID(userID, ref.ID))
	}
	if err := s.targets.IncrementLikeCount(ctx, ref, 1); err != nil {
		return true, mapStoreErr(err, "like count on %s", ref.ID)
	}

	actor, actorErr := s.users.GetUserByID(ctx, userID)
	if target.OwnerID != userID {
		sideEffect(s.logger, "like notification", func() error {
			if actorErr != nil {
				return actorErr
			}
			return s.notifications.Create(ctx, &models.Notification{
				UserID:     target.OwnerID,
				Type:       models.NotificationLike,
				ActorID:    userID,
				TargetID:   ref.ID,
				TargetType: ref.Type,
				Message:    fmt.Sprintf("%s liked your %s %q", actor.DisplayName, ref.Type, target.Name),
				ActionURL:  targetActionURL(ref),
			})
		})
		sideEffect(s.logger, "likes received counter", func() error {
			return s.users.IncrementStat(ctx, target.OwnerID, "likesReceived", 1)
		})
		sideEffect(s.logger, "owner badge check", func() error {
			return s.badges.CheckAndAwardBadges(ctx, target.OwnerID)
		})
	}
	sideEffect(s.logger, "like activity", func() error {
		if actorErr != nil {
			return actorErr
		}
		compact := actor.ToCompact()
		_, err := s.activities.CreateActivity(ctx, userID, &compact, models.ActivityLiked, ref, models.ActivityMetadata{
			TargetName:   target.Name,
			PhotoURL:     target.PhotoURL,
			Visibility:   visibilityOf(target.IsPublic),
			LikeCount:    target.LikeCount + 1,
			CommentCount: target.CommentCount,
		})
		return err
	})
	return true, nil
}

// FollowUser creates the follow edge and adjusts both parties' counters.
func (s *EngagementService) FollowUser(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return apperr.InvalidOperation("user %s cannot follow themselves", followerID)
	}
	followed, err := s.users.GetUserByID(ctx, followingID)
	if err != nil {
		return mapStoreErr(err, "user %s", followingID)
	}

	err = s.follows.Create(ctx, &models.Follow{FollowerID: followerID, FollowingID: followingID})
	if errors.Is(err, store.ErrAlreadyExists) {
		return apperr.InvalidOperation("user %s already follows %s", followerID, followingID)
	}
	if err != nil {
		return mapStoreErr(err, "follow %s", models.FollowID(followerID, followingID))
	}
	if err := s.users.IncrementStat(ctx, followerID, "followingCount", 1); err != nil {
		return mapStoreErr(err, "following count for %s", followerID)
	}
	if err := s.users.IncrementStat(ctx, followingID, "followerCount", 1); err != nil {
		return mapStoreErr(err, "follower count for %s", followingID)
	}

	actor, actorErr := s.users.GetUserByID(ctx, followerID)
	sideEffect(s.logger, "follow notification", func() error {
		if actorErr != nil {
			return actorErr
		}
		return s.notifications.Create(ctx, &models.Notification{
			UserID:    followingID,
			Type:      models.NotificationFollow,
			ActorID:   followerID,
			Message:   actor.DisplayName + " started following you",
			ActionURL: "/users/" + followerID,
		})
	})
	sideEffect(s.logger, "follow activity", func() error {
		if actorErr != nil {
			return actorErr
		}
		compact := actor.ToCompact()
		_, err := s.activities.CreateActivity(ctx, followerID, &compact, models.ActivityFollowed, models.TargetRef{}, models.ActivityMetadata{
			TargetName: followed.DisplayName,
			PhotoURL:   followed.PhotoURL,
			Visibility: models.VisibilityPublic,
		})
		return err
	})
	sideEffect(s.logger, "followed badge check", func() error {
		return s.badges.CheckAndAwardBadges(ctx, followingID)
	})
	return nil
}

// UnfollowUser removes the follow edge and settles both counters. No side
// effects on this transition.
func (s *EngagementService) UnfollowUser(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return apperr.InvalidOperation("user %s cannot unfollow themselves", followerID)
	}
	if _, err := s.follows.Get(ctx, followerID, followingID); err != nil {
		return mapStoreErr(err, "follow %s", models.FollowID(followerID, followingID))
	}
	if err := s.follows.Delete(ctx, followerID, followingID); err != nil {
		return mapStoreErr(err, "follow %s", models.FollowID(followerID, followingID))
	}
	if err := s.users.IncrementStat(ctx, followerID, "followingCount", -1); err != nil {
		return mapStoreErr(err, "following count for %s", followerID)
	}
	if err := s.users.IncrementStat(ctx, followingID, "followerCount", -1); err != nil {
		return mapStoreErr(err, "follower count for %s", followingID)
	}
	return nil
}

// CreateComment appends a comment under the target and adjusts its counter.
func (s *EngagementService) CreateComment(ctx context.Context, authorID string, ref models.TargetRef, content string) (*models.Comment, error) {
	target, err := s.targets.Get(ctx, ref)
	if err != nil {
		return nil, mapStoreErr(err, "%s %s", ref.Type, ref.ID)
	}

	comment := &models.Comment{
		ID:         uuid.NewString(),
		TargetID:   ref.ID,
		TargetType: ref.Type,
		AuthorID:   authorID,
		Content:    content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, mapStoreErr(err, "comment on %s", ref.ID)
	}
	if err := s.targets.IncrementCommentCount(ctx, ref, 1); err != nil {
		return nil, mapStoreErr(err, "comment count on %s", ref.ID)
	}

	actor, actorErr := s.users.GetUserByID(ctx, authorID)
	sideEffect(s.logger, "comment counter", func() error {
		return s.users.IncrementStat(ctx, authorID, "commentCount", 1)
	})
	if target.OwnerID != authorID {
		sideEffect(s.logger, "comments received counter", func() error {
			return s.users.IncrementStat(ctx, target.OwnerID, "commentsReceived", 1)
		})
		sideEffect(s.logger, "comment notification", func() error {
			if actorErr != nil {
				return actorErr
			}
			return s.notifications.Create(ctx, &models.Notification{
				UserID:     target.OwnerID,
				Type:       models.NotificationComment,
				ActorID:    authorID,
				TargetID:   ref.ID,
				TargetType: ref.Type,
				Message:    fmt.Sprintf("%s commented on your %s %q", actor.DisplayName, ref.Type, target.Name),
				ActionURL:  targetActionURL(ref),
			})
		})
	}
	sideEffect(s.logger, "comment activity", func() error {
		if actorErr != nil {
			return actorErr
		}
		compact := actor.ToCompact()
		_, err := s.activities.CreateActivity(ctx, authorID, &compact, models.ActivityCommented, ref, models.ActivityMetadata{
			TargetName:   target.Name,
			PhotoURL:     target.PhotoURL,
			Visibility:   visibilityOf(target.IsPublic),
			LikeCount:    target.LikeCount,
			CommentCount: target.CommentCount + 1,
		})
		return err
	})
	sideEffect(s.logger, "author badge check", func() error {
		return s.badges.CheckAndAwardBadges(ctx, authorID)
	})
	return comment, nil
}

// UpdateComment edits a comment's content and marks it edited.
func (s *EngagementService) UpdateComment(ctx context.Context, authorID string, ref models.TargetRef, id, content string) error {
	comment, err := s.comments.Get(ctx, ref, id)
	if err != nil {
		return mapStoreErr(err, "comment %s", id)
	}
	if comment.AuthorID != authorID {
		return apperr.InvalidOperation("user %s is not the author of comment %s", authorID, id)
	}
	return mapStoreErr(s.comments.Update(ctx, ref, id, content), "comment %s", id)
}

// DeleteComment removes a comment. The author or the target owner may
// delete; stat reversals are secondary.
func (s *EngagementService) DeleteComment(ctx context.Context, userID string, ref models.TargetRef, id string) error {
	target, err := s.targets.Get(ctx, ref)
	if err != nil {
		return mapStoreErr(err, "%s %s", ref.Type, ref.ID)
	}
	comment, err := s.comments.Get(ctx, ref, id)
	if err != nil {
		return mapStoreErr(err, "comment %s", id)
	}
	if comment.AuthorID != userID && target.OwnerID != userID {
		return apperr.InvalidOperation("user %s cannot delete comment %s", userID, id)
	}
	if err := s.comments.Delete(ctx, ref, id); err != nil {
		return mapStoreErr(err, "comment %s", id)
	}
	if err := s.targets.IncrementCommentCount(ctx, ref, -1); err != nil {
		return mapStoreErr(err, "comment count on %s", ref.ID)
	}
	sideEffect(s.logger, "comment counter", func() error {
		return s.users.IncrementStat(ctx, comment.AuthorID, "commentCount", -1)
	})
	if target.OwnerID != comment.AuthorID {
		sideEffect(s.logger, "comments received counter", func() error {
			return s.users.IncrementStat(ctx, target.OwnerID, "commentsReceived", -1)
		})
	}
	return nil
}

// ListComments returns the newest comments under a target.
func (s *EngagementService) ListComments(ctx context.Context, ref models.TargetRef, limit int) ([]models.Comment, error) {
	comments, err := s.comments.ListForTarget(ctx, ref, limit)
	if err != nil {
		return nil, mapStoreErr(err, "comments on %s", ref.ID)
	}
	return comments, nil
}

func targetActionURL(ref models.TargetRef) string {
	coll, err := ref.Type.Collection()
	if err != nil {
		return ""
	}
	return "/" + coll + "/" + ref.ID
}
