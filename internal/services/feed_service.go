package services

import (
	"context"
	"sort"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/repositories"
	"github.com/brushforge/backend/internal/store"
)

// DefaultFeedLimit is used when the caller does not bound a feed read.
const DefaultFeedLimit = 20

// FeedService assembles the four feed views. The following feed fans in
// across chunked any-of queries; the global feed filters private snapshots
// in the application layer because the store cannot filter on the
// denormalized metadata field directly.
type FeedService struct {
	activities repositories.ActivityRepository
	follows    repositories.FollowRepository
	targets    repositories.TargetRepository
	saved      repositories.SavedProjectRepository
}

// NewFeedService creates a FeedService.
func NewFeedService(
	activities repositories.ActivityRepository,
	follows repositories.FollowRepository,
	targets repositories.TargetRepository,
	saved repositories.SavedProjectRepository,
) *FeedService {
	return &FeedService{activities: activities, follows: follows, targets: targets, saved: saved}
}

// OwnFeed returns the user's own activities, newest first.
func (s *FeedService) OwnFeed(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	activities, err := s.activities.ByUser(ctx, userID, feedLimit(limit))
	if err != nil {
		return nil, mapStoreErr(err, "own feed for %s", userID)
	}
	return activities, nil
}

// GlobalFeed returns the newest public activities. Private entries are
// dropped after the query, so the page may come back shorter than limit.
func (s *FeedService) GlobalFeed(ctx context.Context, limit int) ([]models.Activity, error) {
	limit = feedLimit(limit)
	activities, err := s.activities.Global(ctx, limit)
	if err != nil {
		return nil, mapStoreErr(err, "global feed")
	}
	public := make([]models.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Metadata.Visibility == models.VisibilityPrivate {
			continue
		}
		public = append(public, a)
	}
	return public, nil
}

// FollowingFeed resolves the follow list, splits it into any-of chunks of at
// most store.MaxAnyOfValues IDs, queries each chunk independently limited to
// limit, then merges, re-sorts, and truncates. Because each chunk query is
// limited on its own, a chunk of prolific followees can crowd out newer
// items from other chunks before the merge; that approximation is inherent
// to chunked fan-in and deliberately not papered over with unbounded
// over-fetching.
func (s *FeedService) FollowingFeed(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	limit = feedLimit(limit)
	followeeIDs, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err, "follow list for %s", userID)
	}
	if len(followeeIDs) == 0 {
		return []models.Activity{}, nil
	}

	var merged []models.Activity
	for _, chunk := range store.ChunkStrings(followeeIDs, store.MaxAnyOfValues) {
		activities, err := s.activities.ByUsers(ctx, chunk, limit)
		if err != nil {
			return nil, mapStoreErr(err, "following feed for %s", userID)
		}
		merged = append(merged, activities...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// SavedFeed returns the projects the user bookmarked, newest bookmark first.
// It reads the relational saved-projects table, not the activity log.
func (s *FeedService) SavedFeed(ctx context.Context, userID string, limit int) ([]models.Target, error) {
	ids, err := s.saved.SavedProjectIDs(userID, feedLimit(limit))
	if err != nil {
		return nil, err
	}
	return s.targets.GetMany(ctx, models.TargetProject, ids)
}

func feedLimit(limit int) int {
	if limit <= 0 || limit > 50 {
		return DefaultFeedLimit
	}
	return limit
}
