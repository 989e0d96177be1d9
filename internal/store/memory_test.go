package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFailsWhenDocumentExists(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "likes/u1_p1", map[string]any{"userId": "u1"}))
	err := s.Create(ctx, "likes/u1_p1", map[string]any{"userId": "u1"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateMissingDocumentFails(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "users/nope", map[string]any{"displayName": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingDocumentIsNoError(t *testing.T) {
	s := NewMemoryStore()
	assert.NoError(t, s.Delete(context.Background(), "users/nope"))
}

func TestIncrementSentinel(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "projects/p1", map[string]any{"likeCount": int64(0)}))
	require.NoError(t, s.Update(ctx, "projects/p1", map[string]any{"likeCount": Increment(3)}))
	require.NoError(t, s.Update(ctx, "projects/p1", map[string]any{"likeCount": Increment(-1)}))

	doc, err := s.Get(ctx, "projects/p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Int64("likeCount"))
}

func TestDottedPathUpdateAndServerTimestamp(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "users/u1", map[string]any{
		"stats":     map[string]any{"likesReceived": int64(0)},
		"createdAt": ServerTimestamp,
	}))
	require.NoError(t, s.Update(ctx, "users/u1", map[string]any{
		"stats.likesReceived": Increment(5),
	}))

	doc, err := s.Get(ctx, "users/u1")
	require.NoError(t, err)
	stats := Doc{Data: doc.Map("stats")}
	assert.Equal(t, int64(5), stats.Int64("likesReceived"))
	assert.False(t, doc.Time("createdAt").IsZero())
}

func TestRunQueryRejectsOversizedAnyOf(t *testing.T) {
	s := NewMemoryStore()

	vals := make([]string, MaxAnyOfValues+1)
	for i := range vals {
		vals[i] = fmt.Sprintf("u%d", i)
	}
	_, err := s.RunQuery(context.Background(), Query{
		Collection: "activities",
		Filters:    []Filter{{Field: "userId", Op: OpIn, Value: vals}},
	})
	require.Error(t, err)

	_, err = s.RunQuery(context.Background(), Query{
		Collection: "activities",
		Filters:    []Filter{{Field: "userId", Op: OpIn, Value: vals[:MaxAnyOfValues]}},
	})
	assert.NoError(t, err)
}

func TestRunQueryRejectsEmptyAnyOf(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.RunQuery(context.Background(), Query{
		Collection: "activities",
		Filters:    []Filter{{Field: "userId", Op: OpIn, Value: []string{}}},
	})
	assert.Error(t, err)
}

func TestRunQueryOrderLimitAndCursor(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		path := fmt.Sprintf("activities/a%d", i)
		require.NoError(t, s.Set(ctx, path, map[string]any{
			"userId":    "u1",
			"createdAt": base.Add(time.Duration(i) * time.Hour),
		}))
	}

	docs, err := s.RunQuery(ctx, Query{
		Collection: "activities",
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      3,
	})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a4", docs[0].ID())
	assert.Equal(t, "a2", docs[2].ID())

	docs, err = s.RunQuery(ctx, Query{
		Collection: "activities",
		OrderBy:    "createdAt",
		StartAfter: base.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a3", docs[0].ID())
}

func TestCountWithFilters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		read := i%2 == 0
		require.NoError(t, s.Set(ctx, fmt.Sprintf("users/u1/notifications/n%d", i), map[string]any{
			"read": read,
		}))
	}
	count, err := s.Count(ctx, Query{
		Collection: "users/u1/notifications",
		Filters:    []Filter{{Field: "read", Op: OpEqual, Value: false}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBatchRejectsMoreThanMaxWrites(t *testing.T) {
	s := NewMemoryStore()
	batch := s.NewBatch()
	for i := 0; i <= MaxBatchWrites; i++ {
		batch.Delete(fmt.Sprintf("activities/a%d", i))
	}
	require.Equal(t, MaxBatchWrites+1, batch.Len())
	assert.Error(t, batch.Commit(context.Background()))
}

func TestBatchCommitAppliesAllOps(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "projects/p1", map[string]any{"likeCount": int64(1)}))

	batch := s.NewBatch()
	batch.Set("likes/u1_p1", map[string]any{"userId": "u1"})
	batch.Update("projects/p1", map[string]any{"likeCount": Increment(1)})
	batch.Delete("likes/u2_p1")
	require.NoError(t, batch.Commit(ctx))

	doc, err := s.Get(ctx, "projects/p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Int64("likeCount"))
	_, err = s.Get(ctx, "likes/u1_p1")
	assert.NoError(t, err)
}

func TestChunkStrings(t *testing.T) {
	vals := make([]string, 65)
	for i := range vals {
		vals[i] = fmt.Sprintf("v%d", i)
	}

	chunks := ChunkStrings(vals, MaxAnyOfValues)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 30)
	assert.Len(t, chunks[1], 30)
	assert.Len(t, chunks[2], 5)
	assert.Equal(t, "v0", chunks[0][0])
	assert.Equal(t, "v64", chunks[2][4])

	assert.Nil(t, ChunkStrings(nil, 10))
	assert.Nil(t, ChunkStrings(vals, 0))
}
