// Package store defines the document-store port the interaction engine is
// built on, plus Firestore, MongoDB, and in-memory implementations. Documents
// are addressed by slash-separated paths ("users/u1",
// "projects/p1/comments/c1"); odd path depths name collections, even depths
// name documents.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// MaxBatchWrites is the largest number of writes one batch may carry.
	// Cascades larger than this must be split into sequential batches.
	MaxBatchWrites = 500

	// MaxAnyOfValues is the largest value set an "in" filter accepts.
	// Callers with more values must chunk their queries.
	MaxAnyOfValues = 30
)

var (
	ErrNotFound      = errors.New("store: document not found")
	ErrAlreadyExists = errors.New("store: document already exists")
)

// IncrementValue is a field sentinel resolved by the backend as an atomic
// numeric increment (negative deltas decrement).
type IncrementValue struct{ Delta int64 }

// Increment returns an atomic increment sentinel for Set/Update/batch fields.
func Increment(delta int64) IncrementValue { return IncrementValue{Delta: delta} }

// ServerTimestampValue is a field sentinel resolved by the backend to its
// server-assigned write time.
type ServerTimestampValue struct{}

// ServerTimestamp is the server-assigned timestamp sentinel.
var ServerTimestamp ServerTimestampValue

// Doc is a read document snapshot.
type Doc struct {
	Path string
	Data map[string]any
}

// ID returns the last path segment.
func (d Doc) ID() string {
	if i := strings.LastIndexByte(d.Path, '/'); i >= 0 {
		return d.Path[i+1:]
	}
	return d.Path
}

// String reads a string field, returning "" when absent.
func (d Doc) String(field string) string {
	s, _ := d.Data[field].(string)
	return s
}

// Bool reads a bool field, returning false when absent.
func (d Doc) Bool(field string) bool {
	b, _ := d.Data[field].(bool)
	return b
}

// Int64 reads a numeric field regardless of the width the backend decoded.
func (d Doc) Int64(field string) int64 {
	switch v := d.Data[field].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Time reads a timestamp field, returning the zero time when absent.
func (d Doc) Time(field string) time.Time {
	t, _ := d.Data[field].(time.Time)
	return t
}

// Map reads a nested map field, returning nil when absent.
func (d Doc) Map(field string) map[string]any {
	m, _ := d.Data[field].(map[string]any)
	return m
}

// Op is a query filter operator.
type Op string

const (
	OpEqual          Op = "=="
	OpLess           Op = "<"
	OpGreaterOrEqual Op = ">="
	OpIn             Op = "in"
)

// Filter restricts a query on one field.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query selects documents from one collection path, with at most one sort
// key and an optional cursor on that key.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int

	// StartAfter resumes after the given OrderBy value. Used by paginated
	// maintenance scans.
	StartAfter any
}

// Validate enforces the store's query limits; every backend calls it.
func (q Query) Validate() error {
	if q.Collection == "" {
		return fmt.Errorf("store: query missing collection")
	}
	for _, f := range q.Filters {
		if f.Op != OpIn {
			continue
		}
		vals, ok := f.Value.([]string)
		if !ok {
			return fmt.Errorf("store: %q filter on %s requires []string", OpIn, f.Field)
		}
		if len(vals) == 0 {
			return fmt.Errorf("store: %q filter on %s requires at least one value", OpIn, f.Field)
		}
		if len(vals) > MaxAnyOfValues {
			return fmt.Errorf("store: %q filter on %s exceeds %d values", OpIn, f.Field, MaxAnyOfValues)
		}
	}
	return nil
}

// Batch accumulates writes applied together. Backends apply one batch
// atomically where the underlying store supports it; a batch never exceeds
// MaxBatchWrites.
type Batch interface {
	Set(path string, data map[string]any)
	Update(path string, fields map[string]any)
	Delete(path string)
	Len() int
	Commit(ctx context.Context) error
}

// Store is the aggregate-store port.
type Store interface {
	// Get returns the document at path, or ErrNotFound.
	Get(ctx context.Context, path string) (Doc, error)
	// Set creates or overwrites the document at path.
	Set(ctx context.Context, path string, data map[string]any) error
	// Create writes the document at path, failing with ErrAlreadyExists if
	// one is present.
	Create(ctx context.Context, path string, data map[string]any) error
	// Update patches fields of an existing document, or ErrNotFound.
	// Field names may be dotted paths into nested maps.
	Update(ctx context.Context, path string, fields map[string]any) error
	// Delete removes the document at path. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, path string) error
	// RunQuery executes q and returns matching documents.
	RunQuery(ctx context.Context, q Query) ([]Doc, error)
	// Count returns the number of documents matching q's filters.
	Count(ctx context.Context, q Query) (int64, error)
	// NewBatch returns an empty write batch.
	NewBatch() Batch
}

// ChunkStrings splits vals into chunks of at most size elements, preserving
// order. Used for any-of query fan-out and cascade batching.
func ChunkStrings(vals []string, size int) [][]string {
	if size <= 0 || len(vals) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(vals)+size-1)/size)
	for start := 0; start < len(vals); start += size {
		end := start + size
		if end > len(vals) {
			end = len(vals)
		}
		chunks = append(chunks, vals[start:end])
	}
	return chunks
}

func errBatchTooLarge(n int) error {
	return fmt.Errorf("store: batch of %d writes exceeds limit of %d", n, MaxBatchWrites)
}
