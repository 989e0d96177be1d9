package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a hermetic Store used by tests and local development. All
// operations resolve sentinels the way the hosted backends do, and one batch
// commits under a single lock.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]any)}
}

func (s *MemoryStore) Get(_ context.Context, path string) (Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[path]
	if !ok {
		return Doc{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return Doc{Path: path, Data: deepCopy(data)}, nil
}

func (s *MemoryStore) Set(_ context.Context, path string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(path, data, time.Now())
	return nil
}

func (s *MemoryStore) Create(_ context.Context, path string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[path]; ok {
		return fmt.Errorf("%s: %w", path, ErrAlreadyExists)
	}
	s.setLocked(path, data, time.Now())
	return nil
}

func (s *MemoryStore) Update(_ context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(path, fields, time.Now())
}

func (s *MemoryStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
	return nil
}

func (s *MemoryStore) RunQuery(_ context.Context, q Query) ([]Doc, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Doc
	for path, data := range s.docs {
		if parentCollection(path) != q.Collection {
			continue
		}
		if !matchesFilters(data, q.Filters) {
			continue
		}
		out = append(out, Doc{Path: path, Data: deepCopy(data)})
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			cmp := compareValues(lookupField(out[i].Data, q.OrderBy), lookupField(out[j].Data, q.OrderBy))
			if q.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
		if q.StartAfter != nil {
			kept := out[:0]
			for _, d := range out {
				cmp := compareValues(lookupField(d.Data, q.OrderBy), q.StartAfter)
				if (q.Descending && cmp < 0) || (!q.Descending && cmp > 0) {
					kept = append(kept, d)
				}
			}
			out = kept
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context, q Query) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for path, data := range s.docs {
		if parentCollection(path) == q.Collection && matchesFilters(data, q.Filters) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) NewBatch() Batch {
	return &memoryBatch{store: s}
}

// Len reports the number of stored documents. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *MemoryStore) setLocked(path string, data map[string]any, now time.Time) {
	doc := make(map[string]any, len(data))
	for k, v := range data {
		setField(doc, strings.Split(k, "."), v, now)
	}
	s.docs[path] = doc
}

func (s *MemoryStore) updateLocked(path string, fields map[string]any, now time.Time) error {
	doc, ok := s.docs[path]
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	for k, v := range fields {
		setField(doc, strings.Split(k, "."), v, now)
	}
	return nil
}

type memoryOp struct {
	kind   string // "set", "update", "delete"
	path   string
	fields map[string]any
}

type memoryBatch struct {
	store *MemoryStore
	ops   []memoryOp
}

func (b *memoryBatch) Set(path string, data map[string]any) {
	b.ops = append(b.ops, memoryOp{kind: "set", path: path, fields: data})
}

func (b *memoryBatch) Update(path string, fields map[string]any) {
	b.ops = append(b.ops, memoryOp{kind: "update", path: path, fields: fields})
}

func (b *memoryBatch) Delete(path string) {
	b.ops = append(b.ops, memoryOp{kind: "delete", path: path})
}

func (b *memoryBatch) Len() int { return len(b.ops) }

func (b *memoryBatch) Commit(_ context.Context) error {
	if len(b.ops) > MaxBatchWrites {
		return errBatchTooLarge(len(b.ops))
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	now := time.Now()
	for _, op := range b.ops {
		switch op.kind {
		case "set":
			b.store.setLocked(op.path, op.fields, now)
		case "update":
			if err := b.store.updateLocked(op.path, op.fields, now); err != nil {
				return err
			}
		case "delete":
			delete(b.store.docs, op.path)
		}
	}
	b.ops = nil
	return nil
}

// setField writes one possibly dotted field, resolving sentinels.
func setField(m map[string]any, path []string, v any, now time.Time) {
	key := path[0]
	if len(path) > 1 {
		child, ok := m[key].(map[string]any)
		if !ok {
			child = make(map[string]any)
			m[key] = child
		}
		setField(child, path[1:], v, now)
		return
	}
	switch sv := v.(type) {
	case IncrementValue:
		cur, _ := m[key].(int64)
		m[key] = cur + sv.Delta
	case ServerTimestampValue:
		m[key] = now
	case map[string]any:
		child := make(map[string]any, len(sv))
		for ck, cv := range sv {
			setField(child, []string{ck}, cv, now)
		}
		m[key] = child
	default:
		m[key] = v
	}
}

func parentCollection(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}
	return path[:i]
}

func matchesFilters(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v := lookupField(data, f.Field)
		switch f.Op {
		case OpEqual:
			if compareValues(v, f.Value) != 0 {
				return false
			}
		case OpLess:
			if compareValues(v, f.Value) >= 0 {
				return false
			}
		case OpGreaterOrEqual:
			if compareValues(v, f.Value) < 0 {
				return false
			}
		case OpIn:
			vals, _ := f.Value.([]string)
			s, _ := v.(string)
			found := false
			for _, want := range vals {
				if s == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func lookupField(data map[string]any, field string) any {
	parts := strings.Split(field, ".")
	var cur any = data
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}

// compareValues orders two field values of the same logical type. Missing
// values sort first.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case time.Time:
		bv, _ := b.(time.Time)
		switch {
		case av.Equal(bv):
			return 0
		case av.Before(bv):
			return -1
		default:
			return 1
		}
	default:
		ai, aok := toInt64(a)
		bi, bok := toInt64(b)
		if aok && bok {
			switch {
			case ai == bi:
				return 0
			case ai < bi:
				return -1
			default:
				return 1
			}
		}
		return 0
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if child, ok := v.(map[string]any); ok {
			out[k] = deepCopy(child)
			continue
		}
		out[k] = v
	}
	return out
}
