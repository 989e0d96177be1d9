package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the production Store backend. The store limits in this
// package (30-value any-of filters, 500-write batches) mirror Firestore's
// own, so everything the port allows maps one to one.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an initialized Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Get(ctx context.Context, path string) (Doc, error) {
	snap, err := s.client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Doc{}, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return Doc{}, err
	}
	return Doc{Path: path, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Set(ctx context.Context, path string, data map[string]any) error {
	_, err := s.client.Doc(path).Set(ctx, translateData(data))
	return err
}

func (s *FirestoreStore) Create(ctx context.Context, path string, data map[string]any) error {
	_, err := s.client.Doc(path).Create(ctx, translateData(data))
	if status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("%s: %w", path, ErrAlreadyExists)
	}
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, path string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: translateValue(v)})
	}
	_, err := s.client.Doc(path).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return err
}

func (s *FirestoreStore) Delete(ctx context.Context, path string) error {
	_, err := s.client.Doc(path).Delete(ctx)
	return err
}

func (s *FirestoreStore) RunQuery(ctx context.Context, q Query) ([]Doc, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	fq, err := s.buildQuery(q)
	if err != nil {
		return nil, err
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Descending {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
		if q.StartAfter != nil {
			fq = fq.StartAfter(q.StartAfter)
		}
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	var out []Doc
	iter := fq.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Doc{Path: q.Collection + "/" + snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

func (s *FirestoreStore) Count(ctx context.Context, q Query) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	fq, err := s.buildQuery(q)
	if err != nil {
		return 0, err
	}
	res, err := fq.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res["count"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("store: unexpected aggregation result %T", res["count"])
	}
	return v.GetIntegerValue(), nil
}

func (s *FirestoreStore) NewBatch() Batch {
	return &firestoreBatch{store: s}
}

func (s *FirestoreStore) buildQuery(q Query) (firestore.Query, error) {
	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		switch f.Op {
		case OpEqual, OpLess, OpGreaterOrEqual:
			fq = fq.Where(f.Field, string(f.Op), f.Value)
		case OpIn:
			fq = fq.Where(f.Field, "in", f.Value)
		default:
			return firestore.Query{}, fmt.Errorf("store: unsupported operator %q", f.Op)
		}
	}
	return fq, nil
}

type firestoreOp struct {
	kind   string
	path   string
	fields map[string]any
}

type firestoreBatch struct {
	store *FirestoreStore
	ops   []firestoreOp
}

func (b *firestoreBatch) Set(path string, data map[string]any) {
	b.ops = append(b.ops, firestoreOp{kind: "set", path: path, fields: data})
}

func (b *firestoreBatch) Update(path string, fields map[string]any) {
	b.ops = append(b.ops, firestoreOp{kind: "update", path: path, fields: fields})
}

func (b *firestoreBatch) Delete(path string) {
	b.ops = append(b.ops, firestoreOp{kind: "delete", path: path})
}

func (b *firestoreBatch) Len() int { return len(b.ops) }

func (b *firestoreBatch) Commit(ctx context.Context) error {
	if len(b.ops) > MaxBatchWrites {
		return errBatchTooLarge(len(b.ops))
	}
	wb := b.store.client.Batch()
	for _, op := range b.ops {
		ref := b.store.client.Doc(op.path)
		switch op.kind {
		case "set":
			wb.Set(ref, translateData(op.fields))
		case "update":
			updates := make([]firestore.Update, 0, len(op.fields))
			for k, v := range op.fields {
				updates = append(updates, firestore.Update{Path: k, Value: translateValue(v)})
			}
			wb.Update(ref, updates)
		case "delete":
			wb.Delete(ref)
		}
	}
	_, err := wb.Commit(ctx)
	if err == nil {
		b.ops = nil
	}
	return err
}

func translateData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = translateValue(v)
	}
	return out
}

func translateValue(v any) any {
	switch sv := v.(type) {
	case IncrementValue:
		return firestore.Increment(sv.Delta)
	case ServerTimestampValue:
		return firestore.ServerTimestamp
	case map[string]any:
		return translateData(sv)
	default:
		return v
	}
}
