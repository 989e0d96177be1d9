package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the self-hosted Store backend. Sub-collections map to
// "parent.child"-named collections scoped by a _parent field, since MongoDB
// has no nested collections. The full document path is the _id, which keeps
// composite-key documents unique the same way the Firestore backend does.
//
// MongoDB assigns no server timestamp on replace, so Set resolves the
// ServerTimestamp sentinel with the client clock; Update uses $currentDate.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps a connected database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Get(ctx context.Context, path string) (Doc, error) {
	coll, _, err := docLocation(path)
	if err != nil {
		return Doc{}, err
	}
	var raw bson.M
	err = s.db.Collection(coll).FindOne(ctx, bson.M{"_id": path}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Doc{}, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return Doc{}, err
	}
	return Doc{Path: path, Data: normalizeDoc(raw)}, nil
}

func (s *MongoStore) Set(ctx context.Context, path string, data map[string]any) error {
	coll, parent, err := docLocation(path)
	if err != nil {
		return err
	}
	doc := bson.M{"_id": path}
	if parent != "" {
		doc["_parent"] = parent
	}
	for k, v := range data {
		doc[k] = resolveForReplace(v)
	}
	_, err = s.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": path}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Create(ctx context.Context, path string, data map[string]any) error {
	coll, parent, err := docLocation(path)
	if err != nil {
		return err
	}
	doc := bson.M{"_id": path}
	if parent != "" {
		doc["_parent"] = parent
	}
	for k, v := range data {
		doc[k] = resolveForReplace(v)
	}
	_, err = s.db.Collection(coll).InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", path, ErrAlreadyExists)
	}
	return err
}

func (s *MongoStore) Update(ctx context.Context, path string, fields map[string]any) error {
	coll, _, err := docLocation(path)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(coll).UpdateByID(ctx, path, buildUpdate(fields))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, path string) error {
	coll, _, err := docLocation(path)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": path})
	return err
}

func (s *MongoStore) RunQuery(ctx context.Context, q Query) ([]Doc, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	coll, filter, err := s.buildFilter(q)
	if err != nil {
		return nil, err
	}
	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
		if q.StartAfter != nil {
			op := "$gt"
			if q.Descending {
				op = "$lt"
			}
			mergeFieldFilter(filter, q.OrderBy, op, q.StartAfter)
		}
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Doc
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		path, _ := raw["_id"].(string)
		out = append(out, Doc{Path: path, Data: normalizeDoc(raw)})
	}
	return out, cursor.Err()
}

func (s *MongoStore) Count(ctx context.Context, q Query) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	coll, filter, err := s.buildFilter(q)
	if err != nil {
		return 0, err
	}
	return s.db.Collection(coll).CountDocuments(ctx, filter)
}

func (s *MongoStore) NewBatch() Batch {
	return &mongoBatch{store: s}
}

func (s *MongoStore) buildFilter(q Query) (string, bson.M, error) {
	coll, parent, err := queryLocation(q.Collection)
	if err != nil {
		return "", nil, err
	}
	filter := bson.M{}
	if parent != "" {
		filter["_parent"] = parent
	}
	for _, f := range q.Filters {
		switch f.Op {
		case OpEqual:
			filter[f.Field] = f.Value
		case OpLess:
			mergeFieldFilter(filter, f.Field, "$lt", f.Value)
		case OpGreaterOrEqual:
			mergeFieldFilter(filter, f.Field, "$gte", f.Value)
		case OpIn:
			filter[f.Field] = bson.M{"$in": f.Value}
		default:
			return "", nil, fmt.Errorf("store: unsupported operator %q", f.Op)
		}
	}
	return coll, filter, nil
}

type mongoOp struct {
	kind   string
	path   string
	fields map[string]any
}

// mongoBatch groups writes per collection into ordered BulkWrite calls. The
// writes within one collection apply atomically enough for cascade use; a
// batch spanning collections is applied collection by collection.
type mongoBatch struct {
	store *MongoStore
	ops   []mongoOp
}

func (b *mongoBatch) Set(path string, data map[string]any) {
	b.ops = append(b.ops, mongoOp{kind: "set", path: path, fields: data})
}

func (b *mongoBatch) Update(path string, fields map[string]any) {
	b.ops = append(b.ops, mongoOp{kind: "update", path: path, fields: fields})
}

func (b *mongoBatch) Delete(path string) {
	b.ops = append(b.ops, mongoOp{kind: "delete", path: path})
}

func (b *mongoBatch) Len() int { return len(b.ops) }

func (b *mongoBatch) Commit(ctx context.Context) error {
	if len(b.ops) > MaxBatchWrites {
		return errBatchTooLarge(len(b.ops))
	}
	grouped := make(map[string][]mongo.WriteModel)
	order := make([]string, 0)
	for _, op := range b.ops {
		coll, parent, err := docLocation(op.path)
		if err != nil {
			return err
		}
		var model mongo.WriteModel
		switch op.kind {
		case "set":
			doc := bson.M{"_id": op.path}
			if parent != "" {
				doc["_parent"] = parent
			}
			for k, v := range op.fields {
				doc[k] = resolveForReplace(v)
			}
			model = mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": op.path}).SetReplacement(doc).SetUpsert(true)
		case "update":
			model = mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": op.path}).SetUpdate(buildUpdate(op.fields))
		case "delete":
			model = mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": op.path})
		}
		if _, seen := grouped[coll]; !seen {
			order = append(order, coll)
		}
		grouped[coll] = append(grouped[coll], model)
	}
	for _, coll := range order {
		if _, err := b.store.db.Collection(coll).BulkWrite(ctx, grouped[coll]); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// docLocation maps a document path to its collection name and parent
// document path ("" for top-level documents).
func docLocation(path string) (string, string, error) {
	segs := strings.Split(path, "/")
	if len(segs)%2 != 0 || len(segs) == 0 {
		return "", "", fmt.Errorf("store: %q is not a document path", path)
	}
	names := make([]string, 0, len(segs)/2)
	for i := 0; i < len(segs); i += 2 {
		names = append(names, segs[i])
	}
	parent := ""
	if len(segs) > 2 {
		parent = strings.Join(segs[:len(segs)-2], "/")
	}
	return strings.Join(names, "."), parent, nil
}

// queryLocation maps a collection path to its collection name and the parent
// document path scoping the query.
func queryLocation(path string) (string, string, error) {
	segs := strings.Split(path, "/")
	if len(segs)%2 != 1 {
		return "", "", fmt.Errorf("store: %q is not a collection path", path)
	}
	names := make([]string, 0, (len(segs)+1)/2)
	for i := 0; i < len(segs); i += 2 {
		names = append(names, segs[i])
	}
	parent := ""
	if len(segs) > 1 {
		parent = strings.Join(segs[:len(segs)-1], "/")
	}
	return strings.Join(names, "."), parent, nil
}

func mergeFieldFilter(filter bson.M, field, op string, value any) {
	if existing, ok := filter[field].(bson.M); ok {
		existing[op] = value
		return
	}
	filter[field] = bson.M{op: value}
}

func buildUpdate(fields map[string]any) bson.M {
	set := bson.M{}
	inc := bson.M{}
	current := bson.M{}
	for k, v := range fields {
		switch sv := v.(type) {
		case IncrementValue:
			inc[k] = sv.Delta
		case ServerTimestampValue:
			current[k] = true
		case map[string]any:
			set[k] = resolveForReplace(sv)
		default:
			set[k] = v
		}
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	if len(current) > 0 {
		update["$currentDate"] = current
	}
	return update
}

func resolveForReplace(v any) any {
	switch sv := v.(type) {
	case IncrementValue:
		return sv.Delta
	case ServerTimestampValue:
		return time.Now().UTC()
	case map[string]any:
		out := make(bson.M, len(sv))
		for k, cv := range sv {
			out[k] = resolveForReplace(cv)
		}
		return out
	default:
		return v
	}
}

// normalizeDoc converts decoded BSON values to the types Doc accessors
// expect and strips the bookkeeping fields.
func normalizeDoc(raw bson.M) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "_id" || k == "_parent" {
			continue
		}
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch nv := v.(type) {
	case primitive.DateTime:
		return nv.Time().UTC()
	case primitive.M:
		out := make(map[string]any, len(nv))
		for k, cv := range nv {
			out[k] = normalizeValue(cv)
		}
		return out
	case primitive.A:
		out := make([]any, len(nv))
		for i, cv := range nv {
			out[i] = normalizeValue(cv)
		}
		return out
	case int32:
		return int64(nv)
	default:
		return v
	}
}
