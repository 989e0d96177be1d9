package repositories

import (
	"context"

	"github.com/brushforge/backend/internal/models"
	"github.com/brushforge/backend/internal/store"
)

// CommentRepository defines the interface for comments, stored in a
// sub-collection of their target entity.
type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) error
	Get(ctx context.Context, ref models.TargetRef, id string) (*models.Comment, error)
	Update(ctx context.Context, ref models.TargetRef, id, content string) error
	Delete(ctx context.Context, ref models.TargetRef, id string) error
	ListForTarget(ctx context.Context, ref models.TargetRef, limit int) ([]models.Comment, error)
	// PathsForTarget returns the comment document paths under a target, for
	// cascade deletion.
	PathsForTarget(ctx context.Context, ref models.TargetRef) ([]string, error)
}

type commentRepository struct {
	store store.Store
}

// NewCommentRepository creates a CommentRepository over the document store.
func NewCommentRepository(s store.Store) CommentRepository {
	return &commentRepository{store: s}
}

func commentCollection(ref models.TargetRef) (string, error) {
	path, err := TargetPath(ref)
	if err != nil {
		return "", err
	}
	return path + "/comments", nil
}

// CommentPath returns the document path of one comment.
func CommentPath(ref models.TargetRef, id string) (string, error) {
	coll, err := commentCollection(ref)
	if err != nil {
		return "", err
	}
	return coll + "/" + id, nil
}

func (r *commentRepository) Create(ctx context.Context, c *models.Comment) error {
	path, err := CommentPath(models.TargetRef{ID: c.TargetID, Type: c.TargetType}, c.ID)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, path, map[string]any{
		"targetId":   c.TargetID,
		"targetType": string(c.TargetType),
		"authorId":   c.AuthorID,
		"content":    c.Content,
		"edited":     false,
		"createdAt":  store.ServerTimestamp,
	})
}

func (r *commentRepository) Get(ctx context.Context, ref models.TargetRef, id string) (*models.Comment, error) {
	path, err := CommentPath(ref, id)
	if err != nil {
		return nil, err
	}
	doc, err := r.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	c := commentFromDoc(doc)
	return &c, nil
}

func (r *commentRepository) Update(ctx context.Context, ref models.TargetRef, id, content string) error {
	path, err := CommentPath(ref, id)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, path, map[string]any{
		"content": content,
		"edited":  true,
	})
}

func (r *commentRepository) Delete(ctx context.Context, ref models.TargetRef, id string) error {
	path, err := CommentPath(ref, id)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, path)
}

func (r *commentRepository) ListForTarget(ctx context.Context, ref models.TargetRef, limit int) ([]models.Comment, error) {
	coll, err := commentCollection(ref)
	if err != nil {
		return nil, err
	}
	docs, err := r.store.RunQuery(ctx, store.Query{
		Collection: coll,
		OrderBy:    "createdAt",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(docs))
	for _, d := range docs {
		comments = append(comments, commentFromDoc(d))
	}
	return comments, nil
}

func (r *commentRepository) PathsForTarget(ctx context.Context, ref models.TargetRef) ([]string, error) {
	coll, err := commentCollection(ref)
	if err != nil {
		return nil, err
	}
	docs, err := r.store.RunQuery(ctx, store.Query{Collection: coll})
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.Path)
	}
	return paths, nil
}

func commentFromDoc(d store.Doc) models.Comment {
	return models.Comment{
		ID:         d.ID(),
		TargetID:   d.String("targetId"),
		TargetType: models.TargetType(d.String("targetType")),
		AuthorID:   d.String("authorId"),
		Content:    d.String("content"),
		Edited:     d.Bool("edited"),
		CreatedAt:  d.Time("createdAt"),
	}
}
