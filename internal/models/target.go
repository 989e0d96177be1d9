package models

import "fmt"

// TargetType discriminates the three likeable, commentable entity kinds.
type TargetType string

const (
	TargetProject TargetType = "project"
	TargetArmy    TargetType = "army"
	TargetRecipe  TargetType = "recipe"
)

// Collection returns the store collection holding entities of this type.
func (t TargetType) Collection() (string, error) {
	switch t {
	case TargetProject:
		return "projects", nil
	case TargetArmy:
		return "armies", nil
	case TargetRecipe:
		return "recipes", nil
	default:
		return "", fmt.Errorf("unknown target type %q", string(t))
	}
}

// Valid reports whether t is one of the known target types.
func (t TargetType) Valid() bool {
	_, err := t.Collection()
	return err == nil
}

// TargetRef identifies one target entity.
type TargetRef struct {
	ID   string     `json:"id"`
	Type TargetType `json:"type"`
}

// Target is the unified view of a Project, Army, or Recipe that the
// interaction engine operates on. The three concrete kinds differ only in
// hobby-specific detail fields; everything the engine needs is here.
type Target struct {
	ID           string     `json:"id"`
	Type         TargetType `json:"type"`
	OwnerID      string     `json:"owner_id"`
	Name         string     `json:"name"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	IsPublic     bool       `json:"is_public"`
	LikeCount    int64      `json:"like_count"`
	CommentCount int64      `json:"comment_count"`
}

// Ref returns the reference for the target.
func (t *Target) Ref() TargetRef {
	return TargetRef{ID: t.ID, Type: t.Type}
}

// CreateTargetRequest is the payload for creating a project, army, or recipe.
// Hobby detail (description, paint steps, army points) is free-form; the
// engine only cares about the shared fields.
type CreateTargetRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	PhotoURL    string `json:"photo_url,omitempty" validate:"omitempty,url"`
	IsPublic    bool   `json:"is_public"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdateTargetRequest carries the visibility- and photo-affecting updates
// that trigger activity reconciliation.
type UpdateTargetRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	PhotoURL *string `json:"photo_url,omitempty" validate:"omitempty,url"`
	IsPublic *bool   `json:"is_public,omitempty"`
}
