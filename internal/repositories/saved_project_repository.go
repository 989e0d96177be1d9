package repositories

import (
	"errors"
	"fmt"

	"github.com/brushforge/backend/internal/apperr"
	"github.com/brushforge/backend/internal/models"
	"gorm.io/gorm"
)

// SavedProjectRepository defines the interface for the relational
// saved-projects bookmark table backing the saved feed.
type SavedProjectRepository interface {
	Save(userID, projectID string) error
	Unsave(userID, projectID string) error
	IsSaved(userID, projectID string) (bool, error)
	// SavedProjectIDs returns the user's bookmarked project IDs, newest
	// bookmark first.
	SavedProjectIDs(userID string, limit int) ([]string, error)
	SavedIDsAmong(userID string, projectIDs []string) (map[string]bool, error)
}

// PostgresSavedProjectRepository implements SavedProjectRepository for
// PostgreSQL.
type PostgresSavedProjectRepository struct {
	db *gorm.DB
}

// NewPostgresSavedProjectRepository creates a new PostgresSavedProjectRepository.
func NewPostgresSavedProjectRepository(db *gorm.DB) *PostgresSavedProjectRepository {
	return &PostgresSavedProjectRepository{db: db}
}

func (r *PostgresSavedProjectRepository) Save(userID, projectID string) error {
	err := r.db.Create(&models.SavedProject{UserID: userID, ProjectID: projectID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.InvalidOperation("project %s already saved", projectID)
	}
	return err
}

func (r *PostgresSavedProjectRepository) Unsave(userID, projectID string) error {
	res := r.db.Where("user_id = ? AND project_id = ?", userID, projectID).Delete(&models.SavedProject{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("saved project: %w", apperr.ErrNotFound)
	}
	return nil
}

func (r *PostgresSavedProjectRepository) IsSaved(userID, projectID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedProject{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresSavedProjectRepository) SavedProjectIDs(userID string, limit int) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.SavedProject{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Pluck("project_id", &ids).Error
	return ids, err
}

func (r *PostgresSavedProjectRepository) SavedIDsAmong(userID string, projectIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(projectIDs) == 0 {
		return result, nil
	}
	var saved []models.SavedProject
	err := r.db.Where("user_id = ? AND project_id IN ?", userID, projectIDs).Find(&saved).Error
	if err != nil {
		return nil, err
	}
	for _, s := range saved {
		result[s.ProjectID] = true
	}
	return result, nil
}
