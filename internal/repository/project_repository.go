package repository

import (
	"github.com/google/uuid"
	"github.com/tracklite/project-tracker/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds an owned project by ID
func (r *GormProjectRepository) FindByID(ownerID uint64, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDWithTasks finds an owned project with its tasks preloaded in the
// default order: priority high to low, soonest deadline first with NULLs
// last, newest creation first.
func (r *GormProjectRepository) FindByIDWithTasks(ownerID uint64, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.
				Order("CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC").
				Order("CASE WHEN deadline IS NULL THEN 1 ELSE 0 END, deadline ASC").
				Order("created_at DESC")
		}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListWithTaskCounts lists owned projects with aggregated task counts,
// newest project first.
func (r *GormProjectRepository) ListWithTaskCounts(ownerID uint64) ([]ProjectWithTaskCount, error) {
	var projects []ProjectWithTaskCount
	err := r.db.Model(&models.Project{}).
		Select("projects.*, COUNT(tasks.id) AS task_count").
		Joins("LEFT JOIN tasks ON tasks.project_id = projects.id").
		Where("projects.owner_id = ?", ownerID).
		Group("projects.id").
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// NameTaken reports whether the owner already has a project with the name.
// excludeID skips the project being updated.
func (r *GormProjectRepository) NameTaken(ownerID uint64, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.Model(&models.Project{}).
		Where("owner_id = ? AND name = ?", ownerID, name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists name and description of an owned project
func (r *GormProjectRepository) Update(ownerID uint64, project *models.Project) error {
	res := r.db.Model(&models.Project{}).
		Where("id = ? AND owner_id = ?", project.ID, ownerID).
		Select("name", "description").
		Updates(project)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an owned project and unlinks its tasks in one transaction.
// Tasks survive with a NULL project reference (cascade-to-null).
func (r *GormProjectRepository) Delete(ownerID uint64, id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("project_id = ? AND owner_id = ?", id, ownerID).
			Update("project_id", nil).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).
			Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
