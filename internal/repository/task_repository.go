package repository

import (
	"github.com/google/uuid"
	"github.com/tracklite/project-tracker/internal/database"
	"github.com/tracklite/project-tracker/internal/models"
	"github.com/tracklite/project-tracker/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a visible task by ID with optional preloading
func (r *GormTaskRepository) FindByID(userID uint64, id uuid.UUID, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Scopes(database.VisibleTo(userID))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, "tasks.id = ?", id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves visible tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Scopes(database.VisibleTo(filter.UserID))

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Completed != nil {
		query = query.Where("tasks.completed = ?", *filter.Completed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.
		Order("CASE tasks.priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC").
		Order("CASE WHEN tasks.deadline IS NULL THEN 1 ELSE 0 END, tasks.deadline ASC").
		Order("tasks.created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Project").Preload("Assignee").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists the mutable fields of a visible task
func (r *GormTaskRepository) Update(userID uint64, task *models.Task) error {
	res := r.db.Model(&models.Task{}).
		Where("id = ? AND (owner_id = ? OR assignee_id = ?)", task.ID, userID, userID).
		Select("name", "description", "status", "priority", "deadline", "completed", "project_id", "assignee_id").
		Updates(task)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an owned task
func (r *GormTaskRepository) Delete(ownerID uint64, id uuid.UUID) error {
	res := r.db.Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
