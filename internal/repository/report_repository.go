package repository

import (
	"github.com/tracklite/project-tracker/internal/models"
	"gorm.io/gorm"
)

// GormReportRepository is a GORM implementation of ReportRepository. The SQL
// sticks to functions available on postgres, mysql and sqlite alike.
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// DistinctStatuses returns the distinct task statuses, alphabetically
func (r *GormReportRepository) DistinctStatuses(ownerID uint64) ([]string, error) {
	var statuses []string
	err := r.db.Model(&models.Task{}).
		Distinct("status").
		Where("owner_id = ?", ownerID).
		Order("status ASC").
		Pluck("status", &statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

// ProjectTaskCounts returns per-project task counts including zero-task
// projects, ordered by count descending then name ascending.
func (r *GormReportRepository) ProjectTaskCounts(ownerID uint64) ([]ProjectTaskCount, error) {
	var rows []ProjectTaskCount
	err := r.db.Model(&models.Project{}).
		Select("projects.id AS project_id, projects.name AS name, COUNT(tasks.id) AS task_count").
		Joins("LEFT JOIN tasks ON tasks.project_id = projects.id").
		Where("projects.owner_id = ?", ownerID).
		Group("projects.id, projects.name").
		Order("task_count DESC, name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TasksForProjectsStartingWith returns tasks of projects whose name starts
// with the given letter.
func (r *GormReportRepository) TasksForProjectsStartingWith(ownerID uint64, letter string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("tasks.owner_id = ? AND projects.name LIKE ?", ownerID, letter+"%").
		Order("projects.name ASC, tasks.name ASC").
		Preload("Project").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ProjectsContainingLetter returns task counts for projects where the letter
// appears strictly between the first and last character of the name. A
// synthetic "(no project)" bucket counts the owner's unlinked tasks; FULL
// OUTER JOIN is not portable across the supported drivers, so the bucket is
// appended via UNION ALL.
func (r *GormReportRepository) ProjectsContainingLetter(ownerID uint64, letter string) ([]ProjectTaskCount, error) {
	var rows []ProjectTaskCount
	err := r.db.Raw(`
		SELECT p.id AS project_id, p.name AS name, COUNT(t.id) AS task_count
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		WHERE p.owner_id = ?
		  AND LENGTH(p.name) > 2
		  AND SUBSTR(p.name, 2, LENGTH(p.name) - 2) LIKE ?
		GROUP BY p.id, p.name
		UNION ALL
		SELECT NULL AS project_id, '(no project)' AS name, COUNT(t.id) AS task_count
		FROM tasks t
		WHERE t.owner_id = ? AND t.project_id IS NULL
		ORDER BY task_count DESC, name ASC
	`, ownerID, "%"+letter+"%", ownerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DuplicateTaskNames returns task names occurring more than once across the
// owner's tasks, alphabetically.
func (r *GormReportRepository) DuplicateTaskNames(ownerID uint64) ([]string, error) {
	var names []string
	err := r.db.Model(&models.Task{}).
		Where("owner_id = ?", ownerID).
		Group("name").
		Having("COUNT(*) > 1").
		Order("name ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// DuplicateTasksInProject returns (name, status) pairs occurring more than
// once within the named project, ordered by duplicate count descending.
func (r *GormReportRepository) DuplicateTasksInProject(ownerID uint64, projectName string) ([]DuplicateTaskGroup, error) {
	var groups []DuplicateTaskGroup
	err := r.db.Model(&models.Task{}).
		Select("tasks.name AS name, tasks.status AS status, COUNT(*) AS duplicate_count").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("tasks.owner_id = ? AND projects.name = ?", ownerID, projectName).
		Group("tasks.name, tasks.status").
		Having("COUNT(*) > 1").
		Order("duplicate_count DESC, name ASC").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// ProjectsWithStatusCountAbove returns projects having more than min tasks in
// the given status, ordered by project id.
func (r *GormReportRepository) ProjectsWithStatusCountAbove(ownerID uint64, status models.TaskStatus, min int) ([]ProjectTaskCount, error) {
	var rows []ProjectTaskCount
	err := r.db.Model(&models.Project{}).
		Select("projects.id AS project_id, projects.name AS name, COUNT(tasks.id) AS task_count").
		Joins("JOIN tasks ON tasks.project_id = projects.id").
		Where("projects.owner_id = ? AND tasks.status = ?", ownerID, status).
		Group("projects.id, projects.name").
		Having("COUNT(tasks.id) > ?", min).
		Order("projects.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
