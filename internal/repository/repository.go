package repository

import (
	"github.com/google/uuid"
	"github.com/tracklite/project-tracker/internal/models"
)

// ProjectRepository defines owner-scoped access to projects. The requesting
// user's id is a mandatory parameter on every read and write; a write that
// matches no owned row reports gorm.ErrRecordNotFound.
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds an owned project by ID
	FindByID(ownerID uint64, id uuid.UUID) (*models.Project, error)

	// FindByIDWithTasks finds an owned project with its tasks in default order
	FindByIDWithTasks(ownerID uint64, id uuid.UUID) (*models.Project, error)

	// ListWithTaskCounts lists owned projects with aggregated task counts
	ListWithTaskCounts(ownerID uint64) ([]ProjectWithTaskCount, error)

	// NameTaken reports whether the owner already has a project with the name
	NameTaken(ownerID uint64, name string, excludeID *uuid.UUID) (bool, error)

	// Update persists name and description of an owned project
	Update(ownerID uint64, project *models.Project) error

	// Delete removes an owned project, unlinking its tasks in one transaction
	Delete(ownerID uint64, id uuid.UUID) error
}

// ProjectWithTaskCount pairs a project with its aggregated task count.
type ProjectWithTaskCount struct {
	models.Project
	TaskCount int64 `json:"task_count"`
}

// TaskRepository defines user-scoped access to tasks. Reads cover tasks the
// user owns or is assigned to; deletion is owner-only.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a visible task by ID with optional preloading
	FindByID(userID uint64, id uuid.UUID, preload ...string) (*models.Task, error)

	// List retrieves visible tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists the mutable fields of a visible task
	Update(userID uint64, task *models.Task) error

	// Delete removes an owned task
	Delete(ownerID uint64, id uuid.UUID) error
}

// TaskFilter holds filtering options for listing tasks. UserID is mandatory.
type TaskFilter struct {
	UserID     uint64
	ProjectID  *uuid.UUID
	Status     *models.TaskStatus
	AssigneeID *uint64
	Completed  *bool
	Page       int
	PageSize   int
}

// ReportRepository exposes the owner-scoped reporting aggregations. Each
// method runs as a single composed query.
type ReportRepository interface {
	// DistinctStatuses returns the distinct task statuses, alphabetically
	DistinctStatuses(ownerID uint64) ([]string, error)

	// ProjectTaskCounts returns per-project task counts including zero-task
	// projects, ordered by count descending then name
	ProjectTaskCounts(ownerID uint64) ([]ProjectTaskCount, error)

	// TasksForProjectsStartingWith returns tasks of projects whose name
	// starts with the given letter
	TasksForProjectsStartingWith(ownerID uint64, letter string) ([]models.Task, error)

	// ProjectsContainingLetter returns task counts for projects with the
	// letter strictly inside the name, plus a bucket for unlinked tasks
	ProjectsContainingLetter(ownerID uint64, letter string) ([]ProjectTaskCount, error)

	// DuplicateTaskNames returns task names occurring more than once,
	// alphabetically
	DuplicateTaskNames(ownerID uint64) ([]string, error)

	// DuplicateTasksInProject returns (name, status) pairs occurring more
	// than once within the named project, by duplicate count descending
	DuplicateTasksInProject(ownerID uint64, projectName string) ([]DuplicateTaskGroup, error)

	// ProjectsWithStatusCountAbove returns projects having more than min
	// tasks in the given status, ordered by project id
	ProjectsWithStatusCountAbove(ownerID uint64, status models.TaskStatus, min int) ([]ProjectTaskCount, error)
}

// ProjectTaskCount is a reporting row. ProjectID is nil for the synthetic
// bucket of tasks without a project.
type ProjectTaskCount struct {
	ProjectID *uuid.UUID `json:"project_id"`
	Name      string     `json:"name"`
	TaskCount int64      `json:"task_count"`
}

// DuplicateTaskGroup is a (name, status) pair occurring more than once.
type DuplicateTaskGroup struct {
	Name           string            `json:"name"`
	Status         models.TaskStatus `json:"status"`
	DuplicateCount int64             `json:"duplicate_count"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}
