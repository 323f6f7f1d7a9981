package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/tracklite/project-tracker/internal/models"
	"github.com/tracklite/project-tracker/internal/repository"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectListItemDTO is a project with its task count, used in list views.
type ProjectListItemDTO struct {
	ProjectDTO
	TaskCount int64 `json:"task_count"`
}

// ProjectDetailDTO is a project with its tasks in default order.
type ProjectDetailDTO struct {
	ProjectDTO
	Tasks []TaskDTO `json:"tasks"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectListItemDTO converts a counted repository row to a list item.
func ToProjectListItemDTO(row repository.ProjectWithTaskCount) ProjectListItemDTO {
	return ProjectListItemDTO{
		ProjectDTO: ToProjectDTO(row.Project),
		TaskCount:  row.TaskCount,
	}
}

// ToProjectDetailDTO converts a project with preloaded tasks to a detail DTO.
func ToProjectDetailDTO(project models.Project) ProjectDetailDTO {
	tasks := make([]TaskDTO, len(project.Tasks))
	for i, task := range project.Tasks {
		tasks[i] = ToTaskDTO(task)
	}

	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Tasks:      tasks,
	}
}
