package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tracklite/project-tracker/internal/models"
	"github.com/tracklite/project-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskNameRequired = errors.New("task name is required")
	ErrDeadlineInPast   = errors.New("deadline cannot be in the past")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrNotTaskOwner     = errors.New("only the task owner can perform this action")
	ErrAssigneeNotFound = errors.New("assignee does not exist")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID     uint64
	ProjectID  *uuid.UUID
	Status     *models.TaskStatus
	AssigneeID *uint64
	Completed  *bool
	Page       int
	PageSize   int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name        string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Deadline    *time.Time
	ProjectID   *uuid.UUID
	AssigneeID  *uint64
	OwnerID     uint64
}

// UpdateTaskInput represents input for updating a task. Pointer fields are
// applied only when set; Clear* flags null the corresponding column.
type UpdateTaskInput struct {
	Name          *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	Deadline      *time.Time
	ClearDeadline bool
	ProjectID     *uuid.UUID
	ClearProject  bool
	AssigneeID    *uint64
	ClearAssignee bool
}

// ListTasks returns tasks visible to the user, filtered and paginated. A
// project filter is verified against the user's ownership first.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	if input.ProjectID != nil {
		if _, err := s.projectRepo.FindByID(input.UserID, *input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrProjectNotFound
			}
			return nil, 0, fmt.Errorf("failed to verify project: %w", err)
		}
	}

	filter := repository.TaskFilter{
		UserID:     input.UserID,
		ProjectID:  input.ProjectID,
		Status:     input.Status,
		AssigneeID: input.AssigneeID,
		Completed:  input.Completed,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a visible task with related data
func (s *TaskService) GetTask(userID uint64, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID, "Project", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task, standalone or under one of the owner's
// projects.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTaskNameRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if input.Deadline != nil && input.Deadline.Before(time.Now()) {
		return nil, ErrDeadlineInPast
	}

	if input.ProjectID != nil {
		if _, err := s.projectRepo.FindByID(input.OwnerID, *input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to verify project: %w", err)
		}
	}

	if input.AssigneeID != nil {
		if _, err := s.userRepo.FindByID(*input.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to verify assignee: %w", err)
		}
	}

	task := &models.Task{
		Name:        name,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Deadline:    input.Deadline,
		Completed:   input.Status == models.TaskStatusCompleted,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		OwnerID:     input.OwnerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(input.OwnerID, task.ID, "Project", "Assignee")
}

// UpdateTask updates a visible task. The deadline is re-validated only when
// it actually moves; an unchanged past deadline on an old task is tolerated.
func (s *TaskService) UpdateTask(userID uint64, taskID uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTaskNameRequired
		}
		task.Name = name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
		task.Completed = *input.Status == models.TaskStatusCompleted
	}

	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		changed := task.Deadline == nil || !task.Deadline.Equal(*input.Deadline)
		if changed && input.Deadline.Before(time.Now()) {
			return nil, ErrDeadlineInPast
		}
		task.Deadline = input.Deadline
	}

	if input.ClearProject {
		task.ProjectID = nil
	} else if input.ProjectID != nil {
		// Re-linking must target a project of the task's owner.
		if _, err := s.projectRepo.FindByID(task.OwnerID, *input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to verify project: %w", err)
		}
		task.ProjectID = input.ProjectID
	}

	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if _, err := s.userRepo.FindByID(*input.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to verify assignee: %w", err)
		}
		task.AssigneeID = input.AssigneeID
	}

	if err := s.taskRepo.Update(userID, task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(userID, task.ID, "Project", "Assignee")
}

// DeleteTask deletes a task if the actor is the owner. An assignee can see
// the task but may not delete it.
func (s *TaskService) DeleteTask(userID uint64, taskID uuid.UUID) error {
	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != userID {
		return ErrNotTaskOwner
	}

	if err := s.taskRepo.Delete(userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ToggleCompletion flips the completed flag and derives the status: completed
// tasks read "completed", reopened tasks go back to "pending". Owner and
// assignee may both toggle.
func (s *TaskService) ToggleCompletion(userID uint64, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Completed = !task.Completed
	if task.Completed {
		task.Status = models.TaskStatusCompleted
	} else {
		task.Status = models.TaskStatusPending
	}

	if err := s.taskRepo.Update(userID, task); err != nil {
		return nil, fmt.Errorf("failed to toggle completion: %w", err)
	}

	return task, nil
}
