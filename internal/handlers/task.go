package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tracklite/project-tracker/internal/dto"
	apierrors "github.com/tracklite/project-tracker/internal/errors"
	"github.com/tracklite/project-tracker/internal/middleware"
	"github.com/tracklite/project-tracker/internal/models"
	"github.com/tracklite/project-tracker/internal/services"
	"github.com/tracklite/project-tracker/internal/utils"
)

// TaskHandler coordinates task CRUD handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks visible to the current user, filterable by
// project_id, status, assignee_id and completed.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		UserID:   userID,
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		input.ProjectID = &projectID
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		input.Status = &status
	}
	if raw := c.Query("assignee_id"); raw != "" {
		assigneeID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		input.AssigneeID = &assigneeID
	}
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid completed flag")
			return
		}
		input.Completed = &completed
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns a task already loaded by RequireTaskAccess.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTaskRequest is the JSON body for both task creation routes.
type CreateTaskRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	ProjectID   *uuid.UUID `json:"project_id"`
	AssigneeID  *uint64    `json:"assignee_id"`
}

// CreateTask creates a standalone task, or a project task when the body
// carries a project_id.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	h.createTask(c, userID, req, req.ProjectID)
}

// CreateProjectTask creates a task under the project addressed by :id. The
// project was loaded and ownership-checked by RequireProjectAccess.
func (h *TaskHandler) CreateProjectTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	h.createTask(c, userID, req, &project.ID)
}

func (h *TaskHandler) createTask(c *gin.Context, userID uint64, req CreateTaskRequest, projectID *uuid.UUID) {
	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		Deadline:    req.Deadline,
		ProjectID:   projectID,
		AssigneeID:  req.AssigneeID,
		OwnerID:     userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	triggerEvent(c, EventTaskCreated)
	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. The raw JSON is inspected so that an
// explicit null clears deadline, project or assignee while an absent field
// leaves it untouched.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := buildUpdateInput(rawReq)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	updated, err := h.taskService.UpdateTask(userID, task.ID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	triggerEvent(c, EventTaskUpdated)
	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

func buildUpdateInput(rawReq map[string]any) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if value, ok := rawReq["name"]; ok {
		name, ok := value.(string)
		if !ok {
			return input, errors.New("name must be a string")
		}
		input.Name = &name
	}
	if value, ok := rawReq["description"]; ok {
		description, ok := value.(string)
		if !ok {
			return input, errors.New("description must be a string")
		}
		input.Description = &description
	}
	if value, ok := rawReq["status"]; ok {
		raw, ok := value.(string)
		if !ok {
			return input, errors.New("status must be a string")
		}
		status := models.TaskStatus(raw)
		input.Status = &status
	}
	if value, ok := rawReq["priority"]; ok {
		raw, ok := value.(string)
		if !ok {
			return input, errors.New("priority must be a string")
		}
		priority := models.TaskPriority(raw)
		input.Priority = &priority
	}
	if value, ok := rawReq["deadline"]; ok {
		if value == nil {
			input.ClearDeadline = true
		} else {
			raw, ok := value.(string)
			if !ok {
				return input, errors.New("deadline must be an RFC3339 timestamp or null")
			}
			deadline, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return input, errors.New("deadline must be an RFC3339 timestamp or null")
			}
			input.Deadline = &deadline
		}
	}
	if value, ok := rawReq["project_id"]; ok {
		if value == nil {
			input.ClearProject = true
		} else {
			raw, ok := value.(string)
			if !ok {
				return input, errors.New("project_id must be a UUID or null")
			}
			projectID, err := uuid.Parse(raw)
			if err != nil {
				return input, errors.New("project_id must be a UUID or null")
			}
			input.ProjectID = &projectID
		}
	}
	if value, ok := rawReq["assignee_id"]; ok {
		if value == nil {
			input.ClearAssignee = true
		} else {
			raw, ok := value.(float64)
			if !ok || raw < 0 {
				return input, errors.New("assignee_id must be a user id or null")
			}
			assigneeID := uint64(raw)
			input.AssigneeID = &assigneeID
		}
	}

	return input, nil
}

// DeleteTask deletes an owned task. Assignees get a 403.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(userID, task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	triggerEvent(c, EventTaskDeleted)
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// ToggleCompletion flips the completed flag; toggling twice restores the
// original state.
func (h *TaskHandler) ToggleCompletion(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	updated, err := h.taskService.ToggleCompletion(userID, task.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	triggerEvent(c, EventTaskToggled)
	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskNameRequired):
		apierrors.ValidationFailed(c, "name", err.Error())
	case errors.Is(err, services.ErrDeadlineInPast):
		apierrors.ValidationFailed(c, "deadline", err.Error())
	case errors.Is(err, services.ErrInvalidPriority):
		apierrors.ValidationFailed(c, "priority", err.Error())
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.ValidationFailed(c, "assignee_id", err.Error())
	case errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
