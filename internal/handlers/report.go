package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tracklite/project-tracker/internal/dto"
	apierrors "github.com/tracklite/project-tracker/internal/errors"
	"github.com/tracklite/project-tracker/internal/middleware"
	"github.com/tracklite/project-tracker/internal/models"
	"github.com/tracklite/project-tracker/internal/services"
)

// ReportHandler exposes the reporting queries over HTTP.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// DistinctStatuses lists the distinct statuses across the user's tasks.
func (h *ReportHandler) DistinctStatuses(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	statuses, err := h.reportService.DistinctStatuses(userID)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"statuses": statuses,
	})
}

// ProjectTaskCounts lists per-project task counts, busiest first.
func (h *ReportHandler) ProjectTaskCounts(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	rows, err := h.reportService.ProjectTaskCounts(userID)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": rows,
	})
}

// ProjectTasks lists tasks whose project name starts with ?letter.
func (h *ReportHandler) ProjectTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.reportService.TasksForProjectsStartingWith(userID, c.Query("letter"))
	if err != nil {
		respondReportError(c, err)
		return
	}

	items := make([]dto.TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = dto.ToTaskDTO(task)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": items,
	})
}

// ProjectsContainingLetter lists task counts for projects whose name contains
// ?letter strictly inside, plus the bucket for tasks without a project.
func (h *ReportHandler) ProjectsContainingLetter(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	rows, err := h.reportService.ProjectsContainingLetter(userID, c.Query("letter"))
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": rows,
	})
}

// DuplicateTaskNames lists task names that occur more than once.
func (h *ReportHandler) DuplicateTaskNames(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	names, err := h.reportService.DuplicateTaskNames(userID)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"names": names,
	})
}

// DuplicateTasks lists duplicated (name, status) pairs within ?project.
func (h *ReportHandler) DuplicateTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	groups, err := h.reportService.DuplicateTasksInProject(userID, c.Query("project"))
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"duplicates": groups,
	})
}

// BusyProjects lists projects with more than ?min tasks in ?status.
func (h *ReportHandler) BusyProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	min := 0
	if raw := c.Query("min"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid min")
			return
		}
		min = parsed
	}

	rows, err := h.reportService.BusyProjects(userID, models.TaskStatus(c.Query("status")), min)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": rows,
	})
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidLetter),
		errors.Is(err, services.ErrStatusRequired),
		errors.Is(err, services.ErrProjectNameMissing):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
