package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tracklite/project-tracker/internal/models"
	"github.com/tracklite/project-tracker/internal/repository"
)

var (
	ErrInvalidLetter      = errors.New("letter must be a single character")
	ErrStatusRequired     = errors.New("status is required")
	ErrProjectNameMissing = errors.New("project name is required")
)

// ReportService exposes the owner-scoped reporting queries with input
// validation on top of the repository.
type ReportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
	}
}

// DistinctStatuses returns the distinct task statuses, alphabetically.
func (s *ReportService) DistinctStatuses(ownerID uint64) ([]string, error) {
	statuses, err := s.reportRepo.DistinctStatuses(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch statuses: %w", err)
	}
	return statuses, nil
}

// ProjectTaskCounts returns per-project task counts, count descending.
func (s *ReportService) ProjectTaskCounts(ownerID uint64) ([]repository.ProjectTaskCount, error) {
	rows, err := s.reportRepo.ProjectTaskCounts(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project task counts: %w", err)
	}
	return rows, nil
}

// TasksForProjectsStartingWith returns tasks of projects starting with letter.
func (s *ReportService) TasksForProjectsStartingWith(ownerID uint64, letter string) ([]models.Task, error) {
	letter = strings.TrimSpace(letter)
	if len(letter) != 1 {
		return nil, ErrInvalidLetter
	}

	tasks, err := s.reportRepo.TasksForProjectsStartingWith(ownerID, letter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks by project letter: %w", err)
	}
	return tasks, nil
}

// ProjectsContainingLetter returns counts for projects with the letter
// strictly inside the name, plus the unlinked-task bucket.
func (s *ReportService) ProjectsContainingLetter(ownerID uint64, letter string) ([]repository.ProjectTaskCount, error) {
	letter = strings.TrimSpace(letter)
	if len(letter) != 1 {
		return nil, ErrInvalidLetter
	}

	rows, err := s.reportRepo.ProjectsContainingLetter(ownerID, letter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects containing letter: %w", err)
	}
	return rows, nil
}

// DuplicateTaskNames returns duplicated task names, alphabetically.
func (s *ReportService) DuplicateTaskNames(ownerID uint64) ([]string, error) {
	names, err := s.reportRepo.DuplicateTaskNames(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch duplicate task names: %w", err)
	}
	return names, nil
}

// DuplicateTasksInProject returns duplicated (name, status) pairs in the
// named project.
func (s *ReportService) DuplicateTasksInProject(ownerID uint64, projectName string) ([]repository.DuplicateTaskGroup, error) {
	if strings.TrimSpace(projectName) == "" {
		return nil, ErrProjectNameMissing
	}

	groups, err := s.reportRepo.DuplicateTasksInProject(ownerID, projectName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch duplicate tasks: %w", err)
	}
	return groups, nil
}

// BusyProjects returns projects with more than min tasks in the status.
func (s *ReportService) BusyProjects(ownerID uint64, status models.TaskStatus, min int) ([]repository.ProjectTaskCount, error) {
	if status == "" {
		return nil, ErrStatusRequired
	}
	if min < 0 {
		min = 0
	}

	rows, err := s.reportRepo.ProjectsWithStatusCountAbove(ownerID, status, min)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch busy projects: %w", err)
	}
	return rows, nil
}
