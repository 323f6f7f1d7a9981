package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tracklite/project-tracker/internal/models"
	"github.com/tracklite/project-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrProjectNameEmpty = errors.New("project name cannot be empty")
	ErrProjectNameTaken = errors.New("a project with this name already exists")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     uint64
}

// CreateProject creates a new project for the owner. Names are unique within
// the owner's project set.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameEmpty
	}

	taken, err := s.projectRepo.NameTaken(input.OwnerID, name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}
	if taken {
		return nil, ErrProjectNameTaken
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns the owner's projects with task counts.
func (s *ProjectService) ListProjects(ownerID uint64) ([]repository.ProjectWithTaskCount, error) {
	projects, err := s.projectRepo.ListWithTaskCounts(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns an owned project with its tasks.
func (s *ProjectService) GetProject(ownerID uint64, id uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDWithTasks(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput represents input for updating a project.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// UpdateProject updates name and description of an owned project.
func (s *ProjectService) UpdateProject(ownerID uint64, id uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameEmpty
		}
		if name != project.Name {
			taken, err := s.projectRepo.NameTaken(ownerID, name, &project.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check project name: %w", err)
			}
			if taken {
				return nil, ErrProjectNameTaken
			}
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(ownerID, project); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes an owned project. Its tasks survive unlinked.
func (s *ProjectService) DeleteProject(ownerID uint64, id uuid.UUID) error {
	if err := s.projectRepo.Delete(ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
