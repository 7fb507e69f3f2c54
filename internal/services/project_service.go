package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudtask/task-service/internal/models"
	"github.com/cloudtask/task-service/internal/permissions"
	"github.com/cloudtask/task-service/internal/repository"
	"gorm.io/gorm"
)

// ProjectService handles project CRUD. The creator becomes the implicit
// owner; ownership is a field on the project, not a membership row.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	directory   MembershipDirectory
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, directory MembershipDirectory) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		directory:   directory,
	}
}

// CreateProject creates a project owned by the given user.
func (s *ProjectService) CreateProject(name, description, ownerUID string) (*models.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}

	if _, err := s.userRepo.FindByUID(ownerUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	project := &models.Project{
		Name:        name,
		Description: description,
		OwnerUID:    ownerUID,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetProject returns a project by id.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UserProjects lists the projects a user owns or belongs to.
func (s *ProjectService) UserProjects(uid string) ([]models.Project, error) {
	return s.projectRepo.FindForUser(uid)
}

// UpdateProject renames a project. Owner only.
func (s *ProjectService) UpdateProject(projectID uint64, name, description, actorUID string) (*models.Project, error) {
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	role, err := s.directory.ResolveRole(projectID, actorUID)
	if err != nil {
		return nil, err
	}
	if role != permissions.RoleOwner {
		return nil, fmt.Errorf("%w: only the project owner can update", ErrPermissionDenied)
	}

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	project.Name = name
	project.Description = description

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes the project with its tasks and memberships. Owner
// only.
func (s *ProjectService) DeleteProject(projectID uint64, actorUID string) error {
	if _, err := s.GetProject(projectID); err != nil {
		return err
	}

	role, err := s.directory.ResolveRole(projectID, actorUID)
	if err != nil {
		return err
	}
	if role != permissions.RoleOwner {
		return fmt.Errorf("%w: only the project owner can delete", ErrPermissionDenied)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
