package repository

import (
	"github.com/cloudtask/task-service/internal/models"
	"github.com/cloudtask/task-service/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindByProject lists one page of a project's tasks, newest first, along
	// with the total count
	FindByProject(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error)

	// FindByAssignee lists tasks assigned to a user across projects
	FindByAssignee(uid string) ([]models.Task, error)

	// FindUnassignedByProject lists a project's tasks with no assignee
	FindUnassignedByProject(projectID uint64) ([]models.Task, error)

	// FindAssignedByProject lists a project's tasks with at least one assignee
	FindAssignedByProject(projectID uint64) ([]models.Task, error)

	// CountByProjectAndAssignee counts tasks assigned to a user in a project
	CountByProjectAndAssignee(projectID uint64, uid string) (int64, error)

	// Update persists the full task row
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindForUser lists projects the user owns or is a member of
	FindForUser(uid string) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project with its tasks and memberships
	Delete(id uint64) error
}

// MemberRepository defines the interface for project membership data access
type MemberRepository interface {
	// Add inserts a membership row
	Add(member *models.ProjectMember) error

	// Remove deletes a membership row
	Remove(projectID uint64, userUID string) error

	// Find finds the membership row for a (project, user) pair
	Find(projectID uint64, userUID string) (*models.ProjectMember, error)

	// ListByProject lists a project's membership rows
	ListByProject(projectID uint64) ([]models.ProjectMember, error)

	// Exists reports whether a membership row exists for the pair
	Exists(projectID uint64, userUID string) (bool, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Upsert creates the user or refreshes the profile fields by provider UID
	Upsert(user *models.User) error

	// FindByUID finds a user by provider UID
	FindByUID(uid string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}
