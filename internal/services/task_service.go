package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudtask/task-service/internal/assignees"
	"github.com/cloudtask/task-service/internal/models"
	"github.com/cloudtask/task-service/internal/permissions"
	"github.com/cloudtask/task-service/internal/repository"
	"github.com/cloudtask/task-service/internal/utils"
	"gorm.io/gorm"
)

// TaskService handles task lifecycle outside of assignment: creation,
// listings, status updates and deletion authority.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	directory   MembershipDirectory
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, directory MembershipDirectory) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		directory:   directory,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   uint64
	CreatorUID  string
}

// CreateTask creates a task with an empty assignee set and TODO status.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}

	role, err := s.directory.ResolveRole(input.ProjectID, input.CreatorUID)
	if err != nil {
		return nil, err
	}
	if role == permissions.RoleNone {
		return nil, fmt.Errorf("%w: %s", ErrNotProjectMember, input.CreatorUID)
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       models.TaskStatusTodo,
		ProjectID:    input.ProjectID,
		CreatedBy:    input.CreatorUID,
		AssigneesRaw: assignees.EmptyList,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask returns a task by id.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ProjectTasks lists one page of a project's tasks, newest first, along with
// the total count.
func (s *TaskService) ProjectTasks(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProjectNotFound
		}
		return nil, 0, fmt.Errorf("failed to find project: %w", err)
	}
	return s.taskRepo.FindByProject(projectID, params)
}

// TasksByAssignee lists tasks assigned to a user across all projects.
func (s *TaskService) TasksByAssignee(uid string) ([]models.Task, error) {
	return s.taskRepo.FindByAssignee(uid)
}

// UnassignedTasks lists a project's tasks without assignees.
func (s *TaskService) UnassignedTasks(projectID uint64) ([]models.Task, error) {
	return s.taskRepo.FindUnassignedByProject(projectID)
}

// AssignedTasks lists a project's tasks with at least one assignee.
func (s *TaskService) AssignedTasks(projectID uint64) ([]models.Task, error) {
	return s.taskRepo.FindAssignedByProject(projectID)
}

// AssignedCount counts tasks assigned to a user within a project.
func (s *TaskService) AssignedCount(projectID uint64, uid string) (int64, error) {
	return s.taskRepo.CountByProjectAndAssignee(projectID, uid)
}

// UpdateStatus sets the task status. Values are stored as-is; TODO,
// IN_PROGRESS and DONE are conventions, not a closed set at this layer.
func (s *TaskService) UpdateStatus(taskID uint64, status string) (*models.Task, error) {
	if strings.TrimSpace(status) == "" {
		return nil, fmt.Errorf("%w: status is required", ErrInvalidRequest)
	}

	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	return task, nil
}

// CanDelete reports whether the actor may delete the task. Owners and admins
// may delete any task in the project; members only their own.
func (s *TaskService) CanDelete(task *models.Task, actorUID string) (bool, error) {
	role, err := s.directory.ResolveRole(task.ProjectID, actorUID)
	if err != nil {
		return false, err
	}

	if permissions.Allowed(role, permissions.ActionDeleteAnyTask) {
		return true, nil
	}
	if permissions.Allowed(role, permissions.ActionDeleteOwnTask) && task.CreatedBy == actorUID {
		return true, nil
	}
	return false, nil
}

// DeleteWithPermission deletes the task if the actor is allowed to. A denial
// is a permission failure, distinct from the task not existing.
func (s *TaskService) DeleteWithPermission(taskID uint64, actorUID string) error {
	task, err := s.GetTask(taskID)
	if err != nil {
		return err
	}

	allowed, err := s.CanDelete(task, actorUID)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: only OWNER, ADMIN or the creator can delete this task", ErrPermissionDenied)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
