package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudtask/task-service/internal/assignees"
	"github.com/cloudtask/task-service/internal/models"
	"github.com/cloudtask/task-service/internal/permissions"
	"github.com/cloudtask/task-service/internal/repository"
	"gorm.io/gorm"
)

// AssignmentService drives a task's assignee state: single assign, reassign,
// unassign, whole-list replacement and the bulk variants. Every mutation
// re-derives the legacy scalar mirror through Task.SetAssignees.
type AssignmentService struct {
	taskRepo  repository.TaskRepository
	directory MembershipDirectory
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(taskRepo repository.TaskRepository, directory MembershipDirectory) *AssignmentService {
	return &AssignmentService{
		taskRepo:  taskRepo,
		directory: directory,
	}
}

// AssigneeInput carries one target assignee's identity and profile.
type AssigneeInput struct {
	UID      string `json:"firebaseUid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl"`
}

func (in AssigneeInput) assignee() assignees.Assignee {
	return assignees.Assignee{
		FirebaseUID: in.UID,
		Name:        in.Name,
		Email:       in.Email,
		PhotoURL:    in.PhotoURL,
	}
}

// BulkFailure records why one task in a bulk request was skipped.
type BulkFailure struct {
	TaskID uint64 `json:"task_id"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// BulkResult is the outcome of a bulk operation: tasks that were updated and
// per-task failures. Partial success is the designed outcome, not a fault.
type BulkResult struct {
	Tasks    []models.Task `json:"tasks"`
	Failures []BulkFailure `json:"failures"`
}

// Assign replaces the task's assignee list with a single user. An empty
// target UID behaves as an unassign.
func (s *AssignmentService) Assign(taskID uint64, input AssigneeInput, actorUID string) (*models.Task, error) {
	return s.assign(taskID, input, actorUID, permissions.ActionAssign)
}

// Reassign unassigns and assigns the new user as one logical operation.
func (s *AssignmentService) Reassign(taskID uint64, input AssigneeInput, actorUID string) (*models.Task, error) {
	return s.assign(taskID, input, actorUID, permissions.ActionReassign)
}

func (s *AssignmentService) assign(taskID uint64, input AssigneeInput, actorUID string, action permissions.Action) (*models.Task, error) {
	task, err := s.loadTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(task.ProjectID, actorUID, action); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.UID) == "" {
		return s.clear(task)
	}

	role, err := s.directory.ResolveRole(task.ProjectID, input.UID)
	if err != nil {
		return nil, err
	}
	if role == permissions.RoleNone {
		return nil, fmt.Errorf("%w: %s", ErrNotProjectMember, input.UID)
	}

	task.SetAssignees([]assignees.Assignee{input.assignee()}, actorUID, time.Now())
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to save assignment: %w", err)
	}
	return task, nil
}

// Unassign clears the task's assignee list and mirror. Idempotent; clearing
// an already-unassigned task succeeds.
func (s *AssignmentService) Unassign(taskID uint64) (*models.Task, error) {
	task, err := s.loadTask(taskID)
	if err != nil {
		return nil, err
	}
	return s.clear(task)
}

// AssignMultiple replaces the task's assignee list wholesale. Every
// candidate's membership is verified before anything is written, so a bad
// candidate late in the list cannot leave a partial update behind. An empty
// list unassigns.
func (s *AssignmentService) AssignMultiple(taskID uint64, inputs []AssigneeInput, actorUID string) (*models.Task, error) {
	task, err := s.loadTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(task.ProjectID, actorUID, permissions.ActionAssign); err != nil {
		return nil, err
	}

	if len(inputs) == 0 {
		return s.clear(task)
	}

	list := make([]assignees.Assignee, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in.UID) == "" {
			return nil, fmt.Errorf("%w: assignee uid is required", ErrInvalidRequest)
		}
		if _, dup := seen[in.UID]; dup {
			continue
		}
		seen[in.UID] = struct{}{}
		list = append(list, in.assignee())
	}

	members, err := s.directory.MemberUIDs(task.ProjectID)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		if _, ok := members[a.FirebaseUID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotProjectMember, a.FirebaseUID)
		}
	}

	task.SetAssignees(list, actorUID, time.Now())
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to save assignments: %w", err)
	}
	return task, nil
}

// BulkAssign applies Assign to each task independently. Failed tasks are
// recorded and skipped; already-committed tasks stay committed.
func (s *AssignmentService) BulkAssign(taskIDs []uint64, input AssigneeInput, actorUID string) *BulkResult {
	result := &BulkResult{}
	for _, id := range taskIDs {
		task, err := s.assign(id, input, actorUID, permissions.ActionBulkAssign)
		if err != nil {
			result.Failures = append(result.Failures, BulkFailure{TaskID: id, Reason: err.Error(), Err: err})
			continue
		}
		result.Tasks = append(result.Tasks, *task)
	}
	return result
}

// BulkUnassign applies Unassign to each task independently, skipping and
// recording failures.
func (s *AssignmentService) BulkUnassign(taskIDs []uint64) *BulkResult {
	result := &BulkResult{}
	for _, id := range taskIDs {
		task, err := s.Unassign(id)
		if err != nil {
			result.Failures = append(result.Failures, BulkFailure{TaskID: id, Reason: err.Error(), Err: err})
			continue
		}
		result.Tasks = append(result.Tasks, *task)
	}
	return result
}

func (s *AssignmentService) loadTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// authorize resolves the actor's role fresh and checks it against the table.
func (s *AssignmentService) authorize(projectID uint64, actorUID string, action permissions.Action) error {
	role, err := s.directory.ResolveRole(projectID, actorUID)
	if err != nil {
		return err
	}
	if !permissions.Allowed(role, action) {
		return fmt.Errorf("%w: %s requires OWNER or ADMIN", ErrPermissionDenied, action)
	}
	return nil
}

func (s *AssignmentService) clear(task *models.Task) (*models.Task, error) {
	task.SetAssignees(nil, "", time.Time{})
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to clear assignment: %w", err)
	}
	return task, nil
}
