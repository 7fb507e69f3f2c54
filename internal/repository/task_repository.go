package repository

import (
	"github.com/cloudtask/task-service/internal/assignees"
	"github.com/cloudtask/task-service/internal/database"
	"github.com/cloudtask/task-service/internal/models"
	"github.com/cloudtask/task-service/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByProject lists one page of a project's tasks, newest first, along with
// the total count
func (r *GormTaskRepository) FindByProject(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	var total int64
	if err := r.db.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&tasks).Error
	return tasks, total, err
}

// FindByAssignee lists tasks assigned to a user across projects. Legacy rows
// may carry only the mirror column, newer rows only the list column, so both
// are checked — the same shape the store has always been queried with.
func (r *GormTaskRepository) FindByAssignee(uid string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("assignee_user_id = ? OR assignees LIKE ?", uid, rawUIDPattern(uid)).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// FindUnassignedByProject lists a project's tasks with no assignee
func (r *GormTaskRepository) FindUnassignedByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("project_id = ?", projectID).
		Where("assignee_user_id IS NULL AND (assignees = '' OR assignees = ?)", assignees.EmptyList).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// FindAssignedByProject lists a project's tasks with at least one assignee
func (r *GormTaskRepository) FindAssignedByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("project_id = ?", projectID).
		Where("assignee_user_id IS NOT NULL OR (assignees <> '' AND assignees <> ?)", assignees.EmptyList).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// CountByProjectAndAssignee counts tasks assigned to a user in a project
func (r *GormTaskRepository) CountByProjectAndAssignee(projectID uint64, uid string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Where("assignee_user_id = ? OR assignees LIKE ?", uid, rawUIDPattern(uid)).
		Count(&count).Error
	return count, err
}

// Update persists the full task row
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// rawUIDPattern matches a uid inside the encoded assignee column.
func rawUIDPattern(uid string) string {
	return `%"firebaseUid":"` + uid + `"%`
}
