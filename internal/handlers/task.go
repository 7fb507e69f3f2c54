package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cloudtask/task-service/internal/apierrors"
	"github.com/cloudtask/task-service/internal/middleware"
	"github.com/cloudtask/task-service/internal/services"
)

type TaskHandler struct {
	taskService       *services.TaskService
	assignmentService *services.AssignmentService
}

func NewTaskHandler(taskService *services.TaskService, assignmentService *services.AssignmentService) *TaskHandler {
	return &TaskHandler{
		taskService:       taskService,
		assignmentService: assignmentService,
	}
}

// CreateTask creates a new task in a project
func (h *TaskHandler) CreateTask(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		ProjectID   uint64 `json:"project_id" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		CreatorUID:  uid,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTask returns a task by id
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// MyTasks returns tasks assigned to the current user across projects
func (h *TaskHandler) MyTasks(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.TasksByAssignee(uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// UpdateStatus updates a task's status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.taskService.UpdateStatus(taskID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task if the actor is allowed to
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteWithPermission(taskID, uid); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// AssignTask assigns a single user to a task
func (h *TaskHandler) AssignTask(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.AssigneeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.assignmentService.Assign(taskID, req, uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ReassignTask replaces a task's assignee with another user
func (h *TaskHandler) ReassignTask(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.AssigneeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.assignmentService.Reassign(taskID, req, uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UnassignTask clears a task's assignees
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.assignmentService.Unassign(taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// AssignMultiple replaces a task's assignee list wholesale
func (h *TaskHandler) AssignMultiple(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	type AssignMultipleRequest struct {
		Assignees []services.AssigneeInput `json:"assignees"`
	}

	var req AssignMultipleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	task, err := h.assignmentService.AssignMultiple(taskID, req.Assignees, uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// BulkAssign assigns one user to many tasks, skipping and reporting failures
func (h *TaskHandler) BulkAssign(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type BulkAssignRequest struct {
		TaskIDs  []uint64               `json:"task_ids" binding:"required"`
		Assignee services.AssigneeInput `json:"assignee"`
	}

	var req BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	result := h.assignmentService.BulkAssign(req.TaskIDs, req.Assignee, uid)
	c.JSON(http.StatusOK, result)
}

// BulkUnassign clears assignees on many tasks, skipping and reporting failures
func (h *TaskHandler) BulkUnassign(c *gin.Context) {
	type BulkUnassignRequest struct {
		TaskIDs []uint64 `json:"task_ids" binding:"required"`
	}

	var req BulkUnassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	result := h.assignmentService.BulkUnassign(req.TaskIDs)
	c.JSON(http.StatusOK, result)
}

func parseID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}
