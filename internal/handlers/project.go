package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudtask/task-service/internal/apierrors"
	"github.com/cloudtask/task-service/internal/middleware"
	"github.com/cloudtask/task-service/internal/permissions"
	"github.com/cloudtask/task-service/internal/services"
	"github.com/cloudtask/task-service/internal/utils"
)

type ProjectHandler struct {
	projectService    *services.ProjectService
	taskService       *services.TaskService
	membershipService *services.MembershipService
}

func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService, membershipService *services.MembershipService) *ProjectHandler {
	return &ProjectHandler{
		projectService:    projectService,
		taskService:       taskService,
		membershipService: membershipService,
	}
}

// CreateProject creates a new project owned by the current user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	project, err := h.projectService.CreateProject(req.Name, req.Description, uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// ListProjects returns the projects the current user owns or belongs to
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.UserProjects(uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject returns a project the current user has access to
func (h *ProjectHandler) GetProject(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, uid) {
		return
	}

	project, err := h.projectService.GetProject(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// UpdateProject updates a project's name and description
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	project, err := h.projectService.UpdateProject(projectID, req.Name, req.Description, uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project with its tasks and memberships
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(projectID, uid); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// ListMembers returns a project's membership roster
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, uid) {
		return
	}

	members, err := h.membershipService.Members(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// AddMember adds a user to a project by email
func (h *ProjectHandler) AddMember(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	role := permissions.Role(req.Role)
	if req.Role == "" {
		role = permissions.RoleMember
	}

	member, err := h.membershipService.AddMember(projectID, req.Email, role, uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveMember removes a user from a project
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	memberUID := c.Param("uid")
	if memberUID == "" {
		apierrors.BadRequest(c, "Member uid is required")
		return
	}

	if err := h.membershipService.RemoveMember(projectID, memberUID, uid); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

// ProjectTasks returns all tasks in a project
func (h *ProjectHandler) ProjectTasks(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, uid) {
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.ProjectTasks(projectID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// UnassignedTasks returns a project's tasks that nobody is assigned to
func (h *ProjectHandler) UnassignedTasks(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, uid) {
		return
	}

	tasks, err := h.taskService.UnassignedTasks(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// AssignedTasks returns a project's tasks that have at least one assignee
func (h *ProjectHandler) AssignedTasks(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if !h.requireAccess(c, projectID, uid) {
		return
	}

	tasks, err := h.taskService.AssignedTasks(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// requireAccess rejects callers who are neither owner nor member. Returns
// false when a response has already been written.
func (h *ProjectHandler) requireAccess(c *gin.Context, projectID uint64, uid string) bool {
	ok, err := h.membershipService.HasAccess(projectID, uid)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	if !ok {
		apierrors.Forbidden(c, "You do not have access to this project")
		return false
	}
	return true
}
