package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudtask/task-service/internal/apierrors"
	"github.com/cloudtask/task-service/internal/middleware"
	"github.com/cloudtask/task-service/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Sync upserts the caller's profile from the identity provider. Clients call
// it once after sign-in; repeated calls refresh the stored profile.
func (h *UserHandler) Sync(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type SyncRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required,email"`
		PhotoURL string `json:"photo_url"`
	}

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	// Token claims win over the request body when the request carried a token.
	if identity, ok := middleware.GetIdentity(c); ok {
		if identity.Email != "" {
			req.Email = identity.Email
		}
		if identity.Name != "" {
			req.Name = identity.Name
		}
		if identity.PhotoURL != "" {
			req.PhotoURL = identity.PhotoURL
		}
	}

	user, err := h.userService.Sync(services.SyncInput{
		FirebaseUID: uid,
		Name:        req.Name,
		Email:       req.Email,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Me returns the current user's stored profile
func (h *UserHandler) Me(c *gin.Context) {
	uid, exists := middleware.GetUserUID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.userService.GetByUID(uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
