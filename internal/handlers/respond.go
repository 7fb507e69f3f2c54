package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cloudtask/task-service/internal/apierrors"
	"github.com/cloudtask/task-service/internal/services"
)

// respondServiceError maps service failure kinds onto HTTP responses. The
// mapping keeps the taxonomy intact: permission failures are never reported
// as not-found, and membership failures carry their own code.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember):
		apierrors.NotProjectMember(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrCannotRemoveOwner):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidRequest):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
