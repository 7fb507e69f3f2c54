package services

import "errors"

// Failure kinds shared by the services. Callers distinguish them with
// errors.Is; a permission failure must never look like a missing entity,
// since the remediation differs (escalate role vs. correct an id vs. add
// membership).
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrNotProjectMember  = errors.New("user is not a member of the project")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrAlreadyMember     = errors.New("user is already a member of the project")
	ErrCannotRemoveOwner = errors.New("project owner cannot be removed")
)
