// Package permissions holds the role model for project membership and the
// allow/deny table for task actions. It is pure: callers resolve a role
// first, then ask the table.
package permissions

// Role is a user's standing in a project. Ownership of the project grants
// RoleOwner regardless of any membership row; RoleNone means no access.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleNone   Role = ""
)

// Action is a task operation gated by role.
type Action string

const (
	ActionAssign        Action = "ASSIGN"
	ActionReassign      Action = "REASSIGN"
	ActionUnassign      Action = "UNASSIGN"
	ActionBulkAssign    Action = "BULK_ASSIGN"
	ActionDeleteAnyTask Action = "DELETE_ANY_TASK"
	ActionDeleteOwnTask Action = "DELETE_OWN_TASK"
)

var allowTable = map[Role]map[Action]bool{
	RoleOwner: {
		ActionAssign:        true,
		ActionReassign:      true,
		ActionUnassign:      true,
		ActionBulkAssign:    true,
		ActionDeleteAnyTask: true,
	},
	RoleAdmin: {
		ActionAssign:        true,
		ActionReassign:      true,
		ActionUnassign:      true,
		ActionBulkAssign:    true,
		ActionDeleteAnyTask: true,
	},
	RoleMember: {
		ActionDeleteOwnTask: true,
	},
}

// Allowed reports whether the role may perform the action. Unresolved roles
// are denied everything.
func Allowed(role Role, action Action) bool {
	return allowTable[role][action]
}

// Valid reports whether the role is one a membership row may carry.
func Valid(role Role) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}
