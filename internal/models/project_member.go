package models

import (
	"time"

	"github.com/cloudtask/task-service/internal/permissions"
)

// ProjectMember is an explicit (project, user) membership row with a role.
// The pair is unique. An owner may hold a row too; ownership still wins for
// permission purposes.
type ProjectMember struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	ProjectID uint64           `gorm:"not null;uniqueIndex:idx_project_members_pair" json:"project_id"`
	UserUID   string           `gorm:"type:varchar(128);not null;uniqueIndex:idx_project_members_pair" json:"user_uid"`
	Role      permissions.Role `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt  time.Time        `gorm:"autoCreateTime" json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserUID;references:FirebaseUID" json:"user,omitempty"`
}
