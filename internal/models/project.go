package models

import (
	"time"

	"gorm.io/gorm"
)

// Project groups tasks under an owner. The owner is identified by provider
// UID and is not required to also appear in the members table; role
// resolution treats ownership and membership as independent signals.
type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	OwnerUID    string         `gorm:"type:varchar(128);not null;index" json:"owner_uid"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
