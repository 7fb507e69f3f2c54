package models

import (
	"time"

	"gorm.io/gorm"
)

// User mirrors a profile owned by the external identity provider. The
// FirebaseUID is the stable identifier; profile fields are overwritten on
// every sync.
type User struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	FirebaseUID string         `gorm:"type:varchar(128);uniqueIndex;not null" json:"firebase_uid"`
	Name        string         `gorm:"type:varchar(255)" json:"name"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PhotoURL    string         `gorm:"type:varchar(512)" json:"photo_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
