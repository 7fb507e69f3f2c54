package models

import (
	"time"

	"github.com/cloudtask/task-service/internal/assignees"
	"gorm.io/gorm"
)

// Conventional status values. The column accepts any string; these are not a
// closed set at this layer.
const (
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusDone       = "DONE"
)

// Task carries its assignee state in two synchronized shapes: the canonical
// ordered list encoded into AssigneesRaw, and a scalar mirror of the first
// entry kept for single-assignee consumers. SetAssignees is the only write
// path; the two must never be set independently.
type Task struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"type:varchar(20);not null;default:'TODO'" json:"status"`
	ProjectID   uint64 `gorm:"not null;index" json:"project_id"`
	CreatedBy   string `gorm:"type:varchar(128);index" json:"created_by"`

	AssigneesRaw  string     `gorm:"column:assignees;type:text" json:"-"`
	AssigneeUID   *string    `gorm:"column:assignee_user_id;type:varchar(128);index" json:"assignee_user_id"`
	AssigneeName  *string    `gorm:"column:assignee_name;type:varchar(255)" json:"assignee_name"`
	AssigneeEmail *string    `gorm:"column:assignee_email;type:varchar(255)" json:"assignee_email"`
	AssigneePhoto *string    `gorm:"column:assignee_photo;type:varchar(512)" json:"assignee_photo"`
	AssignedAt    *time.Time `json:"assigned_at"`
	AssignedBy    *string    `gorm:"type:varchar(128)" json:"assigned_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// AssigneeList is the decoded canonical list, populated after loads and
	// by SetAssignees. Not a column.
	AssigneeList []assignees.Assignee `gorm:"-" json:"assignees"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// AfterFind decodes the raw assignee column so loaded tasks always expose the
// canonical list. Decode is fail-soft, so a corrupt column yields an empty
// list instead of an unreadable task.
func (t *Task) AfterFind(tx *gorm.DB) error {
	t.AssigneeList = assignees.Decode(t.AssigneesRaw)
	return nil
}

// Assignees returns the canonical ordered assignee list.
func (t *Task) Assignees() []assignees.Assignee {
	if t.AssigneeList == nil && t.AssigneesRaw != "" {
		t.AssigneeList = assignees.Decode(t.AssigneesRaw)
	}
	return t.AssigneeList
}

// SetAssignees rewrites the canonical list, the scalar mirror and the
// assignment metadata in one step. An empty list clears everything.
func (t *Task) SetAssignees(list []assignees.Assignee, actorUID string, at time.Time) {
	t.AssigneesRaw = assignees.Encode(list)
	t.AssigneeList = list

	if len(list) == 0 {
		t.AssigneeUID = nil
		t.AssigneeName = nil
		t.AssigneeEmail = nil
		t.AssigneePhoto = nil
		t.AssignedAt = nil
		t.AssignedBy = nil
		return
	}

	primary := list[0]
	t.AssigneeUID = &primary.FirebaseUID
	t.AssigneeName = &primary.Name
	t.AssigneeEmail = &primary.Email
	t.AssigneePhoto = &primary.PhotoURL
	t.AssignedAt = &at
	t.AssignedBy = &actorUID
}

// IsAssigned reports whether the task has at least one assignee.
func (t *Task) IsAssigned() bool {
	return t.AssigneeUID != nil || (t.AssigneesRaw != "" && t.AssigneesRaw != assignees.EmptyList)
}

// IsAssignedTo reports whether the given user appears in the assignee list.
func (t *Task) IsAssignedTo(uid string) bool {
	if t.AssigneeUID != nil && *t.AssigneeUID == uid {
		return true
	}
	for _, a := range t.Assignees() {
		if a.FirebaseUID == uid {
			return true
		}
	}
	return false
}
