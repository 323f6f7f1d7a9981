package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus is an open set; only these values have defined semantics.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is one of the known levels.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task belongs to at most one project and is owned by its creator. The
// project, when set, always belongs to the task's owner.
type Task struct {
	ID          uuid.UUID    `gorm:"type:uuid;primarykey" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(32);not null;default:'pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(16);not null;default:'medium'" json:"priority"`
	Deadline    *time.Time   `gorm:"index" json:"deadline"`
	Completed   bool         `gorm:"not null;default:false;index" json:"completed"`
	OwnerID     uint64       `gorm:"not null;index" json:"owner_id"`
	ProjectID   *uuid.UUID   `gorm:"type:uuid;index" json:"project_id"`
	AssigneeID  *uint64      `gorm:"index" json:"assignee_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Owner    User     `gorm:"foreignKey:OwnerID" json:"-"`
	Project  *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee *User    `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
