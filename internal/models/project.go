package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project groups related tasks. Names are unique per owner, not globally.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	OwnerID     uint64    `gorm:"not null;uniqueIndex:idx_projects_owner_name" json:"owner_id"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_projects_owner_name" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Tasks []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
