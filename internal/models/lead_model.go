package models

import (
	"time"

	"gorm.io/gorm"
)

type Lead struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:100" json:"name"`
	Email  string `gorm:"size:100;index" json:"email"`
	Phone  string `gorm:"size:30" json:"phone"`
	Source string `gorm:"size:50" json:"source"` // portal, website, referral, walk_in

	// new, contacted, viewing, offer, won, lost
	Stage string `gorm:"size:20;default:'new';index" json:"stage"`

	PropertyID *uint     `gorm:"index" json:"property_id,omitempty"`
	Property   *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	AssignedTo *uint     `gorm:"index" json:"assigned_to,omitempty"`
	Assignee   *User     `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`

	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedBy uint           `json:"created_by"`
	UpdatedBy uint           `json:"updated_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
