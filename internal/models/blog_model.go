package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlogPost struct {
	ID      uint           `gorm:"primaryKey" json:"id"`
	Title   string         `gorm:"size:255" json:"title"`
	Slug    string         `gorm:"size:255;uniqueIndex" json:"slug"`
	Body    string         `gorm:"type:text" json:"body"`
	Excerpt string         `gorm:"size:500" json:"excerpt"`
	Tags    datatypes.JSON `json:"tags,omitempty"`

	Status         EntryStatus `gorm:"size:20;default:'draft';index" json:"status"`
	PreviousStatus EntryStatus `gorm:"size:20" json:"previous_status,omitempty"`

	AuthorID    uint           `gorm:"index" json:"author_id"`
	Author      *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	UpdatedBy   uint           `json:"updated_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
