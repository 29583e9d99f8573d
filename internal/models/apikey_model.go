package models

import (
	"time"

	"gorm.io/gorm"
)

// APIKey stores only a lookup prefix and a bcrypt hash of the full key.
// The raw key is shown once, at creation.
type APIKey struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:100" json:"name"`
	Prefix     string         `gorm:"size:12;uniqueIndex" json:"prefix"`
	KeyHash    string         `gorm:"size:255" json:"-"`
	OwnerID    uint           `gorm:"index" json:"owner_id"`
	Owner      *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Active     bool           `gorm:"default:true;index" json:"active"`
	LastUsedAt *time.Time     `json:"last_used_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type APIKeyUsage struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	APIKeyID uint    `gorm:"index" json:"api_key_id"`
	Endpoint string  `gorm:"size:255;index" json:"endpoint"`
	Cost     float64 `json:"cost"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
