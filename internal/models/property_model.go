package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Address     string `gorm:"size:255" json:"address"`
	City        string `gorm:"size:100;index" json:"city"`
	PostalCode  string `gorm:"size:20" json:"postal_code"`

	Price       float64 `json:"price"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   int     `json:"bathrooms"`
	AreaSqm     float64 `json:"area_sqm"`
	ListingType string  `gorm:"size:20;index" json:"listing_type"` // sale, rent

	// available, under_offer, sold, rented, withdrawn
	ListingStatus string `gorm:"size:20;default:'available';index" json:"listing_status"`

	// Photos holds media file IDs in display order.
	Photos datatypes.JSON `json:"photos,omitempty"`

	AgentID   *uint          `gorm:"index" json:"agent_id,omitempty"`
	Agent     *User          `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	CreatedBy uint           `json:"created_by"`
	UpdatedBy uint           `json:"updated_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
