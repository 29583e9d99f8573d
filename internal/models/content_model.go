package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContentType struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;uniqueIndex" json:"name"`
	Slug      string         `gorm:"size:100;uniqueIndex" json:"slug"`
	Fields    []ContentField `gorm:"foreignKey:ContentTypeID" json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type ContentField struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ContentTypeID uint   `json:"content_type_id"`
	Name          string `gorm:"size:100" json:"name"`
	Type          string `gorm:"size:50" json:"type"` // string, number, boolean, date, text, email, url, media
	Required      bool   `json:"required"`

	Unique       bool     `json:"unique" gorm:"default:false"`
	MaxLength    *int     `json:"max_length,omitempty"`
	MinLength    *int     `json:"min_length,omitempty"`
	Pattern      string   `gorm:"size:255" json:"pattern,omitempty"`
	MinValue     *float64 `json:"min_value,omitempty"`
	MaxValue     *float64 `json:"max_value,omitempty"`
	DefaultValue string   `gorm:"size:500" json:"default_value,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *ContentEntry) SetData(data map[string]interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	e.Data = datatypes.JSON(raw)
	return nil
}

func (e *ContentEntry) DataMap() map[string]interface{} {
	var data map[string]interface{}
	if len(e.Data) > 0 {
		_ = json.Unmarshal(e.Data, &data)
	}
	return data
}

type ContentEntry struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ContentTypeID uint           `gorm:"index" json:"content_type_id"`
	Data          datatypes.JSON `json:"data"`
	Status        EntryStatus    `gorm:"size:20;default:'draft';index" json:"status"`

	// PreviousStatus remembers the state an entry was archived from so a
	// restore can return there instead of defaulting to draft.
	PreviousStatus EntryStatus `gorm:"size:20" json:"previous_status,omitempty"`

	CreatedBy   uint           `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy   uint           `gorm:"index" json:"updated_by,omitempty"`
	Creator     *User          `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Updater     *User          `gorm:"foreignKey:UpdatedBy" json:"updater,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
