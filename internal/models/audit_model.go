package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEntry is append-only. There is deliberately no UpdatedAt and no
// DeletedAt: entries are never mutated or removed after the write.
type AuditEntry struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ActorID    uint           `gorm:"index" json:"actor_id"`
	Actor      *User          `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Action     string         `gorm:"size:50;index" json:"action"`
	TargetType string         `gorm:"size:50;index:idx_audit_target" json:"target_type"`
	TargetID   string         `gorm:"size:64;index:idx_audit_target" json:"target_id"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}
