package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/models"
)

type Filter struct {
	ActorID    *uint
	Action     string
	TargetType string
	TargetID   string
	From       time.Time
	To         time.Time
	Page       int
	Limit      int
}

// List returns matching entries in reverse-chronological order along with
// the total match count for pagination.
func List(db *gorm.DB, f Filter) ([]models.AuditEntry, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	query := db.Model(&models.AuditEntry{})

	if f.ActorID != nil {
		query = query.Where("actor_id = ?", *f.ActorID)
	}
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.TargetType != "" {
		query = query.Where("target_type = ?", f.TargetType)
	}
	if f.TargetID != "" {
		query = query.Where("target_id = ?", f.TargetID)
	}
	if !f.From.IsZero() {
		query = query.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		query = query.Where("created_at <= ?", f.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AuditEntry
	err := query.
		Preload("Actor").
		Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&entries).Error

	return entries, total, err
}

// ForTarget returns the full trail of one entity, newest first.
func ForTarget(db *gorm.DB, targetType, targetID string) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := db.
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Preload("Actor").
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
