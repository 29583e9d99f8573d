package models

import "gorm.io/gorm"

// EntryStatus is the workflow state shared by content entries and blog posts.
type EntryStatus string

const (
	StatusDraft     EntryStatus = "draft"
	StatusInReview  EntryStatus = "in_review"
	StatusPublished EntryStatus = "published"
	StatusRejected  EntryStatus = "rejected"
	StatusArchived  EntryStatus = "archived"
)

func (s EntryStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusPublished, StatusRejected, StatusArchived:
		return true
	}
	return false
}

func EnsureEnum(db *gorm.DB) error {
	return db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'entry_status') THEN
				CREATE TYPE entry_status AS ENUM (
					'draft',
					'in_review',
					'published',
					'rejected',
					'archived'
				);
			END IF;
		END
		$$;
	`).Error
}
