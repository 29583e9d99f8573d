// Package workflow owns the content publishing state machine. Every
// transition checks the actor's live permission set and commits the status
// change and its audit entry in one transaction.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/authz"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
)

// transitions maps from-status to the reachable statuses and the permission
// each one requires. Restore is handled separately because its target
// depends on the entry's remembered previous state.
var transitions = map[models.EntryStatus]map[models.EntryStatus]string{
	models.StatusDraft: {
		models.StatusInReview: "content.update",
		models.StatusArchived: "content.delete",
	},
	models.StatusInReview: {
		models.StatusPublished: "content.publish",
		models.StatusRejected:  "content.publish",
	},
	models.StatusPublished: {
		models.StatusArchived: "content.delete",
	},
}

const restorePermission = "content.update"

// RequiredPermission returns the permission key guarding from→to, or an
// InvalidTransitionError when the edge does not exist.
func RequiredPermission(from, to models.EntryStatus) (string, error) {
	if perm, ok := transitions[from][to]; ok {
		return perm, nil
	}
	return "", &apperr.InvalidTransitionError{From: string(from), To: string(to)}
}

// TransitionAction names the audit action for a transition target.
func TransitionAction(to models.EntryStatus, restoring bool) string {
	if restoring {
		return audit.ActionRestore
	}
	switch to {
	case models.StatusInReview:
		return audit.ActionReview
	case models.StatusPublished:
		return audit.ActionPublish
	case models.StatusRejected:
		return audit.ActionReject
	case models.StatusArchived:
		return audit.ActionArchive
	}
	return audit.ActionUpdate
}

// RestoreTarget resolves where an archived item returns to.
func RestoreTarget(previous models.EntryStatus) models.EntryStatus {
	if previous.Valid() && previous != models.StatusArchived {
		return previous
	}
	return models.StatusDraft
}

const targetTypeEntry = "content_entry"

func changeStatus(actorID, entryID uint, to models.EntryStatus, note string, restoring bool) (*models.ContentEntry, error) {
	db := database.DB

	var entry models.ContentEntry
	if err := db.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("content entry")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}

	var perm string
	if restoring {
		if entry.Status != models.StatusArchived {
			return nil, &apperr.InvalidTransitionError{From: string(entry.Status), To: "restore"}
		}
		to = RestoreTarget(entry.PreviousStatus)
		perm = restorePermission
	} else {
		var err error
		perm, err = RequiredPermission(entry.Status, to)
		if err != nil {
			return nil, err
		}
	}

	allowed, err := authz.HasPermission(db, actorID, perm)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.ErrForbidden
	}

	from := entry.Status

	err = db.Transaction(func(tx *gorm.DB) error {
		// Re-read inside the transaction so a concurrent transition on the
		// same entry fails the edge check instead of silently overwriting.
		var current models.ContentEntry
		if err := tx.First(&current, entryID).Error; err != nil {
			return err
		}
		if current.Status != from {
			return &apperr.InvalidTransitionError{From: string(current.Status), To: string(to)}
		}

		current.Status = to
		current.UpdatedBy = actorID
		switch {
		case restoring:
			current.PreviousStatus = ""
		case to == models.StatusArchived:
			current.PreviousStatus = from
		case to == models.StatusPublished:
			now := time.Now()
			current.PublishedAt = &now
		}

		if err := tx.Save(&current).Error; err != nil {
			return err
		}

		meta := map[string]interface{}{
			"from": string(from),
			"to":   string(to),
		}
		if note != "" {
			meta["note"] = note
		}
		action := TransitionAction(to, restoring)
		if _, err := audit.Record(tx, actorID, action, targetTypeEntry, fmt.Sprint(entryID), meta); err != nil {
			return err
		}

		entry = current
		return nil
	})
	if err != nil {
		var transErr *apperr.InvalidTransitionError
		if errors.As(err, &transErr) {
			return nil, err
		}
		return nil, &apperr.PersistenceError{Err: err}
	}

	return &entry, nil
}

func SubmitForReview(actorID, entryID uint, note string) (*models.ContentEntry, error) {
	return changeStatus(actorID, entryID, models.StatusInReview, note, false)
}

func Approve(actorID, entryID uint, note string) (*models.ContentEntry, error) {
	return changeStatus(actorID, entryID, models.StatusPublished, note, false)
}

func Reject(actorID, entryID uint, note string) (*models.ContentEntry, error) {
	return changeStatus(actorID, entryID, models.StatusRejected, note, false)
}

func Archive(actorID, entryID uint, note string) (*models.ContentEntry, error) {
	return changeStatus(actorID, entryID, models.StatusArchived, note, false)
}

func Restore(actorID, entryID uint, note string) (*models.ContentEntry, error) {
	return changeStatus(actorID, entryID, "", note, true)
}

// History returns the audit trail of one entry, newest first.
func History(entryID uint) ([]models.AuditEntry, error) {
	return audit.ForTarget(database.DB, targetTypeEntry, fmt.Sprint(entryID))
}

// Stats counts entries per status for one content type. Soft-deleted rows
// are excluded by the default GORM scope.
func Stats(contentTypeID uint) (map[string]int64, error) {
	stats := make(map[string]int64)
	statuses := []models.EntryStatus{
		models.StatusDraft,
		models.StatusInReview,
		models.StatusPublished,
		models.StatusRejected,
		models.StatusArchived,
	}

	for _, status := range statuses {
		var count int64
		err := database.DB.Model(&models.ContentEntry{}).
			Where("content_type_id = ? AND status = ?", contentTypeID, status).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		stats[string(status)] = count
	}

	return stats, nil
}
