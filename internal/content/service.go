package content

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
)

const targetTypeEntry = "content_entry"

// ---- content types (the schema registry) ----

func CreateContentType(actorID uint, name, slug string, fields []models.ContentField) (*models.ContentType, error) {
	ct := models.ContentType{Name: name, Slug: slug, Fields: fields}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ct).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionCreate, "content_type", fmt.Sprint(ct.ID), map[string]interface{}{
			"name": name,
			"slug": slug,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &ct, nil
}

func GetContentType(id uint) (*models.ContentType, error) {
	var ct models.ContentType
	if err := database.DB.Preload("Fields").First(&ct, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("content type")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &ct, nil
}

func ListContentTypes() ([]models.ContentType, error) {
	var types []models.ContentType
	if err := database.DB.Preload("Fields").Order("name").Find(&types).Error; err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return types, nil
}

func AddField(actorID, contentTypeID uint, field models.ContentField) (*models.ContentField, error) {
	if _, err := GetContentType(contentTypeID); err != nil {
		return nil, err
	}
	field.ContentTypeID = contentTypeID

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&field).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionUpdate, "content_type", fmt.Sprint(contentTypeID), map[string]interface{}{
			"added_field": field.Name,
			"field_type":  field.Type,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &field, nil
}

// ---- entries ----

func CreateEntry(actorID, contentTypeID uint, data map[string]interface{}) (*models.ContentEntry, error) {
	ct, err := GetContentType(contentTypeID)
	if err != nil {
		return nil, err
	}

	if err := ValidateEntryData(*ct, data, nil); err != nil {
		return nil, err
	}

	entry := models.ContentEntry{
		ContentTypeID: contentTypeID,
		Status:        models.StatusDraft,
		CreatedBy:     actorID,
		UpdatedBy:     actorID,
	}
	if err := entry.SetData(data); err != nil {
		return nil, err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionCreate, targetTypeEntry, fmt.Sprint(entry.ID), map[string]interface{}{
			"content_type_id": contentTypeID,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &entry, nil
}

func GetEntry(id uint, includeDeleted bool) (*models.ContentEntry, error) {
	query := database.DB
	if includeDeleted {
		query = query.Unscoped()
	}

	var entry models.ContentEntry
	if err := query.Preload("Creator").Preload("Updater").First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("content entry")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}
	if !includeDeleted && entry.Status == models.StatusArchived {
		return nil, apperr.NotFound("content entry")
	}
	return &entry, nil
}

type ListFilter struct {
	ContentTypeID uint
	Status        models.EntryStatus
	// IncludeArchived also lifts the soft-delete scope. Callers must hold
	// content.read.deleted; the route enforces that.
	IncludeArchived bool
	Page            int
	Limit           int
}

func ListEntries(f ListFilter) ([]models.ContentEntry, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	query := database.DB.Model(&models.ContentEntry{}).
		Where("content_type_id = ?", f.ContentTypeID)

	if f.IncludeArchived {
		query = query.Unscoped()
	} else {
		query = query.Where("status <> ?", models.StatusArchived)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}

	var entries []models.ContentEntry
	err := query.
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}
	return entries, total, nil
}

// UpdateEntry replaces the payload. Status never changes here; that is the
// workflow engine's job.
func UpdateEntry(actorID, id uint, data map[string]interface{}) (*models.ContentEntry, error) {
	entry, err := GetEntry(id, false)
	if err != nil {
		return nil, err
	}

	ct, err := GetContentType(entry.ContentTypeID)
	if err != nil {
		return nil, err
	}

	entryID := entry.ID
	if err := ValidateEntryData(*ct, data, &entryID); err != nil {
		return nil, err
	}

	if err := entry.SetData(data); err != nil {
		return nil, err
	}
	entry.UpdatedBy = actorID

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entry).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionUpdate, targetTypeEntry, fmt.Sprint(entry.ID), map[string]interface{}{
			"content_type_id": entry.ContentTypeID,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return entry, nil
}

// DeleteEntry soft-deletes, independent of workflow state.
func DeleteEntry(actorID, id uint) error {
	entry, err := GetEntry(id, false)
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(entry).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionDelete, targetTypeEntry, fmt.Sprint(entry.ID), nil)
		return err
	})
	if err != nil {
		return &apperr.PersistenceError{Err: err}
	}
	return nil
}
