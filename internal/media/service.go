package media

import (
	"errors"
	"fmt"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/utils"
)

const targetType = "media_file"

const maxUploadSize = 25 * 1024 * 1024

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

func Upload(actorID uint, file *multipart.FileHeader, alt string, propertyID *uint) (*models.MediaFile, error) {
	if file.Size > maxUploadSize {
		return nil, apperr.Validation("file", "file exceeds 25MB limit")
	}
	contentType := file.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		return nil, apperr.Validation("file", "unsupported file type")
	}

	if propertyID != nil {
		var p models.Property
		if err := database.DB.First(&p, *propertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("property")
			}
			return nil, &apperr.PersistenceError{Err: err}
		}
	}

	url, err := utils.UploadFile(file)
	if err != nil {
		return nil, err
	}

	m := models.MediaFile{
		FileName:   file.Filename,
		URL:        url,
		Type:       contentType,
		Size:       file.Size,
		Alt:        alt,
		PropertyID: propertyID,
		UploadedBy: actorID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionCreate, targetType, fmt.Sprint(m.ID), map[string]interface{}{
			"file_name": m.FileName,
			"type":      m.Type,
			"size":      m.Size,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	return &m, nil
}

func List(propertyID *uint, page, limit int) ([]models.MediaFile, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	query := database.DB.Model(&models.MediaFile{})
	if propertyID != nil {
		query = query.Where("property_id = ?", *propertyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}

	var files []models.MediaFile
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&files).Error
	if err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}
	return files, total, nil
}

func Delete(actorID, id uint) error {
	var m models.MediaFile
	if err := database.DB.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("media file")
		}
		return &apperr.PersistenceError{Err: err}
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionDelete, targetType, fmt.Sprint(m.ID), map[string]interface{}{
			"file_name": m.FileName,
		})
		return err
	})
	if err != nil {
		return &apperr.PersistenceError{Err: err}
	}

	// Best effort; the row is gone either way.
	_ = utils.DeleteLocalFile(m.URL)
	return nil
}
