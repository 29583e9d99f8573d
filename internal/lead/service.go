package lead

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
)

const targetType = "lead"

// stageOrder documents the funnel; any stage may also move to lost.
var validStages = map[string]bool{
	"new":       true,
	"contacted": true,
	"viewing":   true,
	"offer":     true,
	"won":       true,
	"lost":      true,
}

func CreateLead(actorID uint, l *models.Lead) (*models.Lead, error) {
	fields := make(map[string]string)
	if l.Name == "" {
		fields["name"] = "name is required"
	}
	if l.Email == "" && l.Phone == "" {
		fields["email"] = "email or phone is required"
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Fields: fields}
	}

	if l.PropertyID != nil {
		var p models.Property
		if err := database.DB.First(&p, *l.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("property")
			}
			return nil, &apperr.PersistenceError{Err: err}
		}
	}

	l.Stage = "new"
	l.CreatedBy = actorID
	l.UpdatedBy = actorID

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionCreate, targetType, fmt.Sprint(l.ID), map[string]interface{}{
			"name":   l.Name,
			"source": l.Source,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return l, nil
}

func GetLead(id uint) (*models.Lead, error) {
	var l models.Lead
	err := database.DB.Preload("Property").Preload("Assignee").First(&l, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("lead")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &l, nil
}

type ListFilter struct {
	Stage      string
	AssignedTo *uint
	PropertyID *uint
	Page       int
	Limit      int
}

func ListLeads(f ListFilter) ([]models.Lead, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	query := database.DB.Model(&models.Lead{})
	if f.Stage != "" {
		query = query.Where("stage = ?", f.Stage)
	}
	if f.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *f.AssignedTo)
	}
	if f.PropertyID != nil {
		query = query.Where("property_id = ?", *f.PropertyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}

	var leads []models.Lead
	err := query.
		Preload("Property").
		Preload("Assignee").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&leads).Error
	if err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}
	return leads, total, nil
}

func UpdateStage(actorID, id uint, stage, notes string) (*models.Lead, error) {
	if !validStages[stage] {
		return nil, apperr.Validation("stage", "unknown stage")
	}

	l, err := GetLead(id)
	if err != nil {
		return nil, err
	}

	from := l.Stage
	l.Stage = stage
	if notes != "" {
		l.Notes = notes
	}
	l.UpdatedBy = actorID

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(l).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionUpdate, targetType, fmt.Sprint(l.ID), map[string]interface{}{
			"stage_from": from,
			"stage_to":   stage,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return l, nil
}

func AssignLead(actorID, id, assigneeID uint) (*models.Lead, error) {
	l, err := GetLead(id)
	if err != nil {
		return nil, err
	}

	var assignee models.User
	if err := database.DB.First(&assignee, assigneeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}

	l.AssignedTo = &assigneeID
	l.UpdatedBy = actorID

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(l).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionAssign, targetType, fmt.Sprint(l.ID), map[string]interface{}{
			"assigned_to": assigneeID,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return l, nil
}

func DeleteLead(actorID, id uint) error {
	l, err := GetLead(id)
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(l).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionDelete, targetType, fmt.Sprint(l.ID), map[string]interface{}{
			"name": l.Name,
		})
		return err
	})
	if err != nil {
		return &apperr.PersistenceError{Err: err}
	}
	return nil
}
