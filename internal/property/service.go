package property

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
)

const targetType = "property"

var listingStatuses = map[string]bool{
	"available":   true,
	"under_offer": true,
	"sold":        true,
	"rented":      true,
	"withdrawn":   true,
}

func CreateProperty(actorID uint, p *models.Property) (*models.Property, error) {
	fields := make(map[string]string)
	if p.Title == "" {
		fields["title"] = "title is required"
	}
	if p.Address == "" {
		fields["address"] = "address is required"
	}
	if p.ListingType != "sale" && p.ListingType != "rent" {
		fields["listing_type"] = "must be sale or rent"
	}
	if p.Price < 0 {
		fields["price"] = "must not be negative"
	}
	if len(fields) > 0 {
		return nil, &apperr.ValidationError{Fields: fields}
	}

	p.ListingStatus = "available"
	p.CreatedBy = actorID
	p.UpdatedBy = actorID

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionCreate, targetType, fmt.Sprint(p.ID), map[string]interface{}{
			"title":        p.Title,
			"listing_type": p.ListingType,
			"price":        p.Price,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return p, nil
}

func GetProperty(id uint) (*models.Property, error) {
	var p models.Property
	if err := database.DB.Preload("Agent").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("property")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &p, nil
}

type ListFilter struct {
	City          string
	ListingType   string
	ListingStatus string
	MinPrice      float64
	MaxPrice      float64
	AgentID       *uint
	Page          int
	Limit         int
}

func ListProperties(f ListFilter) ([]models.Property, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	query := database.DB.Model(&models.Property{})
	if f.City != "" {
		query = query.Where("city = ?", f.City)
	}
	if f.ListingType != "" {
		query = query.Where("listing_type = ?", f.ListingType)
	}
	if f.ListingStatus != "" {
		query = query.Where("listing_status = ?", f.ListingStatus)
	}
	if f.MinPrice > 0 {
		query = query.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		query = query.Where("price <= ?", f.MaxPrice)
	}
	if f.AgentID != nil {
		query = query.Where("agent_id = ?", *f.AgentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}

	var properties []models.Property
	err := query.
		Preload("Agent").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&properties).Error
	if err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}
	return properties, total, nil
}

type UpdateInput struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	ListingStatus *string  `json:"listing_status"`
	AgentID       *uint    `json:"agent_id"`
}

func UpdateProperty(actorID, id uint, in UpdateInput) (*models.Property, error) {
	p, err := GetProperty(id)
	if err != nil {
		return nil, err
	}

	before := map[string]interface{}{
		"title":          p.Title,
		"price":          p.Price,
		"listing_status": p.ListingStatus,
	}

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.Validation("price", "must not be negative")
		}
		p.Price = *in.Price
	}
	if in.ListingStatus != nil {
		if !listingStatuses[*in.ListingStatus] {
			return nil, apperr.Validation("listing_status", "unknown listing status")
		}
		p.ListingStatus = *in.ListingStatus
	}
	if in.AgentID != nil {
		p.AgentID = in.AgentID
	}
	p.UpdatedBy = actorID

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionUpdate, targetType, fmt.Sprint(p.ID), map[string]interface{}{
			"before": before,
			"after": map[string]interface{}{
				"title":          p.Title,
				"price":          p.Price,
				"listing_status": p.ListingStatus,
			},
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return p, nil
}

func DeleteProperty(actorID, id uint) error {
	p, err := GetProperty(id)
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(p).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionDelete, targetType, fmt.Sprint(p.ID), map[string]interface{}{
			"title": p.Title,
		})
		return err
	})
	if err != nil {
		return &apperr.PersistenceError{Err: err}
	}
	return nil
}
