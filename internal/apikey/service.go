package apikey

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
)

const targetType = "api_key"

// keyPrefix makes keys recognizable in logs and secret scanners.
const keyPrefix = "pl_"

// CreateKey returns the model plus the raw key. The raw key is not stored;
// only the lookup prefix and a bcrypt hash are.
func CreateKey(actorID uint, name string, ownerID uint) (*models.APIKey, string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, "", apperr.Validation("name", "name is required")
	}

	raw := keyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	prefix := raw[:12]

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	key := models.APIKey{
		Name:    name,
		Prefix:  prefix,
		KeyHash: string(hash),
		OwnerID: ownerID,
		Active:  true,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&key).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionCreate, targetType, fmt.Sprint(key.ID), map[string]interface{}{
			"name":     key.Name,
			"owner_id": ownerID,
			"api_key":  raw, // redacted by the audit writer
		})
		return err
	})
	if err != nil {
		return nil, "", &apperr.PersistenceError{Err: err}
	}

	return &key, raw, nil
}

func ListKeys() ([]models.APIKey, error) {
	var keys []models.APIKey
	if err := database.DB.Preload("Owner").Order("created_at DESC").Find(&keys).Error; err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return keys, nil
}

func RevokeKey(actorID, id uint) error {
	var key models.APIKey
	if err := database.DB.First(&key, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("API key")
		}
		return &apperr.PersistenceError{Err: err}
	}

	if !key.Active {
		return nil
	}
	key.Active = false

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&key).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionRevoke, targetType, fmt.Sprint(key.ID), map[string]interface{}{
			"name": key.Name,
		})
		return err
	})
	if err != nil {
		return &apperr.PersistenceError{Err: err}
	}
	return nil
}

// Authenticate resolves a raw key to its record, or nil when invalid.
func Authenticate(raw string) (*models.APIKey, error) {
	if len(raw) < 12 || !strings.HasPrefix(raw, keyPrefix) {
		return nil, nil
	}

	var key models.APIKey
	err := database.DB.Where("prefix = ? AND active = ?", raw[:12], true).First(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(raw)) != nil {
		return nil, nil
	}
	return &key, nil
}

// endpointCosts assigns cost units per public endpoint family. Unlisted
// endpoints cost one unit.
var endpointCosts = map[string]float64{
	"/public/blog":       1,
	"/public/properties": 2,
}

func costFor(endpoint string) float64 {
	for prefix, cost := range endpointCosts {
		if strings.HasPrefix(endpoint, prefix) {
			return cost
		}
	}
	return 1
}

// RecordUsage writes one usage row and bumps last-used. Usage rows are
// metering data, not audit entries; a failed write must not fail the
// request being metered, so callers log and continue.
func RecordUsage(keyID uint, endpoint string) error {
	usage := models.APIKeyUsage{
		APIKeyID: keyID,
		Endpoint: endpoint,
		Cost:     costFor(endpoint),
	}
	if err := database.DB.Create(&usage).Error; err != nil {
		return err
	}

	now := time.Now()
	return database.DB.Model(&models.APIKey{}).
		Where("id = ?", keyID).
		Update("last_used_at", &now).Error
}

type UsageSummary struct {
	APIKeyID  uint    `json:"api_key_id"`
	Name      string  `json:"name"`
	Calls     int64   `json:"calls"`
	TotalCost float64 `json:"total_cost"`
}

// Usage aggregates calls and cost per key over a time window.
func Usage(from, to time.Time) ([]UsageSummary, error) {
	query := database.DB.Model(&models.APIKeyUsage{}).
		Select("api_key_usages.api_key_id, api_keys.name, COUNT(*) as calls, SUM(api_key_usages.cost) as total_cost").
		Joins("JOIN api_keys ON api_keys.id = api_key_usages.api_key_id").
		Group("api_key_usages.api_key_id, api_keys.name")

	if !from.IsZero() {
		query = query.Where("api_key_usages.created_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("api_key_usages.created_at <= ?", to)
	}

	var summaries []UsageSummary
	if err := query.Scan(&summaries).Error; err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return summaries, nil
}
