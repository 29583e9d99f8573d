package apikey_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apikey"
	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/role"
	"github.com/propline/backoffice/internal/testutils"
)

func setupKeys(t *testing.T) (*gorm.DB, *models.User) {
	db := testutils.TestDB(t)
	database.DB = db
	assert.NoError(t, role.SeedDefaultRoles(db))

	admin := testutils.CreateTestUser(t, db, "admin@example.com", "password123", "admin")
	return db, admin
}

func TestCreateKey(t *testing.T) {
	db, admin := setupKeys(t)

	key, raw, err := apikey.CreateKey(admin.ID, "portal feed", admin.ID)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "pl_"))
	assert.Equal(t, raw[:12], key.Prefix)
	assert.True(t, key.Active)
	assert.NotEqual(t, raw, key.KeyHash)

	// the raw key never reaches the audit trail
	var trail models.AuditEntry
	err = db.Where("target_type = ? AND target_id = ?", "api_key", fmt.Sprint(key.ID)).First(&trail).Error
	assert.NoError(t, err)

	var meta map[string]interface{}
	assert.NoError(t, json.Unmarshal(trail.Metadata, &meta))
	assert.Equal(t, "[REDACTED]", meta["api_key"])
}

func TestCreateKeyRequiresName(t *testing.T) {
	_, admin := setupKeys(t)

	_, _, err := apikey.CreateKey(admin.ID, "  ", admin.ID)
	var valErr *apperr.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestAuthenticate(t *testing.T) {
	_, admin := setupKeys(t)

	key, raw, err := apikey.CreateKey(admin.ID, "portal feed", admin.ID)
	assert.NoError(t, err)

	found, err := apikey.Authenticate(raw)
	assert.NoError(t, err)
	assert.NotNil(t, found)
	assert.Equal(t, key.ID, found.ID)

	// wrong secret under a valid prefix
	found, err = apikey.Authenticate(raw[:12] + strings.Repeat("x", 20))
	assert.NoError(t, err)
	assert.Nil(t, found)

	// garbage
	found, err = apikey.Authenticate("not-a-key")
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestRevokedKeyStopsAuthenticating(t *testing.T) {
	_, admin := setupKeys(t)

	key, raw, err := apikey.CreateKey(admin.ID, "portal feed", admin.ID)
	assert.NoError(t, err)

	assert.NoError(t, apikey.RevokeKey(admin.ID, key.ID))

	found, err := apikey.Authenticate(raw)
	assert.NoError(t, err)
	assert.Nil(t, found)

	// revoking again is a no-op
	assert.NoError(t, apikey.RevokeKey(admin.ID, key.ID))
}

func TestUsageAggregation(t *testing.T) {
	_, admin := setupKeys(t)

	key, _, err := apikey.CreateKey(admin.ID, "portal feed", admin.ID)
	assert.NoError(t, err)

	assert.NoError(t, apikey.RecordUsage(key.ID, "/public/blog"))
	assert.NoError(t, apikey.RecordUsage(key.ID, "/public/blog/some-post"))
	assert.NoError(t, apikey.RecordUsage(key.ID, "/public/properties"))

	summaries, err := apikey.Usage(time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, key.ID, summaries[0].APIKeyID)
	assert.Equal(t, "portal feed", summaries[0].Name)
	assert.Equal(t, int64(3), summaries[0].Calls)
	// two blog calls at 1 plus one property call at 2
	assert.Equal(t, float64(4), summaries[0].TotalCost)

	var fresh models.APIKey
	assert.NoError(t, database.DB.First(&fresh, key.ID).Error)
	assert.NotNil(t, fresh.LastUsedAt)
}
