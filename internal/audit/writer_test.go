package audit_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/testutils"
)

func TestRedactSensitiveKeys(t *testing.T) {
	meta := map[string]interface{}{
		"email":         "agent@example.com",
		"password":      "hunter2",
		"PASSWORD":      "hunter2",
		"NewPassword":   "hunter2",
		"api_key":       "pl_abc123",
		"Authorization": "Bearer xyz",
		"count":         3,
	}

	out := audit.Redact(meta)

	assert.Equal(t, "agent@example.com", out["email"])
	assert.Equal(t, "[REDACTED]", out["password"])
	assert.Equal(t, "[REDACTED]", out["PASSWORD"])
	assert.Equal(t, "[REDACTED]", out["NewPassword"])
	assert.Equal(t, "[REDACTED]", out["api_key"])
	assert.Equal(t, "[REDACTED]", out["Authorization"])
	assert.Equal(t, 3, out["count"])

	// input untouched
	assert.Equal(t, "hunter2", meta["password"])
}

func TestRedactNestedMaps(t *testing.T) {
	meta := map[string]interface{}{
		"before": map[string]interface{}{
			"name":          "Old Name",
			"refresh_token": "tok_123",
		},
	}

	out := audit.Redact(meta)
	nested := out["before"].(map[string]interface{})
	assert.Equal(t, "Old Name", nested["name"])
	assert.Equal(t, "[REDACTED]", nested["refresh_token"])
}

func TestRedactNil(t *testing.T) {
	assert.Nil(t, audit.Redact(nil))
}

func TestRecordPersistsRedactedMetadata(t *testing.T) {
	db := testutils.TestDB(t)

	entry, err := audit.Record(db, 7, audit.ActionCreate, "user", "42", map[string]interface{}{
		"email":    "new@example.com",
		"password": "plaintext",
	})
	assert.NoError(t, err)
	assert.NotZero(t, entry.ID)

	var stored models.AuditEntry
	assert.NoError(t, db.First(&stored, entry.ID).Error)
	assert.Equal(t, uint(7), stored.ActorID)
	assert.Equal(t, "user", stored.TargetType)
	assert.Equal(t, "42", stored.TargetID)

	var meta map[string]interface{}
	assert.NoError(t, json.Unmarshal(stored.Metadata, &meta))
	assert.Equal(t, "new@example.com", meta["email"])
	assert.Equal(t, "[REDACTED]", meta["password"])
}

func TestListFilters(t *testing.T) {
	db := testutils.TestDB(t)

	_, err := audit.Record(db, 1, audit.ActionCreate, "property", "10", nil)
	assert.NoError(t, err)
	_, err = audit.Record(db, 2, audit.ActionUpdate, "property", "10", nil)
	assert.NoError(t, err)
	_, err = audit.Record(db, 1, audit.ActionDelete, "lead", "5", nil)
	assert.NoError(t, err)

	actor := uint(1)
	entries, total, err := audit.List(db, audit.Filter{ActorID: &actor})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, entries, 2)

	entries, total, err = audit.List(db, audit.Filter{TargetType: "property", TargetID: "10"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)

	entries, total, err = audit.List(db, audit.Filter{Action: audit.ActionDelete})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "lead", entries[0].TargetType)

	future := time.Now().Add(time.Hour)
	_, total, err = audit.List(db, audit.Filter{From: future})
	assert.NoError(t, err)
	assert.Zero(t, total)
}

func TestForTargetNewestFirst(t *testing.T) {
	db := testutils.TestDB(t)

	first, err := audit.Record(db, 1, audit.ActionCreate, "role", "3", nil)
	assert.NoError(t, err)
	second, err := audit.Record(db, 1, audit.ActionUpdate, "role", "3", nil)
	assert.NoError(t, err)

	entries, err := audit.ForTarget(db, "role", "3")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
}
