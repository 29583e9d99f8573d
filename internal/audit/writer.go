// Package audit writes and queries the append-only audit trail. Record is
// always called inside the caller's transaction so a mutation and its audit
// entry commit or roll back together.
package audit

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/models"
)

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionPublish = "publish"
	ActionReview  = "review"
	ActionReject  = "reject"
	ActionArchive = "archive"
	ActionRestore = "restore"
	ActionAssign  = "assign"
	ActionRevoke  = "revoke"
)

const redactedValue = "[REDACTED]"

// sensitiveKeys is matched case-insensitively as a substring of metadata key
// names. Extend deliberately; removing an entry weakens every historic
// call site at once.
var sensitiveKeys = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"api_key",
	"apikey",
	"authorization",
	"cookie",
	"session",
	"credential",
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// Redact replaces sensitive values in a metadata payload, recursing into
// nested maps. The input map is not modified.
func Redact(meta map[string]interface{}) map[string]interface{} {
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		if isSensitive(k) {
			out[k] = redactedValue
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = Redact(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// Record appends one audit entry using tx. Callers pass the transaction of
// the mutation being audited; a failed write here must fail the whole
// operation.
func Record(tx *gorm.DB, actorID uint, action, targetType, targetID string, metadata map[string]interface{}) (*models.AuditEntry, error) {
	entry := models.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
	}

	if metadata != nil {
		raw, err := json.Marshal(Redact(metadata))
		if err != nil {
			return nil, err
		}
		entry.Metadata = datatypes.JSON(raw)
	}

	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
