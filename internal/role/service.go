package role

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/authz"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/permission"
)

const targetType = "role"

func validateKeys(keys []string) error {
	fields := make(map[string]string)
	for _, key := range keys {
		if !permission.Exists(key) {
			fields[key] = "unknown permission key"
		}
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}

func GetRole(id uint) (*models.Role, error) {
	var role models.Role
	if err := database.DB.First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("role")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &role, nil
}

func ListRoles(activeOnly bool) ([]models.Role, error) {
	var roles []models.Role
	query := database.DB.Order("name")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&roles).Error; err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}
	return roles, nil
}

func CreateRole(actorID uint, name, displayName string, keys []string) (*models.Role, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name", "name is required")
	}
	if err := validateKeys(keys); err != nil {
		return nil, err
	}

	var existing models.Role
	err := database.DB.Where("LOWER(name) = LOWER(?)", name).First(&existing).Error
	if err == nil {
		return nil, apperr.Validation("name", "a role with this name already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.PersistenceError{Err: err}
	}

	role := models.Role{Name: name, DisplayName: displayName, Active: true}
	if err := role.SetPermissionKeys(keys); err != nil {
		return nil, err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionCreate, targetType, fmt.Sprint(role.ID), map[string]interface{}{
			"name":        role.Name,
			"permissions": keys,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	return &role, nil
}

// UpdateRolePermissions replaces the role's key set. Already-resolved
// principals are unaffected mid-request; the change applies on the next
// authorization check because checks read the database each time.
func UpdateRolePermissions(actorID, id uint, keys []string) (*models.Role, error) {
	if err := validateKeys(keys); err != nil {
		return nil, err
	}

	role, err := GetRole(id)
	if err != nil {
		return nil, err
	}

	if err := checkSelfLockout(actorID, role.ID, keys); err != nil {
		return nil, err
	}

	before := role.PermissionKeys()
	if err := role.SetPermissionKeys(keys); err != nil {
		return nil, err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionUpdate, targetType, fmt.Sprint(role.ID), map[string]interface{}{
			"permissions_before": before,
			"permissions_after":  keys,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	return role, nil
}

// DeactivateRole soft-disables the role. Assignments are kept and become
// inert rather than being deleted.
func DeactivateRole(actorID, id uint) error {
	role, err := GetRole(id)
	if err != nil {
		return err
	}
	if !role.Active {
		return nil
	}

	if err := checkSelfLockout(actorID, role.ID, nil); err != nil {
		return err
	}

	role.Active = false

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionDelete, targetType, fmt.Sprint(role.ID), map[string]interface{}{
			"name": role.Name,
		})
		return err
	})
	if err != nil {
		return &apperr.PersistenceError{Err: err}
	}
	return nil
}

// adminKeys are the grants whose loss would lock the actor out of user and
// role administration entirely.
var adminKeys = []string{"roles.update", "users.delete"}

// checkSelfLockout rejects an edit that would strip the acting principal's
// own administrative access through the role being modified.
func checkSelfLockout(actorID, roleID uint, replacementKeys []string) error {
	current, err := authz.ResolveEffectivePermissions(database.DB, actorID)
	if err != nil {
		return err
	}
	after, err := authz.EffectiveWithRoleOverride(database.DB, actorID, roleID, replacementKeys)
	if err != nil {
		return err
	}

	for _, key := range adminKeys {
		if current[key] && !after[key] {
			return &apperr.SelfModificationError{
				Reason: fmt.Sprintf("this change would remove your own %q permission", key),
			}
		}
	}
	return nil
}
