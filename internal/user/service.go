package user

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/audit"
	"github.com/propline/backoffice/internal/authz"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/utils"
)

const targetType = "user"

func GetUser(id uint) (*models.User, error) {
	var u models.User
	err := database.DB.Preload("Assignments.Role").First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}
	return &u, nil
}

func ListUsers(page, limit int) ([]models.User, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	var total int64
	if err := database.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}

	var users []models.User
	err := database.DB.
		Preload("Assignments.Role").
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, &apperr.PersistenceError{Err: err}
	}
	return users, total, nil
}

func CreateUser(actorID uint, name, email, password, legacyRole string) (*models.User, error) {
	var existing models.User
	err := database.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperr.Validation("email", "a user with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.PersistenceError{Err: err}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := models.User{
		Name:       name,
		Email:      email,
		Password:   hash,
		Status:     "active",
		LegacyRole: legacyRole,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionCreate, targetType, fmt.Sprint(u.ID), map[string]interface{}{
			"email":    u.Email,
			"name":     u.Name,
			"password": password, // redacted by the audit writer
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	return &u, nil
}

func UpdateUser(actorID, id uint, name, status string) (*models.User, error) {
	u, err := GetUser(id)
	if err != nil {
		return nil, err
	}

	before := map[string]interface{}{"name": u.Name, "status": u.Status}
	if name != "" {
		u.Name = name
	}
	if status != "" {
		u.Status = status
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(u).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionUpdate, targetType, fmt.Sprint(u.ID), map[string]interface{}{
			"before": before,
			"after":  map[string]interface{}{"name": u.Name, "status": u.Status},
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	return u, nil
}

// DeleteUser soft-deletes. Deleting your own account is always rejected,
// whatever the actor's grants.
func DeleteUser(actorID, id uint) error {
	if actorID == id {
		return &apperr.SelfModificationError{Reason: "you cannot delete your own account"}
	}

	u, err := GetUser(id)
	if err != nil {
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(u).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionDelete, targetType, fmt.Sprint(u.ID), map[string]interface{}{
			"email": u.Email,
		})
		return err
	})
	if err != nil {
		return &apperr.PersistenceError{Err: err}
	}
	return nil
}

func AssignRole(actorID, userID, roleID uint) (*models.UserRoleAssignment, error) {
	if _, err := GetUser(userID); err != nil {
		return nil, err
	}

	var role models.Role
	if err := database.DB.First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("role")
		}
		return nil, &apperr.PersistenceError{Err: err}
	}

	var existing models.UserRoleAssignment
	err := database.DB.Where("user_id = ? AND role_id = ?", userID, roleID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.PersistenceError{Err: err}
	}

	assignment := models.UserRoleAssignment{
		UserID:     userID,
		RoleID:     roleID,
		AssignedBy: actorID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionAssign, targetType, fmt.Sprint(userID), map[string]interface{}{
			"role_id":   roleID,
			"role_name": role.Name,
		})
		return err
	})
	if err != nil {
		return nil, &apperr.PersistenceError{Err: err}
	}

	return &assignment, nil
}

// RevokeRole removes one assignment. Revoking the actor's own last source
// of an administrative grant is rejected to prevent self-lockout.
func RevokeRole(actorID, userID, roleID uint) error {
	var assignment models.UserRoleAssignment
	err := database.DB.Where("user_id = ? AND role_id = ?", userID, roleID).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("role assignment")
		}
		return &apperr.PersistenceError{Err: err}
	}

	if actorID == userID {
		current, err := authz.ResolveEffectivePermissions(database.DB, actorID)
		if err != nil {
			return err
		}
		after, err := authz.EffectiveWithRoleOverride(database.DB, actorID, roleID, nil)
		if err != nil {
			return err
		}
		for _, key := range []string{"roles.update", "users.delete"} {
			if current[key] && !after[key] {
				return &apperr.SelfModificationError{
					Reason: fmt.Sprintf("revoking this role would remove your own %q permission", key),
				}
			}
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&assignment).Error; err != nil {
			return err
		}
		_, err := audit.Record(tx, actorID, audit.ActionRevoke, targetType, fmt.Sprint(userID), map[string]interface{}{
			"role_id": roleID,
		})
		return err
	})
	if err != nil {
		return &apperr.PersistenceError{Err: err}
	}
	return nil
}
