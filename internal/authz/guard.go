// Package authz resolves a user's effective permission set and enforces it.
// Checks always read live role state; nothing is cached across requests, so
// an administrative revocation applies on the user's very next request.
package authz

import (
	"errors"

	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/permission"
)

// legacyGrants translates the pre-RBAC scalar role into permission keys.
// "admin" is handled separately and receives every registered key. Both
// sources are merged with union semantics; neither takes precedence.
var legacyGrants = map[string][]string{
	"agent": {
		"properties.read", "properties.create", "properties.update",
		"leads.read", "leads.create", "leads.update",
		"media.read", "media.create",
		"content.read",
	},
	"editor": {
		"content.read", "content.create", "content.update",
		"media.read", "media.create",
		"properties.read",
	},
	"viewer": {
		"content.read", "properties.read", "leads.read", "media.read",
	},
}

// LegacyGrants returns the permission keys implied by a legacy role value.
func LegacyGrants(legacyRole string) []string {
	if legacyRole == "admin" {
		return permission.Keys()
	}
	return legacyGrants[legacyRole]
}

// ResolveEffectivePermissions computes the union of permission keys across
// every active role assigned to the user plus the legacy-role grant.
func ResolveEffectivePermissions(db *gorm.DB, userID uint) (map[string]bool, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, err
	}

	perms := make(map[string]bool)

	var assignments []models.UserRoleAssignment
	if err := db.Preload("Role").Where("user_id = ?", userID).Find(&assignments).Error; err != nil {
		return nil, err
	}
	for _, a := range assignments {
		if a.Role == nil || !a.Role.Active {
			continue
		}
		for _, key := range a.Role.PermissionKeys() {
			perms[key] = true
		}
	}

	for _, key := range LegacyGrants(user.LegacyRole) {
		perms[key] = true
	}

	return perms, nil
}

func HasPermission(db *gorm.DB, userID uint, key string) (bool, error) {
	perms, err := ResolveEffectivePermissions(db, userID)
	if err != nil {
		return false, err
	}
	return perms[key], nil
}

// EffectiveWithRoleOverride recomputes the user's effective set as if role
// roleID carried the given keys (pass nil to treat the role as inactive).
// Used by the self-lockout checks before a role edit is committed.
func EffectiveWithRoleOverride(db *gorm.DB, userID, roleID uint, keys []string) (map[string]bool, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, err
	}

	perms := make(map[string]bool)

	var assignments []models.UserRoleAssignment
	if err := db.Preload("Role").Where("user_id = ?", userID).Find(&assignments).Error; err != nil {
		return nil, err
	}
	for _, a := range assignments {
		if a.Role == nil {
			continue
		}
		if a.RoleID == roleID {
			for _, key := range keys {
				perms[key] = true
			}
			continue
		}
		if !a.Role.Active {
			continue
		}
		for _, key := range a.Role.PermissionKeys() {
			perms[key] = true
		}
	}

	for _, key := range LegacyGrants(user.LegacyRole) {
		perms[key] = true
	}

	return perms, nil
}
