package role

import (
	"errors"

	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/permission"
)

type seedRole struct {
	name        string
	displayName string
	keys        []string
}

var defaultRoles = []seedRole{
	{
		name:        "admin",
		displayName: "Administrator",
		keys:        permission.Keys(),
	},
	{
		name:        "agent",
		displayName: "Listing Agent",
		keys: []string{
			"properties.read", "properties.create", "properties.update",
			"leads.read", "leads.create", "leads.update",
			"media.read", "media.create",
			"content.read",
		},
	},
	{
		name:        "editor",
		displayName: "Content Editor",
		keys: []string{
			"content.read", "content.create", "content.update",
			"media.read", "media.create",
			"properties.read",
		},
	},
	{
		name:        "publisher",
		displayName: "Content Publisher",
		keys: []string{
			"content.read", "content.update", "content.publish",
			"content.delete", "content.read.deleted",
			"media.read",
		},
	},
	{
		name:        "viewer",
		displayName: "Viewer",
		keys: []string{
			"content.read", "properties.read", "leads.read", "media.read",
		},
	},
}

// SeedDefaultRoles inserts the built-in roles if they do not exist yet.
// Existing roles are left untouched so admin edits survive restarts.
func SeedDefaultRoles(db *gorm.DB) error {
	for _, s := range defaultRoles {
		var existing models.Role
		err := db.Where("LOWER(name) = LOWER(?)", s.name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		role := models.Role{Name: s.name, DisplayName: s.displayName, Active: true}
		if err := role.SetPermissionKeys(s.keys); err != nil {
			return err
		}
		if err := db.Create(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
