package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/authz"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/role"
	"github.com/propline/backoffice/internal/testutils"
)

func TestResolveUnknownUser(t *testing.T) {
	db := testutils.TestDB(t)

	_, err := authz.ResolveEffectivePermissions(db, 999)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestResolveUnionAcrossRoles(t *testing.T) {
	db := testutils.TestDB(t)
	assert.NoError(t, role.SeedDefaultRoles(db))

	u := testutils.CreateTestUser(t, db, "multi@example.com", "password123", "agent", "editor")

	perms, err := authz.ResolveEffectivePermissions(db, u.ID)
	assert.NoError(t, err)

	// from agent
	assert.True(t, perms["leads.create"])
	// from editor
	assert.True(t, perms["content.create"])
	// from neither
	assert.False(t, perms["users.delete"])
	assert.False(t, perms["content.publish"])
}

func TestResolveMergesLegacyRole(t *testing.T) {
	db := testutils.TestDB(t)
	assert.NoError(t, role.SeedDefaultRoles(db))

	u := testutils.CreateTestUser(t, db, "mixed@example.com", "password123", "editor")
	u.LegacyRole = "agent"
	assert.NoError(t, db.Save(u).Error)

	perms, err := authz.ResolveEffectivePermissions(db, u.ID)
	assert.NoError(t, err)

	// union: legacy agent adds lead grants the editor role lacks
	assert.True(t, perms["leads.create"])
	assert.True(t, perms["content.create"])
}

func TestLegacyAdminGetsEverything(t *testing.T) {
	db := testutils.TestDB(t)
	assert.NoError(t, role.SeedDefaultRoles(db))

	u := testutils.CreateLegacyUser(t, db, "legacy-admin@example.com", "admin")

	perms, err := authz.ResolveEffectivePermissions(db, u.ID)
	assert.NoError(t, err)
	assert.True(t, perms["users.delete"])
	assert.True(t, perms["content.publish"])
	assert.True(t, perms["audit.read"])
}

func TestInactiveRoleContributesNothing(t *testing.T) {
	db := testutils.TestDB(t)
	assert.NoError(t, role.SeedDefaultRoles(db))

	u := testutils.CreateTestUser(t, db, "inert@example.com", "password123", "publisher")

	ok, err := authz.HasPermission(db, u.ID, "content.publish")
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, db.Model(&models.Role{}).
		Where("name = ?", "publisher").
		Update("active", false).Error)

	// no caching: the next check reads the new state
	ok, err = authz.HasPermission(db, u.ID, "content.publish")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRevocationAppliesImmediately(t *testing.T) {
	db := testutils.TestDB(t)
	assert.NoError(t, role.SeedDefaultRoles(db))

	u := testutils.CreateTestUser(t, db, "revoked@example.com", "password123", "agent")

	ok, err := authz.HasPermission(db, u.ID, "properties.create")
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, db.
		Where("user_id = ?", u.ID).
		Delete(&models.UserRoleAssignment{}).Error)

	ok, err = authz.HasPermission(db, u.ID, "properties.create")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestEffectiveWithRoleOverride(t *testing.T) {
	db := testutils.TestDB(t)
	assert.NoError(t, role.SeedDefaultRoles(db))

	u := testutils.CreateTestUser(t, db, "override@example.com", "password123", "admin")

	var adminRole models.Role
	assert.NoError(t, db.Where("name = ?", "admin").First(&adminRole).Error)

	// simulate the admin role losing everything but content.read
	perms, err := authz.EffectiveWithRoleOverride(db, u.ID, adminRole.ID, []string{"content.read"})
	assert.NoError(t, err)
	assert.True(t, perms["content.read"])
	assert.False(t, perms["roles.update"])
	assert.False(t, perms["users.delete"])

	// simulate the role going away entirely
	perms, err = authz.EffectiveWithRoleOverride(db, u.ID, adminRole.ID, nil)
	assert.NoError(t, err)
	assert.Empty(t, perms)
}
