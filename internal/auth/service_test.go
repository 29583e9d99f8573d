package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propline/backoffice/internal/auth"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/role"
	"github.com/propline/backoffice/internal/testutils"
	"github.com/propline/backoffice/internal/utils"
)

func TestLoginUser(t *testing.T) {
	db := testutils.TestDB(t)
	database.DB = db
	assert.NoError(t, role.SeedDefaultRoles(db))

	u := testutils.CreateTestUser(t, db, "login@example.com", "password123", "viewer")

	access, refresh, err := auth.LoginUser("login@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	parsed, err := utils.ParseJWT(access)
	assert.NoError(t, err)
	assert.Equal(t, u.ID, parsed)

	_, _, err = auth.LoginUser("login@example.com", "wrong")
	assert.Error(t, err)

	_, _, err = auth.LoginUser("nobody@example.com", "password123")
	assert.Error(t, err)
}

func TestLoginSuspendedUser(t *testing.T) {
	db := testutils.TestDB(t)
	database.DB = db
	assert.NoError(t, role.SeedDefaultRoles(db))

	u := testutils.CreateTestUser(t, db, "frozen@example.com", "password123", "viewer")
	u.Status = "suspended"
	assert.NoError(t, db.Save(u).Error)

	_, _, err := auth.LoginUser("frozen@example.com", "password123")
	assert.Error(t, err)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	db := testutils.TestDB(t)
	database.DB = db
	assert.NoError(t, role.SeedDefaultRoles(db))

	u := testutils.CreateTestUser(t, db, "rotate@example.com", "password123", "viewer")

	_, refresh, err := auth.LoginUser("rotate@example.com", "password123")
	assert.NoError(t, err)

	_, next, err := utils.RefreshTokenPair(u.ID, refresh)
	assert.NoError(t, err)
	assert.NotEqual(t, refresh, next)

	// the old token is spent
	_, _, err = utils.RefreshTokenPair(u.ID, refresh)
	assert.Error(t, err)

	// revoking kills the new one too
	assert.NoError(t, utils.RevokeAllRefreshTokens(u.ID))
	_, _, err = utils.RefreshTokenPair(u.ID, next)
	assert.Error(t, err)
}
