package server_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propline/backoffice/internal/apikey"
	"github.com/propline/backoffice/internal/blog"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/testutils"
)

func TestHealthCheck(t *testing.T) {
	app := testutils.SetupTestApp(t)

	resp, err := testutils.MakeRequest(app, "GET", "/health", nil, "")
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)
}

func TestRoutesRequireToken(t *testing.T) {
	app := testutils.SetupTestApp(t)

	for _, url := range []string{"/users", "/roles", "/properties", "/leads", "/audit"} {
		resp, err := testutils.MakeRequest(app, "GET", url, nil, "")
		assert.NoError(t, err)
		assert.Equal(t, 401, resp.Code, "GET %s without token", url)
	}
}

func TestPermissionGuard(t *testing.T) {
	app := testutils.SetupTestApp(t)
	db := database.DB

	viewer := testutils.CreateTestUser(t, db, "viewer@example.com", "password123", "viewer")
	agent := testutils.CreateTestUser(t, db, "agent@example.com", "password123", "agent")

	body := map[string]interface{}{
		"title":        "Canal House",
		"address":      "Keizersgracht 1",
		"city":         "Amsterdam",
		"price":        750000,
		"listing_type": "sale",
	}

	// viewer can read but not create
	resp, err := testutils.MakeRequest(app, "POST", "/properties", body, testutils.GetAuthToken(t, viewer.ID))
	assert.NoError(t, err)
	assert.Equal(t, 403, resp.Code)
	testutils.AssertError(t, resp, "FORBIDDEN")

	resp, err = testutils.MakeRequest(app, "GET", "/properties", nil, testutils.GetAuthToken(t, viewer.ID))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	// agent can create
	resp, err = testutils.MakeRequest(app, "POST", "/properties", body, testutils.GetAuthToken(t, agent.ID))
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.Code)
	testutils.AssertSuccess(t, resp)
}

func TestLoginFlow(t *testing.T) {
	app := testutils.SetupTestApp(t)
	db := database.DB

	testutils.CreateTestUser(t, db, "login@example.com", "password123", "viewer")

	resp, err := testutils.MakeRequest(app, "POST", "/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "password123",
	}, "")
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	var result testutils.StandardResponse
	testutils.ParseResponse(t, resp, &result)
	data := result.Data.(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	resp, err = testutils.MakeRequest(app, "POST", "/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "wrong",
	}, "")
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.Code)
}

func TestPublicBlogRequiresAPIKey(t *testing.T) {
	app := testutils.SetupTestApp(t)
	db := database.DB

	admin := testutils.CreateTestUser(t, db, "admin@example.com", "password123", "admin")

	post := models.BlogPost{
		Title:    "Neighborhood Guide",
		Slug:     "neighborhood-guide",
		Body:     "body",
		Status:   models.StatusPublished,
		AuthorID: admin.ID,
	}
	assert.NoError(t, db.Create(&post).Error)

	// no key
	resp, err := testutils.MakeAPIKeyRequest(app, "GET", "/public/blog/neighborhood-guide", "")
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.Code)

	// bad key
	resp, err = testutils.MakeAPIKeyRequest(app, "GET", "/public/blog/neighborhood-guide", "pl_totally-wrong")
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.Code)

	_, raw, err := apikey.CreateKey(admin.ID, "portal", admin.ID)
	assert.NoError(t, err)

	resp, err = testutils.MakeAPIKeyRequest(app, "GET", "/public/blog/neighborhood-guide", raw)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)

	// each authenticated call was metered
	var count int64
	db.Model(&models.APIKeyUsage{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPublicBlogHidesDrafts(t *testing.T) {
	app := testutils.SetupTestApp(t)
	db := database.DB

	admin := testutils.CreateTestUser(t, db, "admin@example.com", "password123", "admin")
	_, err := blog.CreatePost(admin.ID, "Work In Progress", "body", "", nil)
	assert.NoError(t, err)

	_, raw, err := apikey.CreateKey(admin.ID, "portal", admin.ID)
	assert.NoError(t, err)

	resp, err := testutils.MakeAPIKeyRequest(app, "GET", "/public/blog/work-in-progress", raw)
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.Code)
	testutils.AssertError(t, resp, "NOT_FOUND")
}
