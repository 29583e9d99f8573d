package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/role"
	"github.com/propline/backoffice/internal/server"
	"github.com/propline/backoffice/internal/utils"
)

func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err, "Failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Role{},
		&models.UserRoleAssignment{},
		&models.ContentType{},
		&models.ContentField{},
		&models.ContentEntry{},
		&models.BlogPost{},
		&models.Property{},
		&models.Lead{},
		&models.MediaFile{},
		&models.APIKey{},
		&models.APIKeyUsage{},
		&models.AuditEntry{},
	)
	assert.NoError(t, err, "Failed to migrate test database")

	return db
}

func SetupTestApp(t *testing.T) *fiber.App {
	db := TestDB(t)
	database.DB = db

	err := role.SeedDefaultRoles(db)
	assert.NoError(t, err, "Failed to seed roles")

	err = utils.InitLocalStorage()
	assert.NoError(t, err, "Failed to initialize storage")
	utils.SetStorageMode(true)

	app := server.New(db)
	return app
}

// CreateTestUser creates a user and assigns the named seeded roles.
func CreateTestUser(t *testing.T, db *gorm.DB, email, password string, roleNames ...string) *models.User {
	hashedPassword, err := utils.HashPassword(password)
	assert.NoError(t, err)

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: hashedPassword,
		Status:   "active",
	}
	err = db.Create(user).Error
	assert.NoError(t, err, "Failed to create test user")

	for _, name := range roleNames {
		var r models.Role
		if err := db.Where("LOWER(name) = LOWER(?)", name).First(&r).Error; err != nil {
			t.Fatalf("Failed to find role %q: %v. Make sure SeedDefaultRoles ran.", name, err)
		}
		err = db.Create(&models.UserRoleAssignment{UserID: user.ID, RoleID: r.ID, AssignedBy: user.ID}).Error
		assert.NoError(t, err, "Failed to assign role")
	}

	return user
}

// CreateLegacyUser creates a user that still carries a scalar legacy role
// and has no role assignments.
func CreateLegacyUser(t *testing.T, db *gorm.DB, email, legacyRole string) *models.User {
	hashedPassword, _ := utils.HashPassword("password123")

	user := &models.User{
		Name:       "Legacy User",
		Email:      email,
		Password:   hashedPassword,
		Status:     "active",
		LegacyRole: legacyRole,
	}
	err := db.Create(user).Error
	assert.NoError(t, err, "Failed to create legacy user")

	return user
}

func GetAuthToken(t *testing.T, userID uint) string {
	token, err := utils.GenerateJWT(userID)
	assert.NoError(t, err, "Failed to generate test token")
	return token
}

func MakeRequest(app *fiber.App, method, url string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

// MakeAPIKeyRequest calls a public endpoint with an X-API-Key header.
func MakeAPIKeyRequest(app *fiber.App, method, url, rawKey string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(method, url, nil)
	if rawKey != "" {
		req.Header.Set("X-API-Key", rawKey)
	}

	rec := httptest.NewRecorder()
	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode
	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func MakeMultipartRequestWithFile(app *fiber.App, method, url string, fields map[string]string, files map[string][]byte, token string) (*httptest.ResponseRecorder, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, val := range fields {
		writer.WriteField(key, val)
	}

	for fieldName, fileContent := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, fieldName+".jpg"))
		header.Set("Content-Type", "image/jpeg")

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, err
		}
		part.Write(fileContent)
	}

	contentType := writer.FormDataContentType()
	writer.Close()

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", contentType)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode
	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.NewDecoder(resp.Body).Decode(v)
	if err != nil && err != io.EOF {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
	Meta    *Meta        `json:"meta"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	assert.NotNil(t, result.Error, "Expected error object")
	if result.Error != nil {
		assert.Equal(t, expectedCode, result.Error.Code, "Error code mismatch")
	}
}
