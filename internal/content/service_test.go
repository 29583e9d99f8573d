package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/content"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/role"
	"github.com/propline/backoffice/internal/testutils"
	"github.com/propline/backoffice/internal/workflow"
)

func setupContent(t *testing.T) (*gorm.DB, *models.User) {
	db := testutils.TestDB(t)
	database.DB = db
	assert.NoError(t, role.SeedDefaultRoles(db))

	editor := testutils.CreateTestUser(t, db, "editor@example.com", "password123", "editor")
	return db, editor
}

func articleType(t *testing.T, editorID uint) *models.ContentType {
	ct, err := content.CreateContentType(editorID, "Article", "article", []models.ContentField{
		{Name: "title", Type: "string", Required: true},
		{Name: "reference", Type: "string", Unique: true},
	})
	assert.NoError(t, err)
	return ct
}

func TestCreateEntry(t *testing.T) {
	_, editor := setupContent(t)
	ct := articleType(t, editor.ID)

	entry, err := content.CreateEntry(editor.ID, ct.ID, map[string]interface{}{
		"title": "First Post",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusDraft, entry.Status)
	assert.Equal(t, "First Post", entry.DataMap()["title"])
}

func TestCreateEntryValidates(t *testing.T) {
	_, editor := setupContent(t)
	ct := articleType(t, editor.ID)

	_, err := content.CreateEntry(editor.ID, ct.ID, map[string]interface{}{})
	var valErr *apperr.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "title")
}

func TestUniqueFieldAcrossEntries(t *testing.T) {
	_, editor := setupContent(t)
	ct := articleType(t, editor.ID)

	first, err := content.CreateEntry(editor.ID, ct.ID, map[string]interface{}{
		"title":     "First",
		"reference": "REF-1",
	})
	assert.NoError(t, err)

	_, err = content.CreateEntry(editor.ID, ct.ID, map[string]interface{}{
		"title":     "Second",
		"reference": "REF-1",
	})
	var valErr *apperr.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "reference")

	// updating an entry does not collide with itself
	_, err = content.UpdateEntry(editor.ID, first.ID, map[string]interface{}{
		"title":     "First, revised",
		"reference": "REF-1",
	})
	assert.NoError(t, err)
}

func TestUpdateEntryKeepsStatus(t *testing.T) {
	_, editor := setupContent(t)
	ct := articleType(t, editor.ID)

	entry, err := content.CreateEntry(editor.ID, ct.ID, map[string]interface{}{"title": "Stays Draft"})
	assert.NoError(t, err)

	_, err = workflow.SubmitForReview(editor.ID, entry.ID, "")
	assert.NoError(t, err)

	updated, err := content.UpdateEntry(editor.ID, entry.ID, map[string]interface{}{"title": "Edited"})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusInReview, updated.Status)
	assert.Equal(t, "Edited", updated.DataMap()["title"])
}

func TestArchivedEntriesHiddenByDefault(t *testing.T) {
	db, editor := setupContent(t)
	ct := articleType(t, editor.ID)

	publisher := testutils.CreateTestUser(t, db, "publisher@example.com", "password123", "publisher")

	entry, err := content.CreateEntry(editor.ID, ct.ID, map[string]interface{}{"title": "Soon Gone"})
	assert.NoError(t, err)
	_, err = workflow.Archive(publisher.ID, entry.ID, "")
	assert.NoError(t, err)

	_, err = content.GetEntry(entry.ID, false)
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	found, err := content.GetEntry(entry.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusArchived, found.Status)

	_, total, err := content.ListEntries(content.ListFilter{ContentTypeID: ct.ID})
	assert.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = content.ListEntries(content.ListFilter{ContentTypeID: ct.ID, IncludeArchived: true})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestDeleteEntrySoftDeletes(t *testing.T) {
	db, editor := setupContent(t)
	ct := articleType(t, editor.ID)

	entry, err := content.CreateEntry(editor.ID, ct.ID, map[string]interface{}{"title": "Removed"})
	assert.NoError(t, err)

	assert.NoError(t, content.DeleteEntry(editor.ID, entry.ID))

	_, err = content.GetEntry(entry.ID, false)
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	// still on disk for the unscoped read path
	var count int64
	db.Unscoped().Model(&models.ContentEntry{}).Where("id = ?", entry.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddField(t *testing.T) {
	_, editor := setupContent(t)
	ct := articleType(t, editor.ID)

	f, err := content.AddField(editor.ID, ct.ID, models.ContentField{Name: "summary", Type: "text"})
	assert.NoError(t, err)
	assert.Equal(t, ct.ID, f.ContentTypeID)

	fresh, err := content.GetContentType(ct.ID)
	assert.NoError(t, err)
	assert.Len(t, fresh.Fields, 3)

	_, err = content.AddField(editor.ID, 9999, models.ContentField{Name: "x", Type: "string"})
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
