package property_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/property"
	"github.com/propline/backoffice/internal/role"
	"github.com/propline/backoffice/internal/testutils"
)

func setupProperties(t *testing.T) (*gorm.DB, *models.User) {
	db := testutils.TestDB(t)
	database.DB = db
	assert.NoError(t, role.SeedDefaultRoles(db))

	agent := testutils.CreateTestUser(t, db, "agent@example.com", "password123", "agent")
	return db, agent
}

func newListing(title, city string, price float64) *models.Property {
	return &models.Property{
		Title:       title,
		Address:     "Main Street 1",
		City:        city,
		Price:       price,
		ListingType: "sale",
	}
}

func TestCreateProperty(t *testing.T) {
	db, agent := setupProperties(t)

	p, err := property.CreateProperty(agent.ID, newListing("Canal House", "Amsterdam", 750000))
	assert.NoError(t, err)
	assert.Equal(t, "available", p.ListingStatus)
	assert.Equal(t, agent.ID, p.CreatedBy)

	var trail models.AuditEntry
	err = db.Where("target_type = ? AND target_id = ?", "property", fmt.Sprint(p.ID)).First(&trail).Error
	assert.NoError(t, err)
}

func TestCreatePropertyValidation(t *testing.T) {
	_, agent := setupProperties(t)

	_, err := property.CreateProperty(agent.ID, &models.Property{ListingType: "lease", Price: -1})
	var valErr *apperr.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "title")
	assert.Contains(t, valErr.Fields, "address")
	assert.Contains(t, valErr.Fields, "listing_type")
	assert.Contains(t, valErr.Fields, "price")
}

func TestListPropertiesFilters(t *testing.T) {
	_, agent := setupProperties(t)

	_, err := property.CreateProperty(agent.ID, newListing("Canal House", "Amsterdam", 750000))
	assert.NoError(t, err)
	_, err = property.CreateProperty(agent.ID, newListing("Harbor Flat", "Rotterdam", 320000))
	assert.NoError(t, err)

	results, total, err := property.ListProperties(property.ListFilter{City: "Amsterdam"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Canal House", results[0].Title)

	_, total, err = property.ListProperties(property.ListFilter{MaxPrice: 500000})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestUpdatePropertyPartial(t *testing.T) {
	_, agent := setupProperties(t)

	p, err := property.CreateProperty(agent.ID, newListing("Canal House", "Amsterdam", 750000))
	assert.NoError(t, err)

	status := "under_offer"
	updated, err := property.UpdateProperty(agent.ID, p.ID, property.UpdateInput{ListingStatus: &status})
	assert.NoError(t, err)
	assert.Equal(t, "under_offer", updated.ListingStatus)
	// untouched fields survive
	assert.Equal(t, "Canal House", updated.Title)
	assert.Equal(t, float64(750000), updated.Price)

	bogus := "teleported"
	_, err = property.UpdateProperty(agent.ID, p.ID, property.UpdateInput{ListingStatus: &bogus})
	var valErr *apperr.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestDeleteProperty(t *testing.T) {
	_, agent := setupProperties(t)

	p, err := property.CreateProperty(agent.ID, newListing("Canal House", "Amsterdam", 750000))
	assert.NoError(t, err)

	assert.NoError(t, property.DeleteProperty(agent.ID, p.ID))

	_, err = property.GetProperty(p.ID)
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
