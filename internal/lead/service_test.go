package lead_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/lead"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/role"
	"github.com/propline/backoffice/internal/testutils"
)

func setupLeads(t *testing.T) (*gorm.DB, *models.User) {
	db := testutils.TestDB(t)
	database.DB = db
	assert.NoError(t, role.SeedDefaultRoles(db))

	agent := testutils.CreateTestUser(t, db, "agent@example.com", "password123", "agent")
	return db, agent
}

func TestCreateLead(t *testing.T) {
	_, agent := setupLeads(t)

	l, err := lead.CreateLead(agent.ID, &models.Lead{
		Name:  "Jamie Buyer",
		Email: "jamie@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, "new", l.Stage)
	assert.Equal(t, agent.ID, l.CreatedBy)
}

func TestCreateLeadNeedsContact(t *testing.T) {
	_, agent := setupLeads(t)

	_, err := lead.CreateLead(agent.ID, &models.Lead{Name: "No Contact"})
	var valErr *apperr.ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "email")

	// phone alone is enough
	_, err = lead.CreateLead(agent.ID, &models.Lead{Name: "Phone Only", Phone: "+31 6 1234 5678"})
	assert.NoError(t, err)
}

func TestCreateLeadUnknownProperty(t *testing.T) {
	_, agent := setupLeads(t)

	missing := uint(404)
	_, err := lead.CreateLead(agent.ID, &models.Lead{
		Name:       "Jamie Buyer",
		Email:      "jamie@example.com",
		PropertyID: &missing,
	})
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUpdateStage(t *testing.T) {
	_, agent := setupLeads(t)

	l, err := lead.CreateLead(agent.ID, &models.Lead{Name: "Jamie", Email: "j@example.com"})
	assert.NoError(t, err)

	updated, err := lead.UpdateStage(agent.ID, l.ID, "viewing", "booked Saturday")
	assert.NoError(t, err)
	assert.Equal(t, "viewing", updated.Stage)
	assert.Equal(t, "booked Saturday", updated.Notes)

	_, err = lead.UpdateStage(agent.ID, l.ID, "stalled", "")
	var valErr *apperr.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestAssignLead(t *testing.T) {
	db, agent := setupLeads(t)
	colleague := testutils.CreateTestUser(t, db, "colleague@example.com", "password123", "agent")

	l, err := lead.CreateLead(agent.ID, &models.Lead{Name: "Jamie", Email: "j@example.com"})
	assert.NoError(t, err)

	assigned, err := lead.AssignLead(agent.ID, l.ID, colleague.ID)
	assert.NoError(t, err)
	assert.Equal(t, colleague.ID, *assigned.AssignedTo)

	_, err = lead.AssignLead(agent.ID, l.ID, 9999)
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestListLeadsByStage(t *testing.T) {
	_, agent := setupLeads(t)

	a, err := lead.CreateLead(agent.ID, &models.Lead{Name: "A", Email: "a@example.com"})
	assert.NoError(t, err)
	_, err = lead.CreateLead(agent.ID, &models.Lead{Name: "B", Email: "b@example.com"})
	assert.NoError(t, err)

	_, err = lead.UpdateStage(agent.ID, a.ID, "won", "")
	assert.NoError(t, err)

	leads, total, err := lead.ListLeads(lead.ListFilter{Stage: "won"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.ID, leads[0].ID)
}

func TestDeleteLead(t *testing.T) {
	_, agent := setupLeads(t)

	l, err := lead.CreateLead(agent.ID, &models.Lead{Name: "Jamie", Email: "j@example.com"})
	assert.NoError(t, err)

	assert.NoError(t, lead.DeleteLead(agent.ID, l.ID))

	_, err = lead.GetLead(l.ID)
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
