package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/models"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func articleType() models.ContentType {
	return models.ContentType{
		ID:   1,
		Name: "Article",
		Slug: "article",
		Fields: []models.ContentField{
			{Name: "title", Type: "string", Required: true, MinLength: intPtr(3), MaxLength: intPtr(50)},
			{Name: "contact_email", Type: "email"},
			{Name: "website", Type: "url"},
			{Name: "price", Type: "number", MinValue: floatPtr(0), MaxValue: floatPtr(1000)},
			{Name: "featured", Type: "boolean"},
			{Name: "listed_on", Type: "date"},
			{Name: "category", Type: "string", DefaultValue: "general"},
		},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	var valErr *apperr.ValidationError
	assert.ErrorAs(t, err, &valErr)
	return valErr.Fields
}

func TestValidateRequiredField(t *testing.T) {
	err := ValidateEntryData(articleType(), map[string]interface{}{}, nil)
	fields := fieldErrors(t, err)
	assert.Equal(t, "field is required", fields["title"])
}

func TestValidateAppliesDefault(t *testing.T) {
	data := map[string]interface{}{"title": "Hello"}
	err := ValidateEntryData(articleType(), data, nil)
	assert.NoError(t, err)
	assert.Equal(t, "general", data["category"])
}

func TestValidateStringBounds(t *testing.T) {
	err := ValidateEntryData(articleType(), map[string]interface{}{"title": "ab"}, nil)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields["title"], "at least 3")

	err = ValidateEntryData(articleType(), map[string]interface{}{"title": 42}, nil)
	fields = fieldErrors(t, err)
	assert.Equal(t, "must be string", fields["title"])
}

func TestValidateEmail(t *testing.T) {
	err := ValidateEntryData(articleType(), map[string]interface{}{
		"title":         "Hello",
		"contact_email": "not-an-email",
	}, nil)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields["contact_email"], "valid email")

	err = ValidateEntryData(articleType(), map[string]interface{}{
		"title":         "Hello",
		"contact_email": "agent@example.com",
	}, nil)
	assert.NoError(t, err)
}

func TestValidateURL(t *testing.T) {
	err := ValidateEntryData(articleType(), map[string]interface{}{
		"title":   "Hello",
		"website": "not a url",
	}, nil)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields["website"], "valid URL")
}

func TestValidateNumberRange(t *testing.T) {
	err := ValidateEntryData(articleType(), map[string]interface{}{
		"title": "Hello",
		"price": float64(-5),
	}, nil)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields["price"], "at least")

	err = ValidateEntryData(articleType(), map[string]interface{}{
		"title": "Hello",
		"price": "free",
	}, nil)
	fields = fieldErrors(t, err)
	assert.Equal(t, "must be number", fields["price"])
}

func TestValidateBooleanAndDate(t *testing.T) {
	err := ValidateEntryData(articleType(), map[string]interface{}{
		"title":     "Hello",
		"featured":  "yes",
		"listed_on": "03/04/2026",
	}, nil)
	fields := fieldErrors(t, err)
	assert.Equal(t, "must be boolean", fields["featured"])
	assert.Contains(t, fields["listed_on"], "RFC3339")

	err = ValidateEntryData(articleType(), map[string]interface{}{
		"title":     "Hello",
		"featured":  true,
		"listed_on": "2026-08-29",
	}, nil)
	assert.NoError(t, err)
}

func TestValidateCollectsAllFieldErrors(t *testing.T) {
	err := ValidateEntryData(articleType(), map[string]interface{}{
		"contact_email": "bad",
		"price":         float64(99999),
	}, nil)
	fields := fieldErrors(t, err)
	assert.Len(t, fields, 3) // title, contact_email, price
}
