package content

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/authz"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/response"
)

type createContentTypeRequest struct {
	Name   string                `json:"name"`
	Slug   string                `json:"slug"`
	Fields []models.ContentField `json:"fields"`
}

type addFieldRequest struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Required     bool     `json:"required"`
	Unique       bool     `json:"unique"`
	MinLength    *int     `json:"min_length,omitempty"`
	MaxLength    *int     `json:"max_length,omitempty"`
	Pattern      string   `json:"pattern,omitempty"`
	MinValue     *float64 `json:"min_value,omitempty"`
	MaxValue     *float64 `json:"max_value,omitempty"`
	DefaultValue string   `json:"default_value,omitempty"`
}

type entryRequest struct {
	Data map[string]interface{} `json:"data"`
}

func CreateContentTypeHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	var body createContentTypeRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	fields := make(map[string]string)
	if body.Name == "" {
		fields["name"] = "name is required"
	}
	if body.Slug == "" {
		fields["slug"] = "slug is required"
	}
	if len(fields) > 0 {
		return response.ValidationError(c, fields)
	}

	ct, err := CreateContentType(actorID, body.Name, body.Slug, body.Fields)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, ct, "Content type created")
}

func ListContentTypesHandler(c *fiber.Ctx) error {
	types, err := ListContentTypes()
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, types, "")
}

func GetContentTypeHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid content type ID", nil)
	}

	ct, err := GetContentType(uint(id))
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, ct, "")
}

func AddFieldHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	contentTypeID, err := c.ParamsInt("content_type_id")
	if err != nil {
		return response.BadRequest(c, "Invalid content type ID", nil)
	}

	var body addFieldRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Name == "" || body.Type == "" {
		return response.ValidationError(c, map[string]string{
			"name": "name and type are required",
		})
	}

	field, err := AddField(actorID, uint(contentTypeID), models.ContentField{
		Name:         body.Name,
		Type:         body.Type,
		Required:     body.Required,
		Unique:       body.Unique,
		MinLength:    body.MinLength,
		MaxLength:    body.MaxLength,
		Pattern:      body.Pattern,
		MinValue:     body.MinValue,
		MaxValue:     body.MaxValue,
		DefaultValue: body.DefaultValue,
	})
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, field, "Field added")
}

func CreateEntryHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	contentTypeID, err := c.ParamsInt("content_type_id")
	if err != nil {
		return response.BadRequest(c, "Invalid content type ID", nil)
	}

	var body entryRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Data == nil {
		return response.ValidationError(c, map[string]string{"data": "data is required"})
	}

	entry, err := CreateEntry(actorID, uint(contentTypeID), body.Data)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, entry, "Entry created")
}

// canReadDeleted is checked only when the caller asks for archived or
// soft-deleted rows; the base content.read gate ran in the route chain.
func canReadDeleted(c *fiber.Ctx) bool {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return false
	}
	allowed, err := authz.HasPermission(database.DB, userID, "content.read.deleted")
	return err == nil && allowed
}

func ListEntriesHandler(c *fiber.Ctx) error {
	contentTypeID, err := c.ParamsInt("content_type_id")
	if err != nil {
		return response.BadRequest(c, "Invalid content type ID", nil)
	}

	includeArchived := c.QueryBool("include_archived", false)
	if includeArchived && !canReadDeleted(c) {
		return response.Forbidden(c, "You don't have permission to view archived entries")
	}

	entries, total, err := ListEntries(ListFilter{
		ContentTypeID:   uint(contentTypeID),
		Status:          models.EntryStatus(c.Query("status")),
		IncludeArchived: includeArchived,
		Page:            c.QueryInt("page", 1),
		Limit:           c.QueryInt("limit", 20),
	})
	if err != nil {
		return response.HandleError(c, err)
	}

	meta := response.CalculateMeta(c.QueryInt("page", 1), c.QueryInt("limit", 20), total)
	return response.SuccessWithMeta(c, entries, meta, "")
}

func GetEntryHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("entry_id")
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID", nil)
	}

	includeDeleted := c.QueryBool("include_deleted", false)
	if includeDeleted && !canReadDeleted(c) {
		return response.Forbidden(c, "You don't have permission to view deleted entries")
	}

	entry, err := GetEntry(uint(id), includeDeleted)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, entry, "")
}

func UpdateEntryHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("entry_id")
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID", nil)
	}

	var body entryRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Data == nil {
		return response.ValidationError(c, map[string]string{"data": "data is required"})
	}

	entry, err := UpdateEntry(actorID, uint(id), body.Data)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, entry, "Entry updated")
}

func DeleteEntryHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("entry_id")
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID", nil)
	}

	if err := DeleteEntry(actorID, uint(id)); err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, nil, "Entry deleted")
}
