package lead

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/response"
)

var validate = validator.New()

type createLeadRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"max=30"`
	Source     string `json:"source" validate:"omitempty,oneof=portal website referral walk_in"`
	PropertyID *uint  `json:"property_id"`
	Notes      string `json:"notes"`
}

type updateStageRequest struct {
	Stage string `json:"stage" validate:"required"`
	Notes string `json:"notes"`
}

type assignLeadRequest struct {
	AssigneeID uint `json:"assignee_id" validate:"required"`
}

func validationDetails(err error) map[string]string {
	fields := make(map[string]string)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			fields[fe.Field()] = "failed on " + fe.Tag()
		}
	}
	return fields
}

func CreateLeadHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	var body createLeadRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validate.Struct(&body); err != nil {
		return response.ValidationError(c, validationDetails(err))
	}

	l, err := CreateLead(actorID, &models.Lead{
		Name:       body.Name,
		Email:      body.Email,
		Phone:      body.Phone,
		Source:     body.Source,
		PropertyID: body.PropertyID,
		Notes:      body.Notes,
	})
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, l, "Lead created")
}

func ListLeadsHandler(c *fiber.Ctx) error {
	f := ListFilter{
		Stage: c.Query("stage"),
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 20),
	}

	if v := c.Query("assigned_to"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid assigned_to", nil)
		}
		assignee := uint(id)
		f.AssignedTo = &assignee
	}
	if v := c.Query("property_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid property_id", nil)
		}
		propertyID := uint(id)
		f.PropertyID = &propertyID
	}

	leads, total, err := ListLeads(f)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.SuccessWithMeta(c, leads, response.CalculateMeta(f.Page, f.Limit, total), "")
}

func GetLeadHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid lead ID", nil)
	}

	l, err := GetLead(uint(id))
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, l, "")
}

func UpdateStageHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid lead ID", nil)
	}

	var body updateStageRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validate.Struct(&body); err != nil {
		return response.ValidationError(c, validationDetails(err))
	}

	l, err := UpdateStage(actorID, uint(id), body.Stage, body.Notes)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, l, "Lead stage updated")
}

func AssignLeadHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid lead ID", nil)
	}

	var body assignLeadRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validate.Struct(&body); err != nil {
		return response.ValidationError(c, validationDetails(err))
	}

	l, err := AssignLead(actorID, uint(id), body.AssigneeID)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, l, "Lead assigned")
}

func DeleteLeadHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid lead ID", nil)
	}

	if err := DeleteLead(actorID, uint(id)); err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, nil, "Lead deleted")
}
