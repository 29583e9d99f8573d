package property

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/models"
	"github.com/propline/backoffice/internal/response"
)

var validate = validator.New()

type createPropertyRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description"`
	Address     string  `json:"address" validate:"required,max=255"`
	City        string  `json:"city" validate:"required,max=100"`
	PostalCode  string  `json:"postal_code" validate:"max=20"`
	Price       float64 `json:"price" validate:"gte=0"`
	Bedrooms    int     `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int     `json:"bathrooms" validate:"gte=0"`
	AreaSqm     float64 `json:"area_sqm" validate:"gte=0"`
	ListingType string  `json:"listing_type" validate:"required,oneof=sale rent"`
	AgentID     *uint   `json:"agent_id"`
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

func CreatePropertyHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	var body createPropertyRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validate.Struct(&body); err != nil {
		return response.ValidationError(c, validationDetails(err))
	}

	p, err := CreateProperty(actorID, &models.Property{
		Title:       body.Title,
		Description: body.Description,
		Address:     body.Address,
		City:        body.City,
		PostalCode:  body.PostalCode,
		Price:       body.Price,
		Bedrooms:    body.Bedrooms,
		Bathrooms:   body.Bathrooms,
		AreaSqm:     body.AreaSqm,
		ListingType: body.ListingType,
		AgentID:     body.AgentID,
	})
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, p, "Property created")
}

func ListPropertiesHandler(c *fiber.Ctx) error {
	f := ListFilter{
		City:          c.Query("city"),
		ListingType:   c.Query("listing_type"),
		ListingStatus: c.Query("listing_status"),
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", 20),
	}

	if v := c.Query("min_price"); v != "" {
		f.MinPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.Query("max_price"); v != "" {
		f.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.Query("agent_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid agent_id", nil)
		}
		agentID := uint(id)
		f.AgentID = &agentID
	}

	properties, total, err := ListProperties(f)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.SuccessWithMeta(c, properties, response.CalculateMeta(f.Page, f.Limit, total), "")
}

func GetPropertyHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid property ID", nil)
	}

	p, err := GetProperty(uint(id))
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, p, "")
}

func UpdatePropertyHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid property ID", nil)
	}

	var body UpdateInput
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	p, err := UpdateProperty(actorID, uint(id), body)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, p, "Property updated")
}

func DeletePropertyHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid property ID", nil)
	}

	if err := DeleteProperty(actorID, uint(id)); err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, nil, "Property deleted")
}
