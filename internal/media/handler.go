package media

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/response"
)

func UploadHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required", nil)
	}

	var propertyID *uint
	if v := c.FormValue("property_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid property_id", nil)
		}
		pid := uint(id)
		propertyID = &pid
	}

	m, err := Upload(actorID, file, c.FormValue("alt"), propertyID)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, m, "File uploaded")
}

func ListHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	var propertyID *uint
	if v := c.Query("property_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid property_id", nil)
		}
		pid := uint(id)
		propertyID = &pid
	}

	files, total, err := List(propertyID, page, limit)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.SuccessWithMeta(c, files, response.CalculateMeta(page, limit, total), "")
}

func DeleteHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid media ID", nil)
	}

	if err := Delete(actorID, uint(id)); err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, nil, "File deleted")
}
