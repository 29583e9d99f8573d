package role

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/permission"
	"github.com/propline/backoffice/internal/response"
)

var validate = validator.New()

type createRoleRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	DisplayName string   `json:"display_name" validate:"max=150"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

type updatePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
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

func ListPermissionsHandler(c *fiber.Ctx) error {
	return response.Success(c, permission.All(), "")
}

func CreateRoleHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	var body createRoleRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validate.Struct(&body); err != nil {
		return response.ValidationError(c, validationDetails(err))
	}

	role, err := CreateRole(actorID, body.Name, body.DisplayName, body.Permissions)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, role, "Role created")
}

func ListRolesHandler(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active_only", false)

	roles, err := ListRoles(activeOnly)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, roles, "")
}

func GetRoleHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid role ID", nil)
	}

	role, err := GetRole(uint(id))
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, role, "")
}

func UpdateRolePermissionsHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid role ID", nil)
	}

	var body updatePermissionsRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validate.Struct(&body); err != nil {
		return response.ValidationError(c, validationDetails(err))
	}

	role, err := UpdateRolePermissions(actorID, uint(id), body.Permissions)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, role, "Role permissions updated")
}

func DeactivateRoleHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid role ID", nil)
	}

	if err := DeactivateRole(actorID, uint(id)); err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, nil, "Role deactivated")
}
