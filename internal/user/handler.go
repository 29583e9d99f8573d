package user

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/response"
)

var validate = validator.New()

type createUserRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	LegacyRole string `json:"legacy_role" validate:"omitempty,oneof=admin agent editor viewer"`
}

type updateUserRequest struct {
	Name   string `json:"name" validate:"omitempty,min=2,max=100"`
	Status string `json:"status" validate:"omitempty,oneof=active suspended"`
}

type assignRoleRequest struct {
	RoleID uint `json:"role_id" validate:"required"`
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

func CreateUserHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	var body createUserRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validate.Struct(&body); err != nil {
		return response.ValidationError(c, validationDetails(err))
	}

	u, err := CreateUser(actorID, body.Name, body.Email, body.Password, body.LegacyRole)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, u, "User created")
}

func ListUsersHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	users, total, err := ListUsers(page, limit)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.SuccessWithMeta(c, users, response.CalculateMeta(page, limit, total), "")
}

func GetUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	u, err := GetUser(uint(id))
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, u, "")
}

func UpdateUserHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	var body updateUserRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validate.Struct(&body); err != nil {
		return response.ValidationError(c, validationDetails(err))
	}

	u, err := UpdateUser(actorID, uint(id), body.Name, body.Status)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, u, "User updated")
}

func DeleteUserHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	if err := DeleteUser(actorID, uint(id)); err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, nil, "User deleted")
}

func AssignRoleHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	var body assignRoleRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if err := validate.Struct(&body); err != nil {
		return response.ValidationError(c, validationDetails(err))
	}

	assignment, err := AssignRole(actorID, uint(id), body.RoleID)
	if err != nil {
		return response.HandleError(c, err)
	}

	return response.Created(c, assignment, "Role assigned")
}

func RevokeRoleHandler(c *fiber.Ctx) error {
	actorID := c.Locals("user_id").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID", nil)
	}
	roleID, err := c.ParamsInt("role_id")
	if err != nil {
		return response.BadRequest(c, "Invalid role ID", nil)
	}

	if err := RevokeRole(actorID, uint(id), uint(roleID)); err != nil {
		return response.HandleError(c, err)
	}

	return response.Success(c, nil, "Role revoked")
}
