package user

import (
	"github.com/Kyz7/teamhub/internal/database"
	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/Kyz7/teamhub/internal/response"
	"github.com/gofiber/fiber/v2"
)

func domainError(c *fiber.Ctx, err error) error {
	switch {
	case rbac.IsNotFound(err):
		return response.Error(c, fiber.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case rbac.IsInvariantViolation(err):
		return response.Error(c, fiber.StatusUnprocessableEntity, "INVARIANT_VIOLATION", err.Error(), nil)
	default:
		return response.InternalError(c, "Something went wrong")
	}
}

func ListUsersHandler(c *fiber.Ctx) error {
	users, err := ListUsers(database.DB)
	if err != nil {
		return response.InternalError(c, "Failed to fetch users")
	}
	return response.Success(c, users, "Users retrieved successfully")
}

func GetUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	u, err := GetUser(database.DB, uint(id))
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, u, "User retrieved successfully")
}

func SetGlobalRoleHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	u, err := SetGlobalRole(database.DB, uint(id), body.Role)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, u, "User role updated successfully")
}

func DeleteUserHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid user ID", nil)
	}

	if err := DeleteUser(database.DB, uint(id)); err != nil {
		return domainError(c, err)
	}
	return response.Success(c, nil, "User deleted successfully")
}
