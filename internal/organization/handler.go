package organization

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
	case rbac.IsConflict(err):
		return response.Conflict(c, err.Error())
	case rbac.IsInvariantViolation(err):
		return response.Error(c, fiber.StatusUnprocessableEntity, "INVARIANT_VIOLATION", err.Error(), nil)
	default:
		return response.InternalError(c, "Operation failed")
	}
}

func CreateOrganizationHandler(c *fiber.Ctx) error {
	var body struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Name == "" || body.Slug == "" {
		return response.ValidationError(c, map[string]string{
			"name": "name is required",
			"slug": "slug is required",
		})
	}

	userID := c.Locals("user_id").(uint)
	org, err := CreateOrganization(database.DB, body.Name, body.Slug, body.Description, userID)
	if err != nil {
		return domainError(c, err)
	}
	return response.Created(c, org, "Organization created successfully")
}

func ListOrganizationsHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	orgs, err := ListOrganizationsForUser(database.DB, userID)
	if err != nil {
		return response.InternalError(c, "Failed to fetch organizations")
	}
	return response.Success(c, orgs, "Organizations retrieved successfully")
}

func GetOrganizationHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("orgID")
	if err != nil {
		return response.BadRequest(c, "Invalid organization ID", nil)
	}

	org, err := GetOrganization(database.DB, uint(id))
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, org, "Organization retrieved successfully")
}

func AddMemberHandler(c *fiber.Ctx) error {
	orgID, err := c.ParamsInt("orgID")
	if err != nil {
		return response.BadRequest(c, "Invalid organization ID", nil)
	}

	var body struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.UserID == 0 {
		return response.ValidationError(c, map[string]string{
			"user_id": "user_id is required",
		})
	}
	if body.Role == "" {
		body.Role = "member"
	}

	member, err := AddMember(database.DB, uint(orgID), body.UserID, body.Role)
	if err != nil {
		return domainError(c, err)
	}
	return response.Created(c, member, "Member added successfully")
}

func UpdateMemberHandler(c *fiber.Ctx) error {
	orgID, err := c.ParamsInt("orgID")
	if err != nil {
		return response.BadRequest(c, "Invalid organization ID", nil)
	}
	memberID, err := c.ParamsInt("memberID")
	if err != nil {
		return response.BadRequest(c, "Invalid member ID", nil)
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if err := UpdateMemberRole(database.DB, uint(orgID), uint(memberID), body.Role); err != nil {
		return domainError(c, err)
	}
	return response.Success(c, nil, "Member role updated successfully")
}

func RemoveMemberHandler(c *fiber.Ctx) error {
	orgID, err := c.ParamsInt("orgID")
	if err != nil {
		return response.BadRequest(c, "Invalid organization ID", nil)
	}
	memberID, err := c.ParamsInt("memberID")
	if err != nil {
		return response.BadRequest(c, "Invalid member ID", nil)
	}

	if err := RemoveMember(database.DB, uint(orgID), uint(memberID)); err != nil {
		return domainError(c, err)
	}
	return response.NoContent(c)
}

func ListMembersHandler(c *fiber.Ctx) error {
	orgID, err := c.ParamsInt("orgID")
	if err != nil {
		return response.BadRequest(c, "Invalid organization ID", nil)
	}

	members, err := ListMembers(database.DB, uint(orgID))
	if err != nil {
		return response.InternalError(c, "Failed to fetch members")
	}
	return response.Success(c, members, "Members retrieved successfully")
}
