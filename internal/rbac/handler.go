package rbac

import (
	"github.com/Kyz7/teamhub/internal/database"
	"github.com/Kyz7/teamhub/internal/response"
	"github.com/gofiber/fiber/v2"
)

func domainError(c *fiber.Ctx, err error) error {
	switch {
	case IsNotFound(err):
		return response.Error(c, fiber.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case IsConflict(err):
		return response.Conflict(c, err.Error())
	case IsInvariantViolation(err):
		return response.Error(c, fiber.StatusUnprocessableEntity, "INVARIANT_VIOLATION", err.Error(), nil)
	default:
		return response.InternalError(c, "Operation failed")
	}
}

func CreateCustomRoleHandler(c *fiber.Ctx) error {
	bindingID, err := c.ParamsInt("bindingID")
	if err != nil {
		return response.BadRequest(c, "Invalid binding ID", nil)
	}

	var body struct {
		Name          string `json:"name"`
		Description   string `json:"description"`
		PermissionIDs []uint `json:"permission_ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.Name == "" {
		return response.ValidationError(c, map[string]string{
			"name": "role name is required",
		})
	}

	role, err := CreateCustomRole(database.DB, uint(bindingID), body.Name, body.Description, body.PermissionIDs)
	if err != nil {
		return domainError(c, err)
	}
	return response.Created(c, role, "Role created successfully")
}

func ListRolesHandler(c *fiber.Ctx) error {
	bindingID, err := c.ParamsInt("bindingID")
	if err != nil {
		return response.BadRequest(c, "Invalid binding ID", nil)
	}

	roles, err := ListRoles(database.DB, uint(bindingID))
	if err != nil {
		return response.InternalError(c, "Failed to fetch roles")
	}
	return response.Success(c, roles, "Roles retrieved successfully")
}

func GetRoleHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid role ID", nil)
	}

	role, err := GetRole(database.DB, uint(id))
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, role, "Role retrieved successfully")
}

// UpdateRolePermissionsHandler is full-replace: the body carries the complete
// desired permission set, not a patch.
func UpdateRolePermissionsHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid role ID", nil)
	}

	var body struct {
		PermissionIDs []uint `json:"permission_ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if err := UpdateRolePermissions(database.DB, uint(id), body.PermissionIDs); err != nil {
		return domainError(c, err)
	}

	role, err := GetRole(database.DB, uint(id))
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, role, "Role permissions updated successfully")
}

func DeleteRoleHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid role ID", nil)
	}

	if err := DeleteCustomRole(database.DB, uint(id)); err != nil {
		return domainError(c, err)
	}
	return response.NoContent(c)
}

func AssignRoleHandler(c *fiber.Ctx) error {
	var body struct {
		MemberID     uint `json:"member_id"`
		CustomRoleID uint `json:"custom_role_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.MemberID == 0 || body.CustomRoleID == 0 {
		return response.ValidationError(c, map[string]string{
			"member_id":      "member_id is required",
			"custom_role_id": "custom_role_id is required",
		})
	}

	assignedBy := c.Locals("user_id").(uint)
	if err := AssignRoleToMember(database.DB, body.MemberID, body.CustomRoleID, assignedBy); err != nil {
		return domainError(c, err)
	}
	return response.Success(c, nil, "Role assigned successfully")
}

func UnassignRoleHandler(c *fiber.Ctx) error {
	var body struct {
		MemberID     uint `json:"member_id"`
		CustomRoleID uint `json:"custom_role_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if err := RemoveRoleFromMember(database.DB, body.MemberID, body.CustomRoleID); err != nil {
		return response.InternalError(c, "Failed to remove role")
	}
	return response.NoContent(c)
}

func CheckPermissionHandler(c *fiber.Ctx) error {
	var body struct {
		MemberID       uint   `json:"member_id"`
		OrganizationID uint   `json:"organization_id"`
		ModuleSlug     string `json:"module_slug"`
		Resource       string `json:"resource"`
		Action         string `json:"action"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	decision := CheckPermission(database.DB, CheckRequest{
		MemberID:       body.MemberID,
		OrganizationID: body.OrganizationID,
		ModuleSlug:     body.ModuleSlug,
		Key:            PermissionKey{Resource: body.Resource, Action: body.Action},
	})
	return response.Success(c, decision, "Permission checked")
}

func CheckPermissionsHandler(c *fiber.Ctx) error {
	var body struct {
		MemberID       uint            `json:"member_id"`
		OrganizationID uint            `json:"organization_id"`
		ModuleSlug     string          `json:"module_slug"`
		Permissions    []PermissionKey `json:"permissions"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	results := CheckPermissions(database.DB, body.MemberID, body.OrganizationID, body.ModuleSlug, body.Permissions)
	return response.Success(c, results, "Permissions checked")
}

func GetMemberPermissionsHandler(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("memberID")
	if err != nil {
		return response.BadRequest(c, "Invalid member ID", nil)
	}
	organizationID, err := c.ParamsInt("orgID")
	if err != nil {
		return response.BadRequest(c, "Invalid organization ID", nil)
	}
	moduleSlug := c.Query("module")
	if moduleSlug == "" {
		return response.ValidationError(c, map[string]string{
			"module": "module is required",
		})
	}

	perms, err := GetMemberPermissions(database.DB, uint(memberID), uint(organizationID), moduleSlug)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, perms, "Member permissions retrieved")
}
