package module

import (
	"github.com/Kyz7/teamhub/internal/database"
	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/Kyz7/teamhub/internal/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func domainError(c *fiber.Ctx, err error) error {
	switch {
	case rbac.IsNotFound(err):
		return response.Error(c, fiber.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case rbac.IsConflict(err):
		return response.Conflict(c, err.Error())
	default:
		return response.InternalError(c, "Operation failed")
	}
}

func CreateModuleHandler(c *fiber.Ctx) error {
	var body struct {
		Name        string           `json:"name"`
		Slug        string           `json:"slug"`
		Description string           `json:"description"`
		Icon        string           `json:"icon"`
		Permissions []PermissionSeed `json:"permissions"`
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

	mod, err := CreateModule(database.DB, body.Name, body.Slug, body.Description, body.Icon, body.Permissions)
	if err != nil {
		return domainError(c, err)
	}
	return response.Created(c, mod, "Module created successfully")
}

func ListModulesHandler(c *fiber.Ctx) error {
	modules, err := ListModules(database.DB)
	if err != nil {
		return response.InternalError(c, "Failed to fetch modules")
	}
	return response.Success(c, modules, "Modules retrieved successfully")
}

func GetModuleHandler(c *fiber.Ctx) error {
	slug := c.Params("slug")
	mod, err := GetModuleBySlug(database.DB, slug)
	if err != nil {
		return domainError(c, err)
	}
	return response.Success(c, mod, "Module retrieved successfully")
}

func AssignModuleHandler(c *fiber.Ctx) error {
	orgID, err := c.ParamsInt("orgID")
	if err != nil {
		return response.BadRequest(c, "Invalid organization ID", nil)
	}

	var body struct {
		ModuleID uint           `json:"module_id"`
		Settings datatypes.JSON `json:"settings"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if body.ModuleID == 0 {
		return response.ValidationError(c, map[string]string{
			"module_id": "module_id is required",
		})
	}

	assignedBy := c.Locals("user_id").(uint)
	binding, err := AssignModuleToOrganization(database.DB, uint(orgID), body.ModuleID, body.Settings, assignedBy)
	if err != nil {
		return domainError(c, err)
	}
	return response.Created(c, binding, "Module assigned to organization")
}

func RemoveModuleHandler(c *fiber.Ctx) error {
	orgID, err := c.ParamsInt("orgID")
	if err != nil {
		return response.BadRequest(c, "Invalid organization ID", nil)
	}
	moduleID, err := c.ParamsInt("moduleID")
	if err != nil {
		return response.BadRequest(c, "Invalid module ID", nil)
	}

	if err := RemoveModuleFromOrganization(database.DB, uint(orgID), uint(moduleID)); err != nil {
		return domainError(c, err)
	}
	return response.NoContent(c)
}

func ListOrganizationModulesHandler(c *fiber.Ctx) error {
	orgID, err := c.ParamsInt("orgID")
	if err != nil {
		return response.BadRequest(c, "Invalid organization ID", nil)
	}

	bindings, err := ListOrganizationModules(database.DB, uint(orgID))
	if err != nil {
		return response.InternalError(c, "Failed to fetch organization modules")
	}
	return response.Success(c, bindings, "Organization modules retrieved")
}
