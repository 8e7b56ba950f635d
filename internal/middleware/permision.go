package middleware

import (
	"errors"

	"github.com/Kyz7/teamhub/internal/database"
	"github.com/Kyz7/teamhub/internal/models"
	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/Kyz7/teamhub/internal/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PermissionProtected gates a feature route on one (resource, action) pair of
// a module. The organization comes from the :orgID route param; the caller's
// membership in it is resolved here and handed to the permission resolver.
// Denial is a plain 403 with no hint of whether the module is even enabled.
func PermissionProtected(moduleSlug, resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)

		orgID, err := c.ParamsInt("orgID")
		if err != nil {
			return response.BadRequest(c, "Invalid organization ID", nil)
		}

		member, err := memberForUser(uint(orgID), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Global admins pass even without a membership row.
				var user models.User
				if dbErr := database.DB.First(&user, userID).Error; dbErr == nil && user.IsGlobalAdmin() {
					c.Locals("organization_id", uint(orgID))
					return c.Next()
				}
				return response.Forbidden(c, "You don't have permission to perform this action")
			}
			return response.Unauthorized(c, "Unauthorized")
		}

		decision := rbac.CheckPermission(database.DB, rbac.CheckRequest{
			MemberID:       member.ID,
			OrganizationID: uint(orgID),
			ModuleSlug:     moduleSlug,
			Key:            rbac.PermissionKey{Resource: resource, Action: action},
		})
		if !decision.Allowed {
			return response.Forbidden(c, "You don't have permission to perform this action")
		}

		c.Locals("organization_id", uint(orgID))
		c.Locals("member_id", member.ID)
		return c.Next()
	}
}

// AdminGateProtected guards mutating role and module-binding routes: the
// caller must be a global admin or an owner/admin of the :orgID organization.
func AdminGateProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return response.Unauthorized(c, "User not found")
		}
		if user.IsGlobalAdmin() {
			return c.Next()
		}

		orgID, err := c.ParamsInt("orgID")
		if err != nil {
			return response.Forbidden(c, "Administrator access required")
		}

		member, err := memberForUser(uint(orgID), userID)
		if err != nil || (!member.IsOwner() && !member.IsAdmin()) {
			return response.Forbidden(c, "Administrator access required")
		}

		return c.Next()
	}
}

// GlobalAdminProtected restricts a route to platform administrators.
func GlobalAdminProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(uint)

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return response.Unauthorized(c, "User not found")
		}
		if !user.IsGlobalAdmin() {
			return response.Forbidden(c, "Administrator access required")
		}
		return c.Next()
	}
}

func memberForUser(organizationID, userID uint) (*models.Member, error) {
	var member models.Member
	err := database.DB.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}
