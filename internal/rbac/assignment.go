package rbac

import (
	"errors"
	"time"

	"github.com/Kyz7/teamhub/internal/models"
	"gorm.io/gorm"
)

// AssignRoleToMember creates one assignment edge. Assigning a role the member
// already holds is a Conflict, never a silent success, and the role's binding
// must live in the member's own organization.
func AssignRoleToMember(db *gorm.DB, memberID, customRoleID, assignedBy uint) error {
	var role models.CustomRole
	if err := db.First(&role, customRoleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("custom role")
		}
		return err
	}

	var binding models.OrganizationModule
	if err := db.First(&binding, role.OrganizationModuleID).Error; err != nil {
		return err
	}

	var member models.Member
	if err := db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("member")
		}
		return err
	}

	if member.OrganizationID != binding.OrganizationID {
		return invariantf("member belongs to a different organization than role %q", role.Name)
	}

	var existing models.MemberModuleRole
	err := db.Where("member_id = ? AND custom_role_id = ?", memberID, customRoleID).
		First(&existing).Error
	if err == nil {
		return conflictf("member already holds role %q", role.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	assignment := models.MemberModuleRole{
		MemberID:     memberID,
		CustomRoleID: customRoleID,
		AssignedBy:   assignedBy,
		AssignedAt:   time.Now(),
	}
	if err := db.Create(&assignment).Error; err != nil {
		// The unique index on (member_id, custom_role_id) is the real guard
		// against a duplicate-assign race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return conflictf("member already holds role %q", role.Name)
		}
		return err
	}
	return nil
}

// RemoveRoleFromMember deletes the assignment edge. Removing an edge that is
// already gone succeeds: "already removed" is what the caller wanted.
func RemoveRoleFromMember(db *gorm.DB, memberID, customRoleID uint) error {
	return db.Where("member_id = ? AND custom_role_id = ?", memberID, customRoleID).
		Delete(&models.MemberModuleRole{}).Error
}

func ListMemberRoles(db *gorm.DB, memberID uint) ([]models.MemberModuleRole, error) {
	var assignments []models.MemberModuleRole
	err := db.Preload("CustomRole.Permissions.ModulePermission").
		Where("member_id = ?", memberID).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
