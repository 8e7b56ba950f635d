package rbac

import (
	"errors"

	"github.com/Kyz7/teamhub/internal/models"
	"gorm.io/gorm"
)

// CreatePredefinedRoles provisions the Admin/Editor/Viewer triplet for one
// organization-module binding. Safe to rerun: templates that already have a
// role by the same name are skipped, and the unique index on
// (organization_module_id, name) backstops concurrent invocations.
func CreatePredefinedRoles(db *gorm.DB, organizationModuleID uint, createdBy uint) ([]models.CustomRole, error) {
	var binding models.OrganizationModule
	if err := db.First(&binding, organizationModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("organization module")
		}
		return nil, err
	}

	var catalog []models.ModulePermission
	if err := db.Where("module_id = ?", binding.ModuleID).Find(&catalog).Error; err != nil {
		return nil, err
	}

	var created []models.CustomRole
	for _, tmpl := range predefinedTemplates {
		var existing models.CustomRole
		err := db.Where("organization_module_id = ? AND name = ?", binding.ID, tmpl.Name).
			First(&existing).Error
		if err == nil {
			created = append(created, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		role := models.CustomRole{
			OrganizationModuleID: binding.ID,
			Name:                 tmpl.Name,
			Description:          tmpl.Description,
			IsPredefined:         true,
			IsActive:             true,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&role).Error; err != nil {
				return err
			}
			for _, perm := range catalog {
				key := PermissionKey{Resource: perm.Resource, Action: perm.Action}
				if !tmpl.matches(key) {
					continue
				}
				grant := models.RolePermission{
					CustomRoleID:       role.ID,
					ModulePermissionID: perm.ID,
					Granted:            true,
				}
				if err := tx.Create(&grant).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a provisioning race; the winner's role is authoritative.
				db.Where("organization_module_id = ? AND name = ?", binding.ID, tmpl.Name).
					First(&existing)
				created = append(created, existing)
				continue
			}
			return nil, err
		}
		created = append(created, role)
	}

	return created, nil
}

func CreateCustomRole(db *gorm.DB, organizationModuleID uint, name, description string, permissionIDs []uint) (*models.CustomRole, error) {
	if name == "" {
		return nil, invariantf("role name is required")
	}

	var binding models.OrganizationModule
	if err := db.First(&binding, organizationModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("organization module")
		}
		return nil, err
	}

	var existing models.CustomRole
	if err := db.Where("organization_module_id = ? AND name = ?", binding.ID, name).
		First(&existing).Error; err == nil {
		return nil, conflictf("role %q already exists for this module", name)
	}

	if err := validatePermissionIDs(db, binding.ModuleID, permissionIDs); err != nil {
		return nil, err
	}

	role := models.CustomRole{
		OrganizationModuleID: binding.ID,
		Name:                 name,
		Description:          description,
		IsActive:             true,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&role).Error; err != nil {
			return err
		}
		for _, pid := range permissionIDs {
			grant := models.RolePermission{
				CustomRoleID:       role.ID,
				ModulePermissionID: pid,
				Granted:            true,
			}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("role %q already exists for this module", name)
		}
		return nil, err
	}

	db.Preload("Permissions.ModulePermission").First(&role, role.ID)
	return &role, nil
}

// UpdateRolePermissions replaces the role's entire grant set. Full-replace,
// not a diff: callers submit the complete desired set every time. The delete
// and inserts commit atomically so a concurrent resolver sees either the old
// set or the new one, never the gap between.
func UpdateRolePermissions(db *gorm.DB, customRoleID uint, permissionIDs []uint) error {
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

	if err := validatePermissionIDs(db, binding.ModuleID, permissionIDs); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("custom_role_id = ?", role.ID).
			Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		for _, pid := range permissionIDs {
			grant := models.RolePermission{
				CustomRoleID:       role.ID,
				ModulePermissionID: pid,
				Granted:            true,
			}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCustomRole refuses predefined roles outright and refuses roles that
// still have members assigned. The member count is re-checked inside the
// delete transaction so a concurrent assignment cannot orphan an edge row.
func DeleteCustomRole(db *gorm.DB, customRoleID uint) error {
	var role models.CustomRole
	if err := db.First(&role, customRoleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("custom role")
		}
		return err
	}

	if role.IsPredefined {
		return invariantf("predefined role %q cannot be deleted", role.Name)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var memberCount int64
		if err := tx.Model(&models.MemberModuleRole{}).
			Where("custom_role_id = ?", role.ID).
			Count(&memberCount).Error; err != nil {
			return err
		}
		if memberCount > 0 {
			return invariantf("role %q is assigned to %d member(s); unassign them first", role.Name, memberCount)
		}

		if err := tx.Where("custom_role_id = ?", role.ID).
			Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
}

func GetRole(db *gorm.DB, customRoleID uint) (*models.CustomRole, error) {
	var role models.CustomRole
	if err := db.Preload("Permissions.ModulePermission").First(&role, customRoleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("custom role")
		}
		return nil, err
	}
	return &role, nil
}

func ListRoles(db *gorm.DB, organizationModuleID uint) ([]models.CustomRole, error) {
	var roles []models.CustomRole
	err := db.Preload("Permissions.ModulePermission").
		Where("organization_module_id = ?", organizationModuleID).
		Order("is_predefined DESC, name ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// validatePermissionIDs rejects permission IDs that do not exist or belong to
// a different module than the binding. Cross-module grants are a caller bug.
func validatePermissionIDs(db *gorm.DB, moduleID uint, permissionIDs []uint) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	var count int64
	err := db.Model(&models.ModulePermission{}).
		Where("module_id = ? AND id IN ?", moduleID, permissionIDs).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count != int64(len(dedupe(permissionIDs))) {
		return invariantf("permission IDs must belong to the bound module")
	}
	return nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
