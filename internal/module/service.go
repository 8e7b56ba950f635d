package module

import (
	"errors"

	"github.com/Kyz7/teamhub/internal/models"
	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PermissionSeed struct {
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

func CreateModule(db *gorm.DB, name, slug, description, icon string, permissions []PermissionSeed) (*models.Module, error) {
	var existing models.Module
	if err := db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, &rbac.ConflictError{Message: "module slug already exists"}
	}

	mod := models.Module{
		Slug:        slug,
		Name:        name,
		Description: description,
		Icon:        icon,
		IsActive:    true,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&mod).Error; err != nil {
			return err
		}
		for _, p := range permissions {
			perm := models.ModulePermission{
				ModuleID:    mod.ID,
				Resource:    p.Resource,
				Action:      p.Action,
				Description: p.Description,
			}
			if err := tx.Create(&perm).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &rbac.ConflictError{Message: "module slug already exists"}
		}
		return nil, err
	}

	db.Preload("Permissions").First(&mod, mod.ID)
	return &mod, nil
}

func ListModules(db *gorm.DB) ([]models.Module, error) {
	var modules []models.Module
	if err := db.Preload("Permissions").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func GetModuleBySlug(db *gorm.DB, slug string) (*models.Module, error) {
	var mod models.Module
	if err := db.Preload("Permissions").Where("slug = ?", slug).First(&mod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &rbac.NotFoundError{Entity: "module"}
		}
		return nil, err
	}
	return &mod, nil
}

// AssignModuleToOrganization creates the binding record and then provisions
// the predefined Admin/Editor/Viewer roles in the background. The caller gets
// the binding back immediately; until the provisioner finishes the binding is
// enabled with zero roles, which the resolver treats as plain deny.
func AssignModuleToOrganization(db *gorm.DB, organizationID, moduleID uint, settings datatypes.JSON, assignedBy uint) (*models.OrganizationModule, error) {
	var org models.Organization
	if err := db.First(&org, organizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &rbac.NotFoundError{Entity: "organization"}
		}
		return nil, err
	}

	var mod models.Module
	if err := db.First(&mod, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &rbac.NotFoundError{Entity: "module"}
		}
		return nil, err
	}

	var existing models.OrganizationModule
	err := db.Where("organization_id = ? AND module_id = ?", organizationID, moduleID).
		First(&existing).Error
	if err == nil {
		return nil, &rbac.ConflictError{Message: "module already assigned to organization"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	binding := models.OrganizationModule{
		OrganizationID: organizationID,
		ModuleID:       moduleID,
		IsEnabled:      true,
		Settings:       settings,
		AssignedBy:     assignedBy,
	}
	if err := db.Create(&binding).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &rbac.ConflictError{Message: "module already assigned to organization"}
		}
		return nil, err
	}

	go provisionPredefinedRoles(db, binding.ID, mod.Slug, assignedBy)

	return &binding, nil
}

// provisionPredefinedRoles runs after the binding commit. A failure here is
// logged and swallowed; the binding stays and the triplet can be re-created
// by rerunning provisioning, which is idempotent.
func provisionPredefinedRoles(db *gorm.DB, bindingID uint, moduleSlug string, assignedBy uint) {
	roles, err := rbac.CreatePredefinedRoles(db, bindingID, assignedBy)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"organization_module_id": bindingID,
			"module_slug":            moduleSlug,
		}).Error("predefined role provisioning failed")
		return
	}
	logrus.WithFields(logrus.Fields{
		"organization_module_id": bindingID,
		"module_slug":            moduleSlug,
		"roles":                  len(roles),
	}).Info("predefined roles provisioned")
}

// RemoveModuleFromOrganization deletes the binding and everything scoped to
// it: roles, their grants, and member assignments, in one transaction.
func RemoveModuleFromOrganization(db *gorm.DB, organizationID, moduleID uint) error {
	var binding models.OrganizationModule
	err := db.Where("organization_id = ? AND module_id = ?", organizationID, moduleID).
		First(&binding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &rbac.NotFoundError{Entity: "organization module"}
	}
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var roleIDs []uint
		if err := tx.Model(&models.CustomRole{}).
			Where("organization_module_id = ?", binding.ID).
			Pluck("id", &roleIDs).Error; err != nil {
			return err
		}

		if len(roleIDs) > 0 {
			if err := tx.Where("custom_role_id IN ?", roleIDs).
				Delete(&models.MemberModuleRole{}).Error; err != nil {
				return err
			}
			if err := tx.Where("custom_role_id IN ?", roleIDs).
				Delete(&models.RolePermission{}).Error; err != nil {
				return err
			}
			if err := tx.Where("organization_module_id = ?", binding.ID).
				Delete(&models.CustomRole{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&binding).Error
	})
}

func ListOrganizationModules(db *gorm.DB, organizationID uint) ([]models.OrganizationModule, error) {
	var bindings []models.OrganizationModule
	err := db.Preload("Module.Permissions").
		Where("organization_id = ?", organizationID).
		Find(&bindings).Error
	if err != nil {
		return nil, err
	}
	return bindings, nil
}
