package models

import (
	"time"

	"gorm.io/datatypes"
)

type Module struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Slug        string             `gorm:"size:100;uniqueIndex" json:"slug"`
	Name        string             `gorm:"size:100" json:"name"`
	Description string             `json:"description"`
	Icon        string             `gorm:"size:100" json:"icon,omitempty"`
	IsActive    bool               `gorm:"default:true" json:"is_active"`
	Permissions []ModulePermission `gorm:"foreignKey:ModuleID" json:"permissions,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ModulePermission rows are the closed catalog of grantable capabilities for a
// module. They are append-only: deleting one would orphan RolePermission rows.
type ModulePermission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ModuleID    uint      `gorm:"uniqueIndex:idx_module_resource_action" json:"module_id"`
	Resource    string    `gorm:"size:50;uniqueIndex:idx_module_resource_action" json:"resource"`
	Action      string    `gorm:"size:50;uniqueIndex:idx_module_resource_action" json:"action"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrganizationModule binds a module to one organization and is the scope root
// for every custom role of that tenant+module pair.
type OrganizationModule struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"uniqueIndex:idx_org_module" json:"organization_id"`
	ModuleID       uint           `gorm:"uniqueIndex:idx_org_module" json:"module_id"`
	IsEnabled      bool           `gorm:"default:true" json:"is_enabled"`
	Settings       datatypes.JSON `json:"settings,omitempty"`
	AssignedBy     uint           `json:"assigned_by"`
	Module         *Module        `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
	CustomRoles    []CustomRole   `gorm:"foreignKey:OrganizationModuleID;constraint:OnDelete:CASCADE" json:"custom_roles,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
