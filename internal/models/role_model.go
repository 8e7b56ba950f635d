package models

import (
	"time"
)

const (
	PredefinedRoleAdmin  = "Admin"
	PredefinedRoleEditor = "Editor"
	PredefinedRoleViewer = "Viewer"
)

// CustomRole is a module-scoped bundle of permission grants. Predefined roles
// (Admin/Editor/Viewer) are provisioned when a module is bound to an
// organization; they can be re-granted but never renamed or deleted.
// The composite unique index on (organization_module_id, name) also closes
// the concurrent double-provisioning race.
type CustomRole struct {
	ID                   uint             `gorm:"primaryKey" json:"id"`
	OrganizationModuleID uint             `gorm:"uniqueIndex:idx_orgmodule_role_name" json:"organization_module_id"`
	Name                 string           `gorm:"size:100;uniqueIndex:idx_orgmodule_role_name" json:"name"`
	Description          string           `json:"description"`
	IsPredefined         bool             `gorm:"default:false" json:"is_predefined"`
	IsActive             bool             `gorm:"default:true" json:"is_active"`
	Permissions          []RolePermission `gorm:"foreignKey:CustomRoleID;constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// RolePermission is a grant edge. Only Granted=true rows count toward
// effective permissions; false rows are stored but never honoured.
type RolePermission struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	CustomRoleID       uint              `gorm:"uniqueIndex:idx_role_permission" json:"custom_role_id"`
	ModulePermissionID uint              `gorm:"uniqueIndex:idx_role_permission" json:"module_permission_id"`
	Granted            bool              `gorm:"default:true" json:"granted"`
	ModulePermission   *ModulePermission `gorm:"foreignKey:ModulePermissionID" json:"module_permission,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// MemberModuleRole assigns a custom role to an organization member. A member
// may hold several roles at once; their grants union additively.
type MemberModuleRole struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	MemberID     uint        `gorm:"uniqueIndex:idx_member_role" json:"member_id"`
	CustomRoleID uint        `gorm:"uniqueIndex:idx_member_role" json:"custom_role_id"`
	AssignedBy   uint        `json:"assigned_by"`
	AssignedAt   time.Time   `json:"assigned_at"`
	CustomRole   *CustomRole `gorm:"foreignKey:CustomRoleID" json:"custom_role,omitempty"`
}
