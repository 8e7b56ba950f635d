package rbac

import (
	"errors"
	"sync"

	"github.com/Kyz7/teamhub/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	SourceGlobalAdmin = "global_admin"
	SourceOrgOwner    = "org_owner"
	SourceOrgAdmin    = "org_admin"
	SourceCustomRole  = "custom_role"
	SourceDefault     = "default"
)

type CheckRequest struct {
	MemberID       uint          `json:"member_id"`
	OrganizationID uint          `json:"organization_id"`
	ModuleSlug     string        `json:"module_slug"`
	Key            PermissionKey `json:"key"`
}

// Decision carries the verdict plus where in the tier chain it came from.
// Reason is for logs and audits only; it is never shown to the denied caller.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Source  string `json:"source"`
	Reason  string `json:"reason,omitempty"`
}

func allow(source string) Decision {
	return Decision{Allowed: true, Source: source}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Source: SourceDefault, Reason: reason}
}

// CheckPermission walks the tier chain: global admin, org owner, org admin,
// then custom-role grants, then default deny. Each tier short-circuits.
// Any storage error resolves to deny: the resolver fails closed, always.
func CheckPermission(db *gorm.DB, req CheckRequest) Decision {
	decision, err := resolve(db, req)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"member_id":       req.MemberID,
			"organization_id": req.OrganizationID,
			"module_slug":     req.ModuleSlug,
			"permission":      req.Key.String(),
		}).Warn("permission check failed, denying")
		return Decision{Allowed: false, Source: SourceDefault, Reason: "Error checking permission"}
	}
	return decision
}

func resolve(db *gorm.DB, req CheckRequest) (Decision, error) {
	var member models.Member
	err := db.Preload("User").
		Where("id = ? AND organization_id = ?", req.MemberID, req.OrganizationID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return deny("member not found in organization"), nil
	}
	if err != nil {
		return Decision{}, err
	}

	if member.User != nil && member.User.IsGlobalAdmin() {
		return allow(SourceGlobalAdmin), nil
	}
	if member.IsOwner() {
		return allow(SourceOrgOwner), nil
	}
	if member.IsAdmin() {
		return allow(SourceOrgAdmin), nil
	}

	binding, err := findEnabledBinding(db, req.OrganizationID, req.ModuleSlug)
	if err != nil {
		return Decision{}, err
	}
	if binding == nil {
		return deny("module not enabled for organization"), nil
	}

	roleIDs, err := scopedRoleIDs(db, member.ID, binding.ID)
	if err != nil {
		return Decision{}, err
	}
	if len(roleIDs) == 0 {
		return deny("no roles grant this permission"), nil
	}

	var grants int64
	err = db.Model(&models.RolePermission{}).
		Joins("JOIN module_permissions ON module_permissions.id = role_permissions.module_permission_id").
		Where("role_permissions.custom_role_id IN ?", roleIDs).
		Where("role_permissions.granted = ?", true).
		Where("module_permissions.resource = ? AND module_permissions.action = ?",
			req.Key.Resource, req.Key.Action).
		Count(&grants).Error
	if err != nil {
		return Decision{}, err
	}
	if grants > 0 {
		return allow(SourceCustomRole), nil
	}
	return deny("no roles grant this permission"), nil
}

func findEnabledBinding(db *gorm.DB, organizationID uint, moduleSlug string) (*models.OrganizationModule, error) {
	var binding models.OrganizationModule
	err := db.Joins("JOIN modules ON modules.id = organization_modules.module_id").
		Where("organization_modules.organization_id = ?", organizationID).
		Where("modules.slug = ?", moduleSlug).
		Where("organization_modules.is_enabled = ?", true).
		First(&binding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &binding, nil
}

// scopedRoleIDs keeps only assignments whose role lives in the resolved
// binding. A stale or cross-binding edge row must never leak a grant.
func scopedRoleIDs(db *gorm.DB, memberID, bindingID uint) ([]uint, error) {
	var assignments []models.MemberModuleRole
	if err := db.Preload("CustomRole").Where("member_id = ?", memberID).
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	var roleIDs []uint
	for _, a := range assignments {
		if a.CustomRole == nil {
			continue
		}
		if a.CustomRole.OrganizationModuleID != bindingID || !a.CustomRole.IsActive {
			continue
		}
		roleIDs = append(roleIDs, a.CustomRoleID)
	}
	return roleIDs, nil
}

// CheckPermissions evaluates every key independently and returns a flat map
// keyed by the "resource.action" string form. The checks have no ordering
// dependency between them.
func CheckPermissions(db *gorm.DB, memberID, organizationID uint, moduleSlug string, keys []PermissionKey) map[string]bool {
	results := make(map[string]bool, len(keys))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(k PermissionKey) {
			defer wg.Done()
			decision := CheckPermission(db, CheckRequest{
				MemberID:       memberID,
				OrganizationID: organizationID,
				ModuleSlug:     moduleSlug,
				Key:            k,
			})
			mu.Lock()
			results[k.String()] = decision.Allowed
			mu.Unlock()
		}(key)
	}
	wg.Wait()

	return results
}

type GrantedPermission struct {
	Resource string   `json:"resource"`
	Action   string   `json:"action"`
	Roles    []string `json:"roles"`
}

// MemberPermissions is a display/audit view of a member's effective access.
// Enforcement always goes through CheckPermission, never through this.
type MemberPermissions struct {
	IsGlobalAdmin bool                `json:"is_global_admin"`
	IsOrgOwner    bool                `json:"is_org_owner"`
	IsOrgAdmin    bool                `json:"is_org_admin"`
	Permissions   []GrantedPermission `json:"permissions"`
}

func GetMemberPermissions(db *gorm.DB, memberID, organizationID uint, moduleSlug string) (*MemberPermissions, error) {
	var member models.Member
	err := db.Preload("User").
		Where("id = ? AND organization_id = ?", memberID, organizationID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("member")
	}
	if err != nil {
		return nil, err
	}

	result := &MemberPermissions{
		IsGlobalAdmin: member.User != nil && member.User.IsGlobalAdmin(),
		IsOrgOwner:    member.IsOwner(),
		IsOrgAdmin:    member.IsAdmin(),
	}
	if result.IsGlobalAdmin || result.IsOrgOwner || result.IsOrgAdmin {
		return result, nil
	}

	binding, err := findEnabledBinding(db, organizationID, moduleSlug)
	if err != nil {
		return nil, err
	}
	if binding == nil {
		return result, nil
	}

	assignments, err := ListMemberRoles(db, member.ID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[PermissionKey]*GrantedPermission)
	var order []PermissionKey
	for _, a := range assignments {
		role := a.CustomRole
		if role == nil || role.OrganizationModuleID != binding.ID || !role.IsActive {
			continue
		}
		for _, grant := range role.Permissions {
			if !grant.Granted || grant.ModulePermission == nil {
				continue
			}
			key := PermissionKey{
				Resource: grant.ModulePermission.Resource,
				Action:   grant.ModulePermission.Action,
			}
			entry, ok := byKey[key]
			if !ok {
				entry = &GrantedPermission{Resource: key.Resource, Action: key.Action}
				byKey[key] = entry
				order = append(order, key)
			}
			entry.Roles = append(entry.Roles, role.Name)
		}
	}

	for _, key := range order {
		result.Permissions = append(result.Permissions, *byKey[key])
	}
	return result, nil
}
