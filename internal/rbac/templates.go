package rbac

import "github.com/Kyz7/teamhub/internal/models"

// PermissionKey identifies one grantable capability. The "resource.action"
// string form only appears at storage and template-matching boundaries.
type PermissionKey struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

func (k PermissionKey) String() string {
	return k.Resource + "." + k.Action
}

type roleTemplate struct {
	Name        string
	Description string
	Actions     map[string]bool
}

func (t roleTemplate) matches(key PermissionKey) bool {
	return t.Actions[key.Action]
}

// Catalog entries whose action falls outside a template are skipped silently,
// so a module that defines only a subset of these actions still provisions.
var predefinedTemplates = []roleTemplate{
	{
		Name:        models.PredefinedRoleAdmin,
		Description: "Full access to every module capability",
		Actions: map[string]bool{
			"view": true, "create": true, "update": true,
			"delete": true, "manage": true, "complete": true,
		},
	},
	{
		Name:        models.PredefinedRoleEditor,
		Description: "Can view, create, update and complete, but not delete or manage",
		Actions: map[string]bool{
			"view": true, "create": true, "update": true, "complete": true,
		},
	},
	{
		Name:        models.PredefinedRoleViewer,
		Description: "Read-only access",
		Actions:     map[string]bool{"view": true},
	},
}
