package rbac_test

import (
	"testing"

	"github.com/Kyz7/teamhub/internal/models"
	"github.com/Kyz7/teamhub/internal/module"
	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/Kyz7/teamhub/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func grantKeys(t *testing.T, db *gorm.DB, roleID uint) []string {
	role, err := rbac.GetRole(db, roleID)
	require.NoError(t, err)

	var keys []string
	for _, grant := range role.Permissions {
		require.NotNil(t, grant.ModulePermission)
		keys = append(keys, grant.ModulePermission.Resource+"."+grant.ModulePermission.Action)
	}
	return keys
}

func TestCreatePredefinedRoles(t *testing.T) {
	db := testutils.TestDB(t)

	ownerUser := testutils.CreateTestUser(t, db, "owner@example.com", "password123", "")
	org, _ := testutils.CreateTestOrganization(t, db, "acme", ownerUser)

	require.NoError(t, module.SeedTodolistModule(db))
	mod, err := module.GetModuleBySlug(db, module.TodolistSlug)
	require.NoError(t, err)
	require.Len(t, mod.Permissions, 10)

	binding := testutils.BindTestModule(t, db, org, mod)

	roles, err := rbac.CreatePredefinedRoles(db, binding.ID, ownerUser.ID)
	require.NoError(t, err)
	require.Len(t, roles, 3)

	byName := map[string]models.CustomRole{}
	for _, r := range roles {
		assert.True(t, r.IsPredefined)
		assert.True(t, r.IsActive)
		byName[r.Name] = r
	}

	t.Run("admin gets the full catalog", func(t *testing.T) {
		keys := grantKeys(t, db, byName["Admin"].ID)
		assert.Len(t, keys, 10)
	})

	t.Run("editor gets working-set actions only", func(t *testing.T) {
		keys := grantKeys(t, db, byName["Editor"].ID)
		assert.ElementsMatch(t, []string{
			"todolist.view", "todolist.create", "todolist.update",
			"todoitem.view", "todoitem.create", "todoitem.update", "todoitem.complete",
		}, keys)
	})

	t.Run("viewer gets view actions only", func(t *testing.T) {
		keys := grantKeys(t, db, byName["Viewer"].ID)
		assert.ElementsMatch(t, []string{"todolist.view", "todoitem.view"}, keys)
	})

	t.Run("rerun is idempotent", func(t *testing.T) {
		again, err := rbac.CreatePredefinedRoles(db, binding.ID, ownerUser.ID)
		require.NoError(t, err)
		assert.Len(t, again, 3)

		var count int64
		require.NoError(t, db.Model(&models.CustomRole{}).
			Where("organization_module_id = ?", binding.ID).Count(&count).Error)
		assert.EqualValues(t, 3, count)
	})

	t.Run("sparse catalog skips unmatched template actions", func(t *testing.T) {
		sparse := testutils.CreateTestModule(t, db, "sparse",
			[2]string{"report", "view"},
		)
		sparseBinding := testutils.BindTestModule(t, db, org, sparse)

		roles, err := rbac.CreatePredefinedRoles(db, sparseBinding.ID, ownerUser.ID)
		require.NoError(t, err)
		require.Len(t, roles, 3)

		for _, r := range roles {
			keys := grantKeys(t, db, r.ID)
			assert.ElementsMatch(t, []string{"report.view"}, keys)
		}
	})

	t.Run("missing binding errors", func(t *testing.T) {
		_, err := rbac.CreatePredefinedRoles(db, 9999, ownerUser.ID)
		assert.True(t, rbac.IsNotFound(err))
	})
}

func TestCreateCustomRole(t *testing.T) {
	env := setupResolverEnv(t)

	t.Run("creates role with grants", func(t *testing.T) {
		role, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Reviewers", "can look",
			[]uint{env.mod.Permissions[0].ID, env.mod.Permissions[1].ID})
		require.NoError(t, err)
		assert.False(t, role.IsPredefined)
		assert.Len(t, role.Permissions, 2)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Reviewers", "", nil)
		assert.True(t, rbac.IsConflict(err))
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := rbac.CreateCustomRole(env.db, env.binding.ID, "", "", nil)
		assert.True(t, rbac.IsInvariantViolation(err))
	})

	t.Run("cross-module permission IDs rejected", func(t *testing.T) {
		other := testutils.CreateTestModule(t, env.db, "wiki", [2]string{"page", "view"})
		_, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Smugglers", "",
			[]uint{other.Permissions[0].ID})
		assert.True(t, rbac.IsInvariantViolation(err))
	})

	t.Run("unknown binding errors", func(t *testing.T) {
		_, err := rbac.CreateCustomRole(env.db, 9999, "Ghosts", "", nil)
		assert.True(t, rbac.IsNotFound(err))
	})
}

func TestUpdateRolePermissions(t *testing.T) {
	env := setupResolverEnv(t)

	role, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Shifting", "",
		[]uint{env.mod.Permissions[0].ID})
	require.NoError(t, err)

	t.Run("full replace swaps the grant set", func(t *testing.T) {
		err := rbac.UpdateRolePermissions(env.db, role.ID,
			[]uint{env.mod.Permissions[1].ID, env.mod.Permissions[2].ID})
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"todolist.create", "todolist.delete"},
			grantKeys(t, env.db, role.ID))
	})

	t.Run("same set applied twice is stable", func(t *testing.T) {
		set := []uint{env.mod.Permissions[1].ID, env.mod.Permissions[2].ID}
		require.NoError(t, rbac.UpdateRolePermissions(env.db, role.ID, set))
		require.NoError(t, rbac.UpdateRolePermissions(env.db, role.ID, set))

		assert.ElementsMatch(t, []string{"todolist.create", "todolist.delete"},
			grantKeys(t, env.db, role.ID))
	})

	t.Run("empty set clears all grants", func(t *testing.T) {
		require.NoError(t, rbac.UpdateRolePermissions(env.db, role.ID, nil))
		assert.Empty(t, grantKeys(t, env.db, role.ID))
	})

	t.Run("cross-module IDs rejected without partial write", func(t *testing.T) {
		require.NoError(t, rbac.UpdateRolePermissions(env.db, role.ID,
			[]uint{env.mod.Permissions[0].ID}))

		other := testutils.CreateTestModule(t, env.db, "wiki", [2]string{"page", "view"})
		err := rbac.UpdateRolePermissions(env.db, role.ID, []uint{other.Permissions[0].ID})
		assert.True(t, rbac.IsInvariantViolation(err))

		assert.ElementsMatch(t, []string{"todolist.view"}, grantKeys(t, env.db, role.ID))
	})

	t.Run("unknown role errors", func(t *testing.T) {
		err := rbac.UpdateRolePermissions(env.db, 9999, nil)
		assert.True(t, rbac.IsNotFound(err))
	})
}

func TestDeleteCustomRole(t *testing.T) {
	env := setupResolverEnv(t)
	member := env.addMember(t, "worker@example.com", "member")

	t.Run("predefined roles are protected", func(t *testing.T) {
		roles, err := rbac.CreatePredefinedRoles(env.db, env.binding.ID, env.owner.UserID)
		require.NoError(t, err)

		err = rbac.DeleteCustomRole(env.db, roles[0].ID)
		assert.True(t, rbac.IsInvariantViolation(err))
	})

	t.Run("assigned roles are protected", func(t *testing.T) {
		role, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Doomed", "",
			[]uint{env.mod.Permissions[0].ID})
		require.NoError(t, err)
		require.NoError(t, rbac.AssignRoleToMember(env.db, member.ID, role.ID, env.owner.UserID))

		err = rbac.DeleteCustomRole(env.db, role.ID)
		assert.True(t, rbac.IsInvariantViolation(err))

		// After unassignment the delete goes through, grants included.
		require.NoError(t, rbac.RemoveRoleFromMember(env.db, member.ID, role.ID))
		require.NoError(t, rbac.DeleteCustomRole(env.db, role.ID))

		_, err = rbac.GetRole(env.db, role.ID)
		assert.True(t, rbac.IsNotFound(err))

		var grants int64
		require.NoError(t, env.db.Model(&models.RolePermission{}).
			Where("custom_role_id = ?", role.ID).Count(&grants).Error)
		assert.Zero(t, grants)
	})

	t.Run("unknown role errors", func(t *testing.T) {
		err := rbac.DeleteCustomRole(env.db, 9999)
		assert.True(t, rbac.IsNotFound(err))
	})
}
