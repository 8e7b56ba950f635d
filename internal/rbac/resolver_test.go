package rbac_test

import (
	"testing"

	"github.com/Kyz7/teamhub/internal/models"
	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/Kyz7/teamhub/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	keyView   = rbac.PermissionKey{Resource: "todolist", Action: "view"}
	keyCreate = rbac.PermissionKey{Resource: "todolist", Action: "create"}
	keyDelete = rbac.PermissionKey{Resource: "todolist", Action: "delete"}
)

// resolverEnv is one org with an enabled projects-module binding and a
// three-permission catalog.
type resolverEnv struct {
	db      *gorm.DB
	org     *models.Organization
	mod     *models.Module
	binding *models.OrganizationModule
	owner   *models.Member
}

func setupResolverEnv(t *testing.T) *resolverEnv {
	db := testutils.TestDB(t)

	ownerUser := testutils.CreateTestUser(t, db, "owner@example.com", "password123", "")
	org, ownerMember := testutils.CreateTestOrganization(t, db, "acme", ownerUser)

	mod := testutils.CreateTestModule(t, db, "projects",
		[2]string{"todolist", "view"},
		[2]string{"todolist", "create"},
		[2]string{"todolist", "delete"},
	)
	binding := testutils.BindTestModule(t, db, org, mod)

	return &resolverEnv{db: db, org: org, mod: mod, binding: binding, owner: ownerMember}
}

func (e *resolverEnv) addMember(t *testing.T, email, orgRole string) *models.Member {
	u := testutils.CreateTestUser(t, e.db, email, "password123", "")
	return testutils.AddTestMember(t, e.db, e.org, u, orgRole)
}

func (e *resolverEnv) check(member *models.Member, key rbac.PermissionKey) rbac.Decision {
	return rbac.CheckPermission(e.db, rbac.CheckRequest{
		MemberID:       member.ID,
		OrganizationID: e.org.ID,
		ModuleSlug:     e.mod.Slug,
		Key:            key,
	})
}

func TestCheckPermissionTiers(t *testing.T) {
	env := setupResolverEnv(t)

	adminUser := testutils.CreateTestUser(t, env.db, "root@example.com", "password123", "admin")
	globalAdmin := testutils.AddTestMember(t, env.db, env.org, adminUser, "member")

	orgAdmin := env.addMember(t, "orgadmin@example.com", "admin")
	plain := env.addMember(t, "plain@example.com", "member")

	t.Run("global admin wins first", func(t *testing.T) {
		d := env.check(globalAdmin, keyDelete)
		assert.True(t, d.Allowed)
		assert.Equal(t, rbac.SourceGlobalAdmin, d.Source)
	})

	t.Run("org owner wins second", func(t *testing.T) {
		d := env.check(env.owner, keyDelete)
		assert.True(t, d.Allowed)
		assert.Equal(t, rbac.SourceOrgOwner, d.Source)
	})

	t.Run("org admin wins third", func(t *testing.T) {
		d := env.check(orgAdmin, keyDelete)
		assert.True(t, d.Allowed)
		assert.Equal(t, rbac.SourceOrgAdmin, d.Source)
	})

	t.Run("plain member falls through to deny", func(t *testing.T) {
		d := env.check(plain, keyView)
		assert.False(t, d.Allowed)
		assert.Equal(t, rbac.SourceDefault, d.Source)
	})

	t.Run("unknown member denies", func(t *testing.T) {
		d := rbac.CheckPermission(env.db, rbac.CheckRequest{
			MemberID:       9999,
			OrganizationID: env.org.ID,
			ModuleSlug:     env.mod.Slug,
			Key:            keyView,
		})
		assert.False(t, d.Allowed)
	})
}

func TestCheckPermissionCustomRoleUnion(t *testing.T) {
	env := setupResolverEnv(t)
	member := env.addMember(t, "worker@example.com", "member")

	viewers, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Viewers", "", []uint{env.mod.Permissions[0].ID})
	require.NoError(t, err)
	creators, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Creators", "", []uint{env.mod.Permissions[1].ID})
	require.NoError(t, err)

	require.NoError(t, rbac.AssignRoleToMember(env.db, member.ID, viewers.ID, env.owner.UserID))
	require.NoError(t, rbac.AssignRoleToMember(env.db, member.ID, creators.ID, env.owner.UserID))

	t.Run("union of assigned roles", func(t *testing.T) {
		d := env.check(member, keyView)
		assert.True(t, d.Allowed)
		assert.Equal(t, rbac.SourceCustomRole, d.Source)

		d = env.check(member, keyCreate)
		assert.True(t, d.Allowed)
		assert.Equal(t, rbac.SourceCustomRole, d.Source)
	})

	t.Run("action no role grants stays denied", func(t *testing.T) {
		d := env.check(member, keyDelete)
		assert.False(t, d.Allowed)
		assert.Equal(t, rbac.SourceDefault, d.Source)
	})

	t.Run("inactive role stops granting", func(t *testing.T) {
		require.NoError(t, env.db.Model(viewers).Update("is_active", false).Error)
		d := env.check(member, keyView)
		assert.False(t, d.Allowed)
	})
}

func TestCheckPermissionBindingScope(t *testing.T) {
	env := setupResolverEnv(t)
	member := env.addMember(t, "worker@example.com", "member")

	// Second module bound to the same org, with an overlapping catalog.
	other := testutils.CreateTestModule(t, env.db, "wiki",
		[2]string{"todolist", "view"},
	)
	otherBinding := testutils.BindTestModule(t, env.db, env.org, other)

	role, err := rbac.CreateCustomRole(env.db, otherBinding.ID, "WikiReaders", "", []uint{other.Permissions[0].ID})
	require.NoError(t, err)
	require.NoError(t, rbac.AssignRoleToMember(env.db, member.ID, role.ID, env.owner.UserID))

	t.Run("grant in one binding never leaks into another", func(t *testing.T) {
		d := env.check(member, keyView)
		assert.False(t, d.Allowed)
	})

	t.Run("grant applies in its own binding", func(t *testing.T) {
		d := rbac.CheckPermission(env.db, rbac.CheckRequest{
			MemberID:       member.ID,
			OrganizationID: env.org.ID,
			ModuleSlug:     other.Slug,
			Key:            keyView,
		})
		assert.True(t, d.Allowed)
	})
}

func TestCheckPermissionDisabledModule(t *testing.T) {
	env := setupResolverEnv(t)
	member := env.addMember(t, "worker@example.com", "member")
	orgAdmin := env.addMember(t, "orgadmin@example.com", "admin")

	role, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Viewers", "", []uint{env.mod.Permissions[0].ID})
	require.NoError(t, err)
	require.NoError(t, rbac.AssignRoleToMember(env.db, member.ID, role.ID, env.owner.UserID))

	require.NoError(t, env.db.Model(env.binding).Update("is_enabled", false).Error)

	t.Run("role grants stop when the binding is disabled", func(t *testing.T) {
		d := env.check(member, keyView)
		assert.False(t, d.Allowed)
	})

	t.Run("org admin tier is unaffected", func(t *testing.T) {
		d := env.check(orgAdmin, keyView)
		assert.True(t, d.Allowed)
		assert.Equal(t, rbac.SourceOrgAdmin, d.Source)
	})
}

func TestCheckPermissionFailsClosed(t *testing.T) {
	env := setupResolverEnv(t)
	member := env.addMember(t, "worker@example.com", "member")

	require.NoError(t, env.db.Migrator().DropTable(&models.MemberModuleRole{}))

	d := env.check(member, keyView)
	assert.False(t, d.Allowed)
	assert.Equal(t, rbac.SourceDefault, d.Source)
	assert.Equal(t, "Error checking permission", d.Reason)
}

func TestCheckPermissionsBatch(t *testing.T) {
	env := setupResolverEnv(t)
	member := env.addMember(t, "worker@example.com", "member")

	role, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Viewers", "", []uint{env.mod.Permissions[0].ID})
	require.NoError(t, err)
	require.NoError(t, rbac.AssignRoleToMember(env.db, member.ID, role.ID, env.owner.UserID))

	results := rbac.CheckPermissions(env.db, member.ID, env.org.ID, env.mod.Slug,
		[]rbac.PermissionKey{keyView, keyCreate, keyDelete})

	require.Len(t, results, 3)
	assert.True(t, results["todolist.view"])
	assert.False(t, results["todolist.create"])
	assert.False(t, results["todolist.delete"])
}

func TestGetMemberPermissions(t *testing.T) {
	env := setupResolverEnv(t)

	t.Run("owner reports tier flag with no grant list", func(t *testing.T) {
		perms, err := rbac.GetMemberPermissions(env.db, env.owner.ID, env.org.ID, env.mod.Slug)
		require.NoError(t, err)
		assert.True(t, perms.IsOrgOwner)
		assert.Empty(t, perms.Permissions)
	})

	t.Run("member reports granting role names per key", func(t *testing.T) {
		member := env.addMember(t, "worker@example.com", "member")

		viewers, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Viewers", "", []uint{env.mod.Permissions[0].ID})
		require.NoError(t, err)
		editors, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Editors", "",
			[]uint{env.mod.Permissions[0].ID, env.mod.Permissions[1].ID})
		require.NoError(t, err)

		require.NoError(t, rbac.AssignRoleToMember(env.db, member.ID, viewers.ID, env.owner.UserID))
		require.NoError(t, rbac.AssignRoleToMember(env.db, member.ID, editors.ID, env.owner.UserID))

		perms, err := rbac.GetMemberPermissions(env.db, member.ID, env.org.ID, env.mod.Slug)
		require.NoError(t, err)
		assert.False(t, perms.IsOrgOwner)
		require.Len(t, perms.Permissions, 2)

		byKey := map[string][]string{}
		for _, p := range perms.Permissions {
			byKey[p.Resource+"."+p.Action] = p.Roles
		}
		assert.ElementsMatch(t, []string{"Viewers", "Editors"}, byKey["todolist.view"])
		assert.ElementsMatch(t, []string{"Editors"}, byKey["todolist.create"])
	})

	t.Run("unknown member errors", func(t *testing.T) {
		_, err := rbac.GetMemberPermissions(env.db, 9999, env.org.ID, env.mod.Slug)
		assert.True(t, rbac.IsNotFound(err))
	})
}
