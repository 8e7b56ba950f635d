package rbac_test

import (
	"testing"

	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/Kyz7/teamhub/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRoleToMember(t *testing.T) {
	env := setupResolverEnv(t)
	member := env.addMember(t, "worker@example.com", "member")

	role, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Viewers", "",
		[]uint{env.mod.Permissions[0].ID})
	require.NoError(t, err)

	t.Run("assigns once", func(t *testing.T) {
		require.NoError(t, rbac.AssignRoleToMember(env.db, member.ID, role.ID, env.owner.UserID))

		assignments, err := rbac.ListMemberRoles(env.db, member.ID)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, role.ID, assignments[0].CustomRoleID)
		assert.Equal(t, env.owner.UserID, assignments[0].AssignedBy)
	})

	t.Run("duplicate assignment conflicts", func(t *testing.T) {
		err := rbac.AssignRoleToMember(env.db, member.ID, role.ID, env.owner.UserID)
		assert.True(t, rbac.IsConflict(err))

		assignments, err := rbac.ListMemberRoles(env.db, member.ID)
		require.NoError(t, err)
		assert.Len(t, assignments, 1)
	})

	t.Run("cross-organization assignment rejected", func(t *testing.T) {
		otherOwner := testutils.CreateTestUser(t, env.db, "other@example.com", "password123", "")
		otherOrg, _ := testutils.CreateTestOrganization(t, env.db, "rivals", otherOwner)
		stranger := testutils.CreateTestUser(t, env.db, "stranger@example.com", "password123", "")
		strangerMember := testutils.AddTestMember(t, env.db, otherOrg, stranger, "member")

		err := rbac.AssignRoleToMember(env.db, strangerMember.ID, role.ID, otherOwner.ID)
		assert.True(t, rbac.IsInvariantViolation(err))
	})

	t.Run("unknown role errors", func(t *testing.T) {
		err := rbac.AssignRoleToMember(env.db, member.ID, 9999, env.owner.UserID)
		assert.True(t, rbac.IsNotFound(err))
	})

	t.Run("unknown member errors", func(t *testing.T) {
		err := rbac.AssignRoleToMember(env.db, 9999, role.ID, env.owner.UserID)
		assert.True(t, rbac.IsNotFound(err))
	})
}

func TestRemoveRoleFromMember(t *testing.T) {
	env := setupResolverEnv(t)
	member := env.addMember(t, "worker@example.com", "member")

	role, err := rbac.CreateCustomRole(env.db, env.binding.ID, "Viewers", "",
		[]uint{env.mod.Permissions[0].ID})
	require.NoError(t, err)
	require.NoError(t, rbac.AssignRoleToMember(env.db, member.ID, role.ID, env.owner.UserID))

	t.Run("removes the edge", func(t *testing.T) {
		require.NoError(t, rbac.RemoveRoleFromMember(env.db, member.ID, role.ID))

		assignments, err := rbac.ListMemberRoles(env.db, member.ID)
		require.NoError(t, err)
		assert.Empty(t, assignments)
	})

	t.Run("removing an absent edge is a no-op", func(t *testing.T) {
		assert.NoError(t, rbac.RemoveRoleFromMember(env.db, member.ID, role.ID))
	})
}
