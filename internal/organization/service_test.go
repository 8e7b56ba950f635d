package organization_test

import (
	"testing"

	"github.com/Kyz7/teamhub/internal/models"
	"github.com/Kyz7/teamhub/internal/organization"
	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/Kyz7/teamhub/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrganization(t *testing.T) {
	db := testutils.TestDB(t)
	owner := testutils.CreateTestUser(t, db, "owner@example.com", "password123", "")

	t.Run("creates org with owner membership", func(t *testing.T) {
		org, err := organization.CreateOrganization(db, "Acme", "acme", "the company", owner.ID)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, org.OwnerID)

		member, err := organization.GetMemberForUser(db, org.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MemberRoleOwner, member.Role)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		_, err := organization.CreateOrganization(db, "Acme 2", "acme", "", owner.ID)
		assert.True(t, rbac.IsConflict(err))
	})
}

func TestMembership(t *testing.T) {
	db := testutils.TestDB(t)
	owner := testutils.CreateTestUser(t, db, "owner@example.com", "password123", "")
	org, ownerMember := testutils.CreateTestOrganization(t, db, "acme", owner)
	guest := testutils.CreateTestUser(t, db, "guest@example.com", "password123", "")

	t.Run("adds a member", func(t *testing.T) {
		member, err := organization.AddMember(db, org.ID, guest.ID, models.MemberRoleMember)
		require.NoError(t, err)
		assert.Equal(t, guest.ID, member.UserID)
	})

	t.Run("adding twice conflicts", func(t *testing.T) {
		_, err := organization.AddMember(db, org.ID, guest.ID, models.MemberRoleMember)
		assert.True(t, rbac.IsConflict(err))
	})

	t.Run("owner tier cannot be handed out directly", func(t *testing.T) {
		other := testutils.CreateTestUser(t, db, "other@example.com", "password123", "")
		_, err := organization.AddMember(db, org.ID, other.ID, models.MemberRoleOwner)
		assert.True(t, rbac.IsInvariantViolation(err))
	})

	t.Run("unknown user errors", func(t *testing.T) {
		_, err := organization.AddMember(db, org.ID, 9999, models.MemberRoleMember)
		assert.True(t, rbac.IsNotFound(err))
	})

	t.Run("promotes a member to admin", func(t *testing.T) {
		member, err := organization.GetMemberForUser(db, org.ID, guest.ID)
		require.NoError(t, err)

		require.NoError(t, organization.UpdateMemberRole(db, org.ID, member.ID, models.MemberRoleAdmin))

		member, err = organization.GetMemberForUser(db, org.ID, guest.ID)
		require.NoError(t, err)
		assert.True(t, member.IsAdmin())
	})

	t.Run("owner role is immutable", func(t *testing.T) {
		err := organization.UpdateMemberRole(db, org.ID, ownerMember.ID, models.MemberRoleMember)
		assert.True(t, rbac.IsInvariantViolation(err))
	})

	t.Run("owner cannot be removed", func(t *testing.T) {
		err := organization.RemoveMember(db, org.ID, ownerMember.ID)
		assert.True(t, rbac.IsInvariantViolation(err))
	})

	t.Run("removal drops role assignments with the membership", func(t *testing.T) {
		mod := testutils.CreateTestModule(t, db, "projects", [2]string{"todolist", "view"})
		binding := testutils.BindTestModule(t, db, org, mod)
		role, err := rbac.CreateCustomRole(db, binding.ID, "Viewers", "", []uint{mod.Permissions[0].ID})
		require.NoError(t, err)

		member, err := organization.GetMemberForUser(db, org.ID, guest.ID)
		require.NoError(t, err)
		require.NoError(t, organization.UpdateMemberRole(db, org.ID, member.ID, models.MemberRoleMember))
		require.NoError(t, rbac.AssignRoleToMember(db, member.ID, role.ID, owner.ID))

		require.NoError(t, organization.RemoveMember(db, org.ID, member.ID))

		var edges int64
		require.NoError(t, db.Model(&models.MemberModuleRole{}).
			Where("member_id = ?", member.ID).Count(&edges).Error)
		assert.Zero(t, edges)

		_, err = organization.GetMemberForUser(db, org.ID, guest.ID)
		assert.True(t, rbac.IsNotFound(err))
	})

	t.Run("lists organizations for a user", func(t *testing.T) {
		orgs, err := organization.ListOrganizationsForUser(db, owner.ID)
		require.NoError(t, err)
		require.Len(t, orgs, 1)
		assert.Equal(t, org.ID, orgs[0].ID)
	})
}
