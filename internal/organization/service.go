package organization

import (
	"errors"

	"github.com/Kyz7/teamhub/internal/models"
	"github.com/Kyz7/teamhub/internal/rbac"
	"gorm.io/gorm"
)

// CreateOrganization creates the org and its owner membership together.
func CreateOrganization(db *gorm.DB, name, slug, description string, ownerUserID uint) (*models.Organization, error) {
	var existing models.Organization
	if err := db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, &rbac.ConflictError{Message: "organization slug already exists"}
	}

	org := models.Organization{
		Name:        name,
		Slug:        slug,
		Description: description,
		OwnerID:     ownerUserID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		owner := models.Member{
			UserID:         ownerUserID,
			OrganizationID: org.ID,
			Role:           models.MemberRoleOwner,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &rbac.ConflictError{Message: "organization slug already exists"}
		}
		return nil, err
	}

	return &org, nil
}

func GetOrganization(db *gorm.DB, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := db.Preload("Members.User").First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &rbac.NotFoundError{Entity: "organization"}
		}
		return nil, err
	}
	return &org, nil
}

// ListOrganizationsForUser returns every organization the user is a member of.
func ListOrganizationsForUser(db *gorm.DB, userID uint) ([]models.Organization, error) {
	var orgs []models.Organization
	err := db.Joins("JOIN members ON members.organization_id = organizations.id").
		Where("members.user_id = ?", userID).
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func AddMember(db *gorm.DB, organizationID, userID uint, role string) (*models.Member, error) {
	if role != models.MemberRoleAdmin && role != models.MemberRoleMember {
		return nil, &rbac.InvariantError{Message: "role must be admin or member"}
	}

	var org models.Organization
	if err := db.First(&org, organizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &rbac.NotFoundError{Entity: "organization"}
		}
		return nil, err
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &rbac.NotFoundError{Entity: "user"}
		}
		return nil, err
	}

	var existing models.Member
	err := db.Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&existing).Error
	if err == nil {
		return nil, &rbac.ConflictError{Message: "user is already a member"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	member := models.Member{
		UserID:         userID,
		OrganizationID: organizationID,
		Role:           role,
	}
	if err := db.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &rbac.ConflictError{Message: "user is already a member"}
		}
		return nil, err
	}

	db.Preload("User").First(&member, member.ID)
	return &member, nil
}

func UpdateMemberRole(db *gorm.DB, organizationID, memberID uint, role string) error {
	if role != models.MemberRoleAdmin && role != models.MemberRoleMember {
		return &rbac.InvariantError{Message: "role must be admin or member"}
	}

	var member models.Member
	err := db.Where("id = ? AND organization_id = ?", memberID, organizationID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &rbac.NotFoundError{Entity: "member"}
	}
	if err != nil {
		return err
	}

	if member.IsOwner() {
		return &rbac.InvariantError{Message: "the organization owner's role cannot be changed"}
	}

	member.Role = role
	return db.Save(&member).Error
}

// RemoveMember drops the membership and every custom-role assignment held
// through it; stale assignment edges must not outlive the member.
func RemoveMember(db *gorm.DB, organizationID, memberID uint) error {
	var member models.Member
	err := db.Where("id = ? AND organization_id = ?", memberID, organizationID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &rbac.NotFoundError{Entity: "member"}
	}
	if err != nil {
		return err
	}

	if member.IsOwner() {
		return &rbac.InvariantError{Message: "the organization owner cannot be removed"}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", member.ID).
			Delete(&models.MemberModuleRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&member).Error
	})
}

func ListMembers(db *gorm.DB, organizationID uint) ([]models.Member, error) {
	var members []models.Member
	err := db.Preload("User").
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// GetMemberForUser resolves the membership row linking a user to an org.
func GetMemberForUser(db *gorm.DB, organizationID, userID uint) (*models.Member, error) {
	var member models.Member
	err := db.Preload("User").
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &rbac.NotFoundError{Entity: "member"}
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}
