package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MemberRoleOwner  = "owner"
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

type Organization struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:150" json:"name"`
	Slug        string         `gorm:"size:150;uniqueIndex" json:"slug"`
	Description string         `json:"description"`
	OwnerID     uint           `json:"owner_id"`
	Members     []Member       `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type Member struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex:idx_member_org_user" json:"user_id"`
	OrganizationID uint      `gorm:"uniqueIndex:idx_member_org_user" json:"organization_id"`
	Role           string    `gorm:"size:20;default:'member'" json:"role"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (m *Member) IsOwner() bool {
	return m.Role == MemberRoleOwner
}

func (m *Member) IsAdmin() bool {
	return m.Role == MemberRoleAdmin
}
