package user

import (
	"errors"

	"github.com/Kyz7/teamhub/internal/models"
	"github.com/Kyz7/teamhub/internal/rbac"
	"gorm.io/gorm"
)

func ListUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func GetUser(db *gorm.DB, id uint) (*models.User, error) {
	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &rbac.NotFoundError{Entity: "user"}
		}
		return nil, err
	}
	u.Password = ""
	return &u, nil
}

// SetGlobalRole grants or revokes the platform-wide admin flag.
func SetGlobalRole(db *gorm.DB, id uint, role string) (*models.User, error) {
	if role != "" && role != models.GlobalRoleAdmin {
		return nil, &rbac.InvariantError{Message: "unknown global role: " + role}
	}

	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &rbac.NotFoundError{Entity: "user"}
		}
		return nil, err
	}

	u.Role = role
	if err := db.Save(&u).Error; err != nil {
		return nil, err
	}
	u.Password = ""
	return &u, nil
}

func DeleteUser(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &rbac.NotFoundError{Entity: "user"}
			}
			return err
		}

		var owned int64
		if err := tx.Model(&models.Organization{}).Where("owner_id = ?", id).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return &rbac.InvariantError{Message: "user still owns organizations"}
		}

		var memberIDs []uint
		if err := tx.Model(&models.Member{}).Where("user_id = ?", id).Pluck("id", &memberIDs).Error; err != nil {
			return err
		}
		if len(memberIDs) > 0 {
			if err := tx.Where("member_id IN ?", memberIDs).Delete(&models.MemberModuleRole{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", id).Delete(&models.Member{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
