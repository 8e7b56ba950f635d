package database

import (
	"fmt"
	"log"

	"github.com/Kyz7/teamhub/internal/config"
	"github.com/Kyz7/teamhub/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	// TranslateError lets callers match gorm.ErrDuplicatedKey; the unique
	// constraints on assignment and role-name indexes depend on it.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	DB = db

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Organization{},
		&models.Member{},
		&models.Module{},
		&models.ModulePermission{},
		&models.OrganizationModule{},
		&models.CustomRole{},
		&models.RolePermission{},
		&models.MemberModuleRole{},
		&models.TodoList{},
		&models.TodoItem{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	log.Println("Database migrated successfully!")
	return nil
}
