package module

import (
	"errors"

	"github.com/Kyz7/teamhub/internal/models"
	"gorm.io/gorm"
)

const TodolistSlug = "todolist"

var todolistPermissions = []PermissionSeed{
	{Resource: "todolist", Action: "view", Description: "View todo lists"},
	{Resource: "todolist", Action: "create", Description: "Create todo lists"},
	{Resource: "todolist", Action: "update", Description: "Update todo lists"},
	{Resource: "todolist", Action: "delete", Description: "Delete todo lists"},
	{Resource: "todolist", Action: "manage", Description: "Manage todo list settings"},
	{Resource: "todoitem", Action: "view", Description: "View todo items"},
	{Resource: "todoitem", Action: "create", Description: "Create todo items"},
	{Resource: "todoitem", Action: "update", Description: "Update todo items"},
	{Resource: "todoitem", Action: "delete", Description: "Delete todo items"},
	{Resource: "todoitem", Action: "complete", Description: "Complete todo items"},
}

// SeedTodolistModule registers the todolist module and its permission catalog.
// Safe to rerun on every startup.
func SeedTodolistModule(db *gorm.DB) error {
	var mod models.Module
	err := db.Where("slug = ?", TodolistSlug).First(&mod).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_, err := CreateModule(db, "Todo Lists", TodolistSlug,
			"Shared todo lists for teams", "checklist", todolistPermissions)
		return err
	}
	if err != nil {
		return err
	}

	// Module exists; backfill any catalog entries added since.
	for _, p := range todolistPermissions {
		var existing models.ModulePermission
		result := db.Where("module_id = ? AND resource = ? AND action = ?",
			mod.ID, p.Resource, p.Action).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			perm := models.ModulePermission{
				ModuleID:    mod.ID,
				Resource:    p.Resource,
				Action:      p.Action,
				Description: p.Description,
			}
			if err := db.Create(&perm).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
