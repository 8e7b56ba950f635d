package todolist

import (
	"errors"
	"time"

	"github.com/Kyz7/teamhub/internal/models"
	"github.com/Kyz7/teamhub/internal/rbac"
	"github.com/Kyz7/teamhub/internal/utils"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// User-supplied text is stripped of markup before it is stored.
var sanitizer = bluemonday.StrictPolicy()

func CreateList(db *gorm.DB, organizationID uint, name, description string, createdBy uint) (*models.TodoList, error) {
	list := models.TodoList{
		OrganizationID: organizationID,
		Name:           sanitizer.Sanitize(name),
		Description:    sanitizer.Sanitize(description),
		CreatedBy:      createdBy,
	}
	if err := db.Create(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func ListLists(db *gorm.DB, organizationID uint) ([]models.TodoList, error) {
	var lists []models.TodoList
	err := db.Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func GetList(db *gorm.DB, organizationID, listID uint) (*models.TodoList, error) {
	var list models.TodoList
	err := db.Preload("Items").
		Where("id = ? AND organization_id = ?", listID, organizationID).
		First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &rbac.NotFoundError{Entity: "todo list"}
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func UpdateList(db *gorm.DB, organizationID, listID uint, name, description string) (*models.TodoList, error) {
	list, err := GetList(db, organizationID, listID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		list.Name = sanitizer.Sanitize(name)
	}
	list.Description = sanitizer.Sanitize(description)
	if err := db.Save(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func DeleteList(db *gorm.DB, organizationID, listID uint) error {
	list, err := GetList(db, organizationID, listID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("todo_list_id = ?", list.ID).
			Delete(&models.TodoItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(list).Error
	})
}

func CreateItem(db *gorm.DB, organizationID, listID uint, title, notes string, dueDate *time.Time, createdBy uint) (*models.TodoItem, error) {
	if _, err := GetList(db, organizationID, listID); err != nil {
		return nil, err
	}

	item := models.TodoItem{
		TodoListID: listID,
		Title:      sanitizer.Sanitize(title),
		Notes:      sanitizer.Sanitize(notes),
		DueDate:    dueDate,
		CreatedBy:  createdBy,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func getItem(db *gorm.DB, organizationID, itemID uint) (*models.TodoItem, error) {
	var item models.TodoItem
	err := db.Joins("JOIN todo_lists ON todo_lists.id = todo_items.todo_list_id").
		Where("todo_items.id = ? AND todo_lists.organization_id = ?", itemID, organizationID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &rbac.NotFoundError{Entity: "todo item"}
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateItem(db *gorm.DB, organizationID, itemID uint, title, notes string, dueDate *time.Time) (*models.TodoItem, error) {
	item, err := getItem(db, organizationID, itemID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		item.Title = sanitizer.Sanitize(title)
	}
	item.Notes = sanitizer.Sanitize(notes)
	item.DueDate = dueDate
	if err := db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func CompleteItem(db *gorm.DB, organizationID, itemID, completedBy uint) (*models.TodoItem, error) {
	item, err := getItem(db, organizationID, itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item.IsCompleted = true
	item.CompletedBy = &completedBy
	item.CompletedAt = &now
	if err := db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func DeleteItem(db *gorm.DB, organizationID, itemID uint) error {
	item, err := getItem(db, organizationID, itemID)
	if err != nil {
		return err
	}
	if err := db.Delete(item).Error; err != nil {
		return err
	}
	dropAttachment(item.AttachmentURL)
	return nil
}

func SetItemAttachment(db *gorm.DB, organizationID, itemID uint, url string) (*models.TodoItem, error) {
	item, err := getItem(db, organizationID, itemID)
	if err != nil {
		return nil, err
	}

	previous := item.AttachmentURL
	item.AttachmentURL = url
	if err := db.Save(item).Error; err != nil {
		return nil, err
	}
	if previous != url {
		dropAttachment(previous)
	}
	return item, nil
}

// dropAttachment is best effort. The item row is already updated; a stranded
// file is a cleanup problem, not a correctness one.
func dropAttachment(url string) {
	if url == "" {
		return
	}
	if err := utils.DeleteFile(url); err != nil {
		logrus.WithError(err).WithField("url", url).Warn("failed to delete attachment")
	}
}
