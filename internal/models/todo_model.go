package models

import (
	"time"

	"gorm.io/gorm"
)

type TodoList struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"index" json:"organization_id"`
	Name           string         `gorm:"size:150" json:"name"`
	Description    string         `json:"description"`
	CreatedBy      uint           `json:"created_by"`
	Items          []TodoItem     `gorm:"foreignKey:TodoListID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

type TodoItem struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TodoListID    uint       `gorm:"index" json:"todo_list_id"`
	Title         string     `gorm:"size:200" json:"title"`
	Notes         string     `json:"notes,omitempty"`
	IsCompleted   bool       `gorm:"default:false" json:"is_completed"`
	CompletedBy   *uint      `json:"completed_by,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	AttachmentURL string     `json:"attachment_url,omitempty"`
	CreatedBy     uint       `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
