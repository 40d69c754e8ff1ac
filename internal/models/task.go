package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Priority    string    `gorm:"not null"`
	Status      string    `gorm:"not null;default:pending"`
	Deadline    time.Time `gorm:"not null"`
	ProjectID   uint      `gorm:"not null;index"`
	AssignedTo  uint      `gorm:"not null;index"`
	CreatedBy   uint      `gorm:"not null;index"`

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID"`
	Assignee User    `gorm:"foreignKey:AssignedTo"`
	Creator  User    `gorm:"foreignKey:CreatedBy"`
}
