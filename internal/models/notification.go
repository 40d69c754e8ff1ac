package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model

	UserID  uint   `gorm:"not null;index"`
	TaskID  uint   `gorm:"not null;index"`
	Type    string `gorm:"not null"` // e.g. "task_assigned"
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"`
	ReadAt  *time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
