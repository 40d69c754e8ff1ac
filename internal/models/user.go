package models

import (
	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/types"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:developer"`

	// Relationships
	ManagedProjects []Project      `gorm:"foreignKey:ManagerID"`
	Projects        []Project      `gorm:"many2many:project_developers;"`
	AssignedTasks   []Task         `gorm:"foreignKey:AssignedTo"`
	CreatedTasks    []Task         `gorm:"foreignKey:CreatedBy"`
	AccessTokens    []AccessToken  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications   []Notification `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (u *User) IsAdmin() bool {
	return u.Role == types.RoleAdmin
}

// IsManager reports whether the user holds manager-level privileges.
// Admins count as managers everywhere a manager check gates an action.
func (u *User) IsManager() bool {
	return u.Role == types.RoleAdmin || u.Role == types.RoleManager
}

func (u *User) IsDeveloper() bool {
	return u.Role == types.RoleDeveloper
}
