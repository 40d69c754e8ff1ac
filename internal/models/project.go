package models

import "gorm.io/gorm"

type Project struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	ManagerID   uint `gorm:"not null;index"`

	// Relationships
	Manager    User   `gorm:"foreignKey:ManagerID"`
	Developers []User `gorm:"many2many:project_developers;"`
	Tasks      []Task `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// HasDeveloper reports membership against the preloaded developer set.
func (p *Project) HasDeveloper(userID uint) bool {
	for _, dev := range p.Developers {
		if dev.ID == userID {
			return true
		}
	}
	return false
}
