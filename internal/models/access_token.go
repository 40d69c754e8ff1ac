package models

import "time"

// AccessToken is the server-side record backing an issued bearer token.
// Dropping a row revokes the token even before its JWT expiry.
type AccessToken struct {
	ID         string `gorm:"primaryKey"`
	UserID     uint   `gorm:"not null;index"`
	Name       string `gorm:"not null"`
	LastUsedAt *time.Time
	CreatedAt  time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}
