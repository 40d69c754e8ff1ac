package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/taskforge-dev/taskforge/internal/models"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.AccessToken{},
		&models.Project{},
		&models.Task{},
		&models.Notification{},
	}

	for _, model := range models {
		if err := DB.AutoMigrate(model); err != nil {
			return err
		}
	}

	return nil
}
