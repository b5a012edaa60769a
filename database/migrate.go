package database

import (
	"fmt"

	"github.com/RigelNana/edubridge/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table. Order matters: referenced
// tables first so foreign keys can be created.
func AutoMigrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.UserSkill{},
		&models.Task{},
		&models.TaskDomain{},
		&models.Submission{},
		&models.File{},
		&models.PortfolioEntry{},
		&models.EduPointsTransaction{},
	}
	for _, t := range tables {
		if err := db.AutoMigrate(t); err != nil {
			return fmt.Errorf("auto migrate %T: %w", t, err)
		}
	}
	return nil
}
