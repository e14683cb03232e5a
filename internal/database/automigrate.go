package database

import (
	"fmt"

	"gorm.io/gorm"

	"project-collab-api/internal/domain"
)

// AutoMigrate runs GORM auto-migration for all domain models. Tables, indexes
// and foreign key constraints are derived from the struct definitions in the
// domain package.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.Project{},
		&domain.ProjectMember{},
		&domain.ProjectInvitation{},
		&domain.TaskStatus{},
		&domain.Task{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}
