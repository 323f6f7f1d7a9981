package database

import (
	"fmt"

	"github.com/tracklite/project-tracker/internal/models"
	"gorm.io/gorm"
)

// AddIndexes creates the composite indexes AutoMigrate cannot express in tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Default task ordering reads priority then deadline.
		{&models.Task{}, "tasks", "idx_tasks_priority_deadline", "priority, deadline"},
		// Project detail filters by project and completion state.
		{&models.Task{}, "tasks", "idx_tasks_project_completed", "project_id, completed"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
