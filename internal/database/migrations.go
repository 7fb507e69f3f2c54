package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate
// creates. Postgres only; other drivers rely on the tag-declared indexes.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task listing and assignee lookups
		{"tasks", "idx_tasks_project_status", "project_id, status"},
		{"tasks", "idx_tasks_assignee_user_id", "assignee_user_id"},
		{"tasks", "idx_tasks_created_at", "created_at"},

		// Membership pair lookups
		{"project_members", "idx_project_members_project_id", "project_id"},
		{"project_members", "idx_project_members_user_uid", "user_uid"},

		// Project listing by owner
		{"projects", "idx_projects_owner_uid", "owner_uid"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
