package db

import (
	"fmt"

	"gorm.io/gorm"

	"invitation-canvas-editor/internal/domain"
)

// Migrate creates the users table and one record table per collection.
// Index names carry the table name because gorm derives them from the model, not the table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return err
	}

	for _, c := range domain.Collections() {
		table := string(c)
		if err := db.Table(table).AutoMigrate(&domain.Record{}); err != nil {
			return fmt.Errorf("migrate %s: %w", table, err)
		}
		stmts := []string{
			fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_slug ON %s (slug)", table, table),
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_user_id ON %s (user_id)", table, table),
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index %s: %w", table, err)
			}
		}
	}
	return nil
}
