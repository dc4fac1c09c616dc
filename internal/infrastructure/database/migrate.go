package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/griffinm/jotter/internal/infrastructure/database/entities"
)

// Migrate applies the schema for every entity the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.Conversation{},
		&entities.ConversationItem{},
		&entities.Task{},
		&entities.Notebook{},
		&entities.Note{},
		&entities.MessageJob{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
