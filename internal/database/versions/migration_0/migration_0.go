package migration_0

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoryRecord struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserEmail   string    `gorm:"not null;index"`
	UserQuery   string    `gorm:"not null"`
	BotResponse string    `gorm:"not null"`
	Timestamp   time.Time `gorm:"not null"`
}

func (HistoryRecord) TableName() string {
	return "chat_history"
}

func Migration(db *gorm.DB) error {
	if err := db.Migrator().CreateTable(&HistoryRecord{}); err != nil {
		return fmt.Errorf("error creating chat_history table: %w", err)
	}
	return nil
}
