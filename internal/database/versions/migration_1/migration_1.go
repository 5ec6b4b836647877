package migration_1

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// The recent-history lookup filters on user_email and sorts on timestamp, so
// the single column index from migration 0 is replaced with a composite one.
type HistoryRecord struct {
	UserEmail string    `gorm:"index:idx_history_user_time,priority:1"`
	Timestamp time.Time `gorm:"index:idx_history_user_time,priority:2"`
}

func (HistoryRecord) TableName() string {
	return "chat_history"
}

const oldIndex = "idx_chat_history_user_email"

func Migration(db *gorm.DB) error {
	if db.Migrator().HasIndex(&HistoryRecord{}, oldIndex) {
		if err := db.Migrator().DropIndex(&HistoryRecord{}, oldIndex); err != nil {
			return fmt.Errorf("error dropping %s index: %w", oldIndex, err)
		}
	}

	if err := db.Migrator().CreateIndex(&HistoryRecord{}, "idx_history_user_time"); err != nil {
		return fmt.Errorf("error creating idx_history_user_time index: %w", err)
	}

	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropIndex(&HistoryRecord{}, "idx_history_user_time"); err != nil {
		return fmt.Errorf("error dropping idx_history_user_time index: %w", err)
	}

	if err := db.Exec(fmt.Sprintf("CREATE INDEX %s ON chat_history (user_email)", oldIndex)).Error; err != nil {
		return fmt.Errorf("error restoring %s index: %w", oldIndex, err)
	}

	return nil
}
