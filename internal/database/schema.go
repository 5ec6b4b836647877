package database

import (
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is one completed chat turn for a signed-in user.
type HistoryRecord struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserEmail   string    `gorm:"not null;index:idx_history_user_time,priority:1"`
	UserQuery   string    `gorm:"not null"`
	BotResponse string    `gorm:"not null"`
	Timestamp   time.Time `gorm:"not null;index:idx_history_user_time,priority:2"`
}

func (HistoryRecord) TableName() string {
	return "chat_history"
}
