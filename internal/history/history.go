package history

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"rag-backend/internal/database"
	"rag-backend/internal/metrics"
	"rag-backend/pkg/api"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecentLimit caps how many prior turns are fetched for a user.
const RecentLimit = 4

type Store interface {
	Insert(ctx context.Context, userEmail, userQuery, botResponse string) error

	// SelectRecent returns at most RecentLimit of the user's turns from the
	// last lastMinutes minutes, oldest first. Failures yield an empty list.
	SelectRecent(ctx context.Context, userEmail string, lastMinutes int) []api.Turn
}

type GormStore struct {
	db  *gorm.DB
	now func() time.Time

	// SQLite only supports one writer at a time, so inserts are serialized
	// when the store is backed by it.
	writeMu    sync.Mutex
	serialized bool
}

func NewGormStore(db *gorm.DB) *GormStore {
	name := db.Dialector.Name()
	return &GormStore{db: db, now: time.Now, serialized: name == "sqlite" || name == "sqlite3"}
}

func (s *GormStore) Insert(ctx context.Context, userEmail, userQuery, botResponse string) error {
	record := database.HistoryRecord{
		Id:          uuid.New(),
		UserEmail:   userEmail,
		UserQuery:   userQuery,
		BotResponse: botResponse,
		Timestamp:   s.now().UTC(),
	}

	if s.serialized {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		slog.Error("error inserting chat history", "user_email", userEmail, "error", err)
		metrics.HistoryError(metrics.OpInsert)
		return fmt.Errorf("error inserting chat history: %w", err)
	}

	return nil
}

func (s *GormStore) SelectRecent(ctx context.Context, userEmail string, lastMinutes int) []api.Turn {
	var records []database.HistoryRecord
	if err := s.db.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Limit(RecentLimit).
		Find(&records).Error; err != nil {
		slog.Error("error reading chat history", "user_email", userEmail, "error", err)
		metrics.HistoryError(metrics.OpSelectRecent)
		return []api.Turn{}
	}

	slices.Reverse(records)

	cutoff := s.now().UTC().Add(-time.Duration(lastMinutes) * time.Minute)
	turns := make([]api.Turn, 0, len(records))
	for _, record := range records {
		if record.Timestamp.After(cutoff) {
			turns = append(turns, api.Turn{User: record.UserQuery, Bot: record.BotResponse})
		}
	}

	return turns
}
