package migration_1

import (
	"path/filepath"
	"testing"
	"time"

	"rag-backend/internal/database/versions/migration_0"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigration(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "history.db")), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, migration_0.Migration(db))
	require.NoError(t, db.Create(&migration_0.HistoryRecord{
		Id:          uuid.New(),
		UserEmail:   "jane@contoso.com",
		UserQuery:   "What is my deductible?",
		BotResponse: "$500 [benefits.pdf]",
		Timestamp:   time.Now().UTC(),
	}).Error)

	assert.True(t, db.Migrator().HasIndex(&HistoryRecord{}, oldIndex))

	require.NoError(t, Migration(db))
	assert.False(t, db.Migrator().HasIndex(&HistoryRecord{}, oldIndex))
	assert.True(t, db.Migrator().HasIndex(&HistoryRecord{}, "idx_history_user_time"))

	var count int64
	require.NoError(t, db.Table("chat_history").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, Rollback(db))
	assert.True(t, db.Migrator().HasIndex(&HistoryRecord{}, oldIndex))
	assert.False(t, db.Migrator().HasIndex(&HistoryRecord{}, "idx_history_user_time"))
}
