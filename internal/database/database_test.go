package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrate_ForeignKeysCascade(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db, zap.NewNop()))

	for _, table := range []string{"farms", "crops", "irrigation_schedules", "weather_data", "api_tokens"} {
		t.Run(table, func(t *testing.T) {
			var ddl string
			require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&ddl).Error)
			require.NotEmpty(t, ddl)

			references := strings.Count(ddl, "REFERENCES")
			assert.Positive(t, references)
			assert.Equal(t, references, strings.Count(ddl, "ON DELETE CASCADE"), ddl)
		})
	}
}

func TestConnect_InMemoryIsShared(t *testing.T) {
	db, err := Connect("sqlite::memory:")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
