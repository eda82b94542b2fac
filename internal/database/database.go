package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/h4ks-com/croptrack/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteOptions = "_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000"

// Connect opens the store named by databaseURL: empty or ":memory:" is a
// private in-memory sqlite database, "sqlite:<path>" a sqlite file, and
// anything else a postgres DSN.
func Connect(databaseURL string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}

	memory := databaseURL == "" || databaseURL == ":memory:"
	switch {
	case memory:
		db, err = gorm.Open(sqlite.Open(":memory:?_foreign_keys=1"), config)
	case strings.HasPrefix(databaseURL, "sqlite:"):
		dbPath := strings.TrimPrefix(databaseURL, "sqlite:")
		if dbPath == "" || dbPath == ":memory:" {
			memory = true
			db, err = gorm.Open(sqlite.Open(":memory:?_foreign_keys=1"), config)
		} else {
			db, err = gorm.Open(sqlite.Open(dbPath+"?"+sqliteOptions), config)
		}
	default:
		db, err = gorm.Open(postgres.Open(databaseURL), config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if memory {
		// every new connection to ":memory:" would be a fresh, empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("Running database migrations")

	err := db.AutoMigrate(
		&models.User{},
		&models.APIToken{},
		&models.Farm{},
		&models.CropType{},
		&models.Crop{},
		&models.IrrigationSchedule{},
		&models.WeatherData{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info("Database migrations completed")
	return nil
}
