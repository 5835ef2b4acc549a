package store

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Store wraps the GORM handle for all resume persistence.
type Store struct {
	db *gorm.DB
}

// Open connects to the database named by dsn and runs migrations.
// A postgres:// URL selects the postgres driver; anything else is treated
// as a sqlite file path.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store: empty DSN")
	}

	var dial gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dial = postgres.Open(dsn)
	} else {
		// SQLite does not enforce FK constraints unless asked per connection.
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dial = sqlite.Open(dsn + sep + "_foreign_keys=on")
	}

	db, err := gorm.Open(dial, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dsn, err)
	}

	if err := db.AutoMigrate(
		&LibraryVersion{},
		&Section{},
		&Bullet{},
		&JobDescriptionEval{},
		&EvalTransaction{},
		&DecisionSet{},
		&DecisionSection{},
		&DecisionBullet{},
	); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	slog.Info("store opened", slog.String("dsn", dsn))
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for tests.
func (s *Store) DB() *gorm.DB { return s.db }

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
