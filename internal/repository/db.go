package repository

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-api/internal/model"
)

// DefaultDSN keeps the whole store in process memory for the lifetime of the server.
const DefaultDSN = "file:todos?mode=memory&cache=shared"

// NewDB opens the todo store and migrates its tables.
//
// The pool is pinned to a single connection: an in-memory database disappears
// with its last connection, and one connection also serializes every call.
func NewDB(dsn string, log *slog.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	if log == nil {
		log = slog.Default()
	}

	if path, ok := sqliteFile(dsn); ok {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(&model.Category{}, &model.Todo{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	log.Debug("store ready", "dsn", dsn, "in_memory", InMemory(dsn))
	return db, nil
}

// gormLogger forwards slow queries and errors to log at warn level.
func gormLogger(log *slog.Logger) logger.Interface {
	return logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// InMemory reports whether dsn names a SQLite in-memory database.
func InMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// sqliteFile returns the on-disk path of dsn when it points into a directory.
func sqliteFile(dsn string) (string, bool) {
	if InMemory(dsn) {
		return "", false
	}
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if dir := filepath.Dir(path); dir == "." || dir == "" {
		return "", false
	}
	return path, true
}
