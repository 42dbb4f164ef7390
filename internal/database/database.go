package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"blogdesk/internal/config"
)

type DB struct {
	*sqlx.DB
}

// schema is the whole durable client state: a small key/value table that
// plays the role of browser local storage.
const schema = `
CREATE TABLE IF NOT EXISTS client_storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func ConnectDB(cfg *config.Config) (*DB, error) {
	path := cfg.Storage.SessionDBPath

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}

	slog.Debug("opening session storage", slog.String("path", path))

	db, err := sqlx.Connect("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	// one writer at a time keeps sqlite free of "database is locked"
	db.SetMaxOpenConns(1)

	dbStruct := &DB{db}

	if err := dbStruct.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := dbStruct.HealthCheck(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session storage health check failed: %w", err)
	}

	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

func (db *DB) RunMigrations() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply storage schema: %w", err)
	}
	return nil
}

func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("storage connection is not initialized")
	}

	return db.Ping()
}
