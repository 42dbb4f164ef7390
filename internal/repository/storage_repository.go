package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

type storageRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStorageRepository(db *sqlx.DB) StorageRepository {
	return &storageRepository{db: db, now: time.Now}
}

const upsertQuery = `
		INSERT INTO client_storage (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

func (r *storageRepository) Get(ctx context.Context, key string) (string, error) {
	var value string

	query := `SELECT value FROM client_storage WHERE key = ?`

	err := r.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("error reading %q from client storage: %w", key, err)
	}

	return value, nil
}

func (r *storageRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, upsertQuery, key, value, r.now().UTC())
	if err != nil {
		return fmt.Errorf("error writing %q to client storage: %w", key, err)
	}

	return nil
}

func (r *storageRepository) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting storage transaction: %w", err)
	}
	defer tx.Rollback()

	// deterministic order keeps the statements predictable
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := r.now().UTC()
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, upsertQuery, k, values[k], now); err != nil {
			return fmt.Errorf("error writing %q to client storage: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing client storage: %w", err)
	}

	return nil
}

func (r *storageRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM client_storage WHERE key IN (?)`, keys)
	if err != nil {
		return fmt.Errorf("error building delete query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("error deleting from client storage: %w", err)
	}

	return nil
}
