package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Keys used in client storage.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

var ErrKeyNotFound = errors.New("key not found in client storage")

// StorageRepository is durable key/value storage for client state.
type StorageRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all pairs or none.
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

type Repository struct {
	Storage StorageRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Storage: NewStorageRepository(db),
	}
}
