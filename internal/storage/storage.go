package storage

import (
	"context"
	"fmt"
	"io"

	"blogdesk/internal/config"
)

// Object is an uploaded image: Key identifies it to the provider, URL is
// what goes into coverImage/profileImage.
type Object struct {
	Key string
	URL string
}

type Storage interface {
	UploadImage(ctx context.Context, fileName string, file io.Reader, size int64, contentType string) (*Object, error)
}

// Remover is implemented by providers that can delete what they stored.
type Remover interface {
	DeleteImage(ctx context.Context, key string) error
}

// NewStorage builds the provider selected by UPLOAD_PROVIDER.
func NewStorage(cfg *config.Config) (Storage, error) {
	switch cfg.Upload.Provider {
	case config.UploadProviderCloudinary, "":
		return NewCloudinaryClient(cfg, nil)
	case config.UploadProviderMinIO:
		return NewMinIOClient(cfg)
	default:
		return nil, fmt.Errorf("unknown upload provider %q", cfg.Upload.Provider)
	}
}
