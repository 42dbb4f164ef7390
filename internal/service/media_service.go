package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/config"
	"blogdesk/internal/storage"
)

var ErrUploadNotConfigured = errors.New("image upload is not configured")

type MediaService interface {
	UploadImage(ctx context.Context, fileName string, r io.Reader) (*storage.Object, error)
	UploadFile(ctx context.Context, path string) (*storage.Object, error)
	Discard(ctx context.Context, obj *storage.Object) error
}

type mediaService struct {
	storage storage.Storage
	maxSize int64
}

func NewMediaService(store storage.Storage, cfg *config.Config) MediaService {
	maxSize := cfg.Upload.MaxSize
	if maxSize <= 0 {
		maxSize = 5 << 20
	}
	return &mediaService{
		storage: store,
		maxSize: maxSize,
	}
}

// UploadImage checks the bytes, not the file name: only content sniffed as
// an image and no larger than the configured limit is sent.
func (s *mediaService) UploadImage(ctx context.Context, fileName string, r io.Reader) (*storage.Object, error) {
	if s.storage == nil {
		return nil, ErrUploadNotConfigured
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading image: %w", err)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, apperrors.NewValidation("image", "Please select an image file")
	}
	if int64(len(data)) > s.maxSize {
		return nil, apperrors.NewValidation("image", "Image size should be less than %s", sizeLabel(s.maxSize))
	}

	obj, err := s.storage.UploadImage(ctx, fileName, bytes.NewReader(data), int64(len(data)), mtype.String())
	if err != nil {
		return nil, fmt.Errorf("error uploading image: %w", err)
	}

	return obj, nil
}

func (s *mediaService) UploadFile(ctx context.Context, path string) (*storage.Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening image: %w", err)
	}
	defer f.Close()

	return s.UploadImage(ctx, path, f)
}

// Discard removes an upload that ended up unused, when the provider
// supports deletion.
func (s *mediaService) Discard(ctx context.Context, obj *storage.Object) error {
	if obj == nil {
		return nil
	}
	remover, ok := s.storage.(storage.Remover)
	if !ok {
		return nil
	}
	return remover.DeleteImage(ctx, obj.Key)
}

func sizeLabel(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return humanize.IBytes(uint64(n))
}
