package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"blogdesk/internal/config"
)

type MinIOClient struct {
	client *minio.Client
	cfg    config.MinIO
	now    func() time.Time
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	mcfg := cfg.Upload.MinIO

	client, err := minio.New(mcfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(mcfg.AccessKey, mcfg.SecretKey, ""),
		Secure: mcfg.UseSSL,
		Region: mcfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating MinIO client: %w", err)
	}

	return &MinIOClient{client: client, cfg: mcfg, now: time.Now}, nil
}

func (m *MinIOClient) UploadImage(ctx context.Context, fileName string, file io.Reader, size int64, contentType string) (*Object, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if fileExt == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			fileExt = exts[0]
		} else {
			fileExt = ".jpg"
		}
	}

	if contentType == "" {
		contentType = mime.TypeByExtension(fileExt)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := m.now()
	objectName := ObjectName(now, uuid.New().String(), fileExt)

	_, err := m.client.PutObject(ctx, m.cfg.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": filepath.Base(fileName),
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return nil, fmt.Errorf("error uploading to MinIO: %w", err)
	}

	return &Object{Key: objectName, URL: m.objectURL(objectName)}, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.cfg.BucketName, key,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return fmt.Errorf("error deleting from MinIO: %w", err)
	}
	return nil
}

func (m *MinIOClient) objectURL(objectName string) string {
	scheme := "http"
	if m.cfg.UseSSL {
		scheme = "https"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   m.cfg.Endpoint,
		Path:   "/" + m.cfg.BucketName + "/" + objectName,
	}
	return u.String()
}

// ObjectName lays uploads out by month: uploads/2026/01/<id><ext>.
func ObjectName(t time.Time, id, ext string) string {
	return fmt.Sprintf("uploads/%d/%02d/%s%s", t.Year(), t.Month(), id, ext)
}
