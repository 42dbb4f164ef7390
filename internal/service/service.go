package service

import (
	"context"
	"log/slog"

	"blogdesk/internal/config"
	"blogdesk/internal/models"
	"blogdesk/internal/storage"
	"blogdesk/internal/validation"
)

// API is the subset of api.Client the services call.
type API interface {
	Get(ctx context.Context, path string, params any, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type Service struct {
	Auth    AuthService
	Blog    BlogService
	Comment CommentService
	Admin   AdminService
	Media   MediaService

	logger *slog.Logger
}

func NewService(client API, v *validation.Validator, store storage.Storage, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Auth:    NewAuthService(client, v),
		Blog:    NewBlogService(client, v, logger),
		Comment: NewCommentService(client, v),
		Admin:   NewAdminService(client, v, logger),
		Media:   NewMediaService(store, cfg),
		logger:  logger,
	}
}

func pageOf[T any](items []T, total, totalPages int) *models.Page[T] {
	if items == nil {
		items = []T{}
	}
	return &models.Page[T]{Items: items, Total: total, TotalPages: totalPages}
}

// checkBlogs logs blogs whose moderation fields disagree. The backend is
// the record; the client only reports the mismatch.
func checkBlogs(logger *slog.Logger, blogs ...models.Blog) {
	for i := range blogs {
		if err := blogs[i].CheckModeration(); err != nil {
			logger.Warn("inconsistent blog from backend", slog.String("blog_id", blogs[i].ID), slog.Any("error", err))
		}
	}
}
