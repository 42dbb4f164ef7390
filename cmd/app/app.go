package app

import (
	"context"
	"fmt"
	"log/slog"

	"blogdesk/internal/api"
	"blogdesk/internal/config"
	"blogdesk/internal/database"
	handlers "blogdesk/internal/handler"
	"blogdesk/internal/repository"
	"blogdesk/internal/service"
	"blogdesk/internal/session"
	"blogdesk/internal/storage"
	"blogdesk/internal/validation"
)

// App wires the client together. The caller closes the returned DB.
func App(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*database.DB, *handlers.Handlers, error) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	client, err := api.NewClient(cfg, logger)
	if err != nil {
		_ = db.CloseDB()
		return nil, nil, err
	}

	// image uploads are optional; commands that need them report it
	store, err := storage.NewStorage(cfg)
	if err != nil {
		logger.Debug("image upload disabled", slog.Any("error", err))
		store = nil
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)

	services := service.NewService(client, validation.New(), store, cfg, logger)

	sess := session.NewStore(repo.Storage, services.Auth, cfg, logger)
	if err := sess.Hydrate(ctx); err != nil {
		_ = db.CloseDB()
		return nil, nil, err
	}
	client.UseSession(sess)

	return db, handlers.NewHandlers(services, sess, cfg, logger), nil
}
