package handlers

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"blogdesk/internal/config"
	"blogdesk/internal/models"
	"blogdesk/internal/moderation"
	"blogdesk/internal/pagination"
	"blogdesk/internal/service"
)

// Session is the auth state the commands read and change.
type Session interface {
	CurrentUser() *models.User
	RequireUser() (*models.User, error)
	RequireAdmin() (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, user *models.User) error
	Refresh(ctx context.Context) (*models.User, error)
}

// PageLoader loads a blog detail view.
type PageLoader interface {
	BlogPage(ctx context.Context, slug string, params models.CommentListParams) (*service.BlogPage, error)
}

type Handlers struct {
	AuthService    service.AuthService
	BlogService    service.BlogService
	CommentService service.CommentService
	AdminService   service.AdminService
	MediaService   service.MediaService
	Pages          PageLoader
	Session        Session
	Gate           *moderation.Gate
	Cfg            *config.Config
	Prompt         Prompter
	Out            io.Writer
	Err            io.Writer
	Logger         *slog.Logger

	// AssumeYes answers every confirmation with yes.
	AssumeYes bool
	// Spinner shows progress on stderr while requests run.
	Spinner bool
}

func NewHandlers(services *service.Service, session Session, cfg *config.Config, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		AuthService:    services.Auth,
		BlogService:    services.Blog,
		CommentService: services.Comment,
		AdminService:   services.Admin,
		MediaService:   services.Media,
		Pages:          services,
		Session:        session,
		Gate:           moderation.NewGate(session, services.Blog, services.Admin),
		Cfg:            cfg,
		Prompt:         TermPrompter{},
		Out:            os.Stdout,
		Err:            os.Stderr,
		Logger:         logger,
	}
}

func (h *Handlers) pageSize(limit int) int {
	if limit > 0 {
		return limit
	}
	if h.Cfg != nil && h.Cfg.PageSize > 0 {
		return h.Cfg.PageSize
	}
	return pagination.DefaultLimit
}

// wait runs fn behind a spinner when one is enabled.
func (h *Handlers) wait(msg string, fn func() error) error {
	if !h.Spinner {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(h.Err))
	s.Suffix = " " + msg
	s.Start()
	defer s.Stop()

	return fn()
}

// confirm asks a yes/no question. Anything but an explicit yes is a no.
func (h *Handlers) confirm(question string) (bool, error) {
	if h.AssumeYes {
		return true, nil
	}
	answer, err := h.Prompt.Input(question+" [y/N]", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ask returns value, or prompts for it when it is empty.
func (h *Handlers) ask(value, question string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	return h.Prompt.Input(question, "")
}

func (h *Handlers) askSecret(value, question string) (string, error) {
	if value != "" {
		return value, nil
	}
	return h.Prompt.Password(question)
}
