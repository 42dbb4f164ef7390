// Package session owns the signed-in user and token. It is the only
// writer of either; everything else reads through Store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/config"
	"blogdesk/internal/models"
	"blogdesk/internal/repository"
	"blogdesk/internal/service"
)

type Store struct {
	repo   repository.StorageRepository
	auth   service.AuthService
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time

	once       sync.Once
	hydrateErr error

	mu    sync.RWMutex
	token string
	user  *models.User
}

func NewStore(repo repository.StorageRepository, auth service.AuthService, cfg *config.Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:   repo,
		auth:   auth,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Hydrate loads the persisted session. Only the first call touches
// storage; later calls return the first result.
func (s *Store) Hydrate(ctx context.Context) error {
	s.once.Do(func() {
		s.hydrateErr = s.load(ctx)
	})
	return s.hydrateErr
}

func (s *Store) load(ctx context.Context) error {
	token, err := s.repo.Get(ctx, repository.KeyToken)
	if err != nil && !errors.Is(err, repository.ErrKeyNotFound) {
		return fmt.Errorf("error reading session token: %w", err)
	}

	raw, err := s.repo.Get(ctx, repository.KeyUser)
	if err != nil && !errors.Is(err, repository.ErrKeyNotFound) {
		return fmt.Errorf("error reading session user: %w", err)
	}

	if token == "" && raw == "" {
		return nil
	}

	var user models.User
	if token == "" || raw == "" || json.Unmarshal([]byte(raw), &user) != nil || user.ID == "" {
		s.logger.Warn("discarding incomplete stored session")
		return s.clearStorage(ctx)
	}

	if s.expired(token) {
		s.logger.Info("stored session has expired", slog.String("user_id", user.ID))
		return s.clearStorage(ctx)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	return nil
}

// expired reads the exp claim without verifying the signature; the
// backend still decides whether the token is valid. Opaque tokens are
// kept.
func (s *Store) expired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Session() models.Session {
	return models.Session{Token: s.Token(), User: s.CurrentUser()}
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

// RequireUser returns the current user or an AuthError.
func (s *Store) RequireUser() (*models.User, error) {
	u := s.CurrentUser()
	if u == nil {
		return nil, &apperrors.AuthError{Message: "Please log in to continue"}
	}
	return u, nil
}

// RequireAdmin gates admin-only actions.
func (s *Store) RequireAdmin() (*models.User, error) {
	u, err := s.RequireUser()
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, &apperrors.PermissionError{Message: "Access denied. Admin privileges required."}
	}
	return u, nil
}

func (s *Store) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.establish(ctx, resp.Token, resp.User); err != nil {
		return nil, err
	}

	s.logger.Info("logged in", slog.String("user_id", resp.User.ID))
	return s.CurrentUser(), nil
}

// Signup creates the account. The new account is signed in only when
// AutoLoginOnSignup is set; otherwise the caller is expected to log in.
func (s *Store) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	resp, err := s.auth.Signup(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cfg == nil || !s.cfg.AutoLoginOnSignup {
		u := *resp.User
		return &u, nil
	}

	if err := s.establish(ctx, resp.Token, resp.User); err != nil {
		return nil, err
	}
	return s.CurrentUser(), nil
}

// establish persists both keys in one transaction before publishing the
// session in memory, so a failed write leaves the previous state intact.
func (s *Store) establish(ctx context.Context, token string, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("error encoding session user: %w", err)
	}

	if err := s.repo.SetMany(ctx, map[string]string{
		repository.KeyToken: token,
		repository.KeyUser:  string(raw),
	}); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}

	u := *user
	s.mu.Lock()
	s.token = token
	s.user = &u
	s.mu.Unlock()

	return nil
}

// Logout tells the backend when possible and always clears local state.
func (s *Store) Logout(ctx context.Context) error {
	if s.Token() != "" {
		if err := s.auth.Logout(ctx); err != nil {
			s.logger.Warn("logout request failed", slog.Any("error", err))
		}
	}

	s.clearMemory()
	return s.clearStorage(ctx)
}

// Invalidate drops the session after the backend refused the token.
func (s *Store) Invalidate() {
	if !s.IsAuthenticated() && s.Token() == "" {
		return
	}
	s.logger.Info("session invalidated by backend")
	s.clearMemory()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.clearStorage(ctx); err != nil {
		s.logger.Error("error clearing session storage", slog.Any("error", err))
	}
}

// UpdateUser replaces the cached user wholesale and persists it.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	if !s.IsAuthenticated() {
		return &apperrors.AuthError{Message: "Please log in to continue"}
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("error encoding session user: %w", err)
	}
	if err := s.repo.Set(ctx, repository.KeyUser, string(raw)); err != nil {
		return fmt.Errorf("error saving session user: %w", err)
	}

	u := *user
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	return nil
}

// Refresh reloads the current user from the backend.
func (s *Store) Refresh(ctx context.Context) (*models.User, error) {
	if _, err := s.RequireUser(); err != nil {
		return nil, err
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.CurrentUser(), nil
}

func (s *Store) clearMemory() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

func (s *Store) clearStorage(ctx context.Context) error {
	if err := s.repo.Delete(ctx, repository.KeyToken, repository.KeyUser); err != nil {
		return fmt.Errorf("error clearing session: %w", err)
	}
	return nil
}
