package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/config"
	"blogdesk/internal/models"
	"blogdesk/internal/repository"
)

type MockStorageRepository struct {
	mock.Mock
}

func (m *MockStorageRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStorageRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStorageRepository) SetMany(ctx context.Context, values map[string]string) error {
	args := m.Called(ctx, values)
	return args.Error(0)
}

func (m *MockStorageRepository) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuthService) Me(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

var (
	bothKeys = []string{repository.KeyToken, repository.KeyUser}
	fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
)

func newTestStore(cfg *config.Config) (*Store, *MockStorageRepository, *MockAuthService) {
	repo := new(MockStorageRepository)
	auth := new(MockAuthService)
	if cfg == nil {
		cfg = &config.Config{}
	}
	s := NewStore(repo, auth, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return fixedNow }
	return s, repo, auth
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func userJSON(t *testing.T, u models.User) string {
	t.Helper()
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	return string(raw)
}

func TestStore_Hydrate(t *testing.T) {
	ctx := context.Background()
	jane := models.User{ID: "u1", Username: "jane", Role: models.RoleAdmin}

	t.Run("valid session is restored", func(t *testing.T) {
		s, repo, _ := newTestStore(nil)
		token := signedToken(t, fixedNow.Add(time.Hour))
		repo.On("Get", mock.Anything, repository.KeyToken).Return(token, nil).Once()
		repo.On("Get", mock.Anything, repository.KeyUser).Return(userJSON(t, jane), nil).Once()

		require.NoError(t, s.Hydrate(ctx))
		assert.True(t, s.IsAuthenticated())
		assert.True(t, s.IsAdmin())
		assert.Equal(t, token, s.Token())

		// second call does not read storage again
		require.NoError(t, s.Hydrate(ctx))
		repo.AssertNumberOfCalls(t, "Get", 2)
	})

	t.Run("expired token is discarded", func(t *testing.T) {
		s, repo, _ := newTestStore(nil)
		repo.On("Get", mock.Anything, repository.KeyToken).Return(signedToken(t, fixedNow.Add(-time.Minute)), nil)
		repo.On("Get", mock.Anything, repository.KeyUser).Return(userJSON(t, jane), nil)
		repo.On("Delete", mock.Anything, bothKeys).Return(nil).Once()

		require.NoError(t, s.Hydrate(ctx))
		assert.False(t, s.IsAuthenticated())
		assert.Empty(t, s.Token())
		repo.AssertExpectations(t)
	})

	t.Run("opaque token is kept", func(t *testing.T) {
		s, repo, _ := newTestStore(nil)
		repo.On("Get", mock.Anything, repository.KeyToken).Return("opaque-token", nil)
		repo.On("Get", mock.Anything, repository.KeyUser).Return(userJSON(t, jane), nil)

		require.NoError(t, s.Hydrate(ctx))
		assert.True(t, s.IsAuthenticated())
	})

	t.Run("half written session is cleared", func(t *testing.T) {
		s, repo, _ := newTestStore(nil)
		repo.On("Get", mock.Anything, repository.KeyToken).Return("tok", nil)
		repo.On("Get", mock.Anything, repository.KeyUser).Return("", repository.ErrKeyNotFound)
		repo.On("Delete", mock.Anything, bothKeys).Return(nil).Once()

		require.NoError(t, s.Hydrate(ctx))
		assert.False(t, s.IsAuthenticated())
		repo.AssertExpectations(t)
	})

	t.Run("empty storage", func(t *testing.T) {
		s, repo, _ := newTestStore(nil)
		repo.On("Get", mock.Anything, mock.Anything).Return("", repository.ErrKeyNotFound)

		require.NoError(t, s.Hydrate(ctx))
		assert.False(t, s.IsAuthenticated())
		assert.False(t, s.IsAdmin())
		assert.Nil(t, s.CurrentUser())
	})

	t.Run("storage failure is reported", func(t *testing.T) {
		s, repo, _ := newTestStore(nil)
		repo.On("Get", mock.Anything, repository.KeyToken).Return("", errors.New("disk I/O error"))

		assert.Error(t, s.Hydrate(ctx))
		assert.Error(t, s.Hydrate(ctx))
		repo.AssertNumberOfCalls(t, "Get", 1)
	})
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()
	req := models.LoginRequest{Email: "jane@example.com", Password: "secret"}
	jane := &models.User{ID: "u1", Username: "jane", Role: models.RoleUser}

	t.Run("success persists then publishes", func(t *testing.T) {
		s, repo, auth := newTestStore(nil)
		auth.On("Login", mock.Anything, req).Return(&models.AuthResponse{Token: "tok", User: jane}, nil)
		repo.On("SetMany", mock.Anything, mock.MatchedBy(func(v map[string]string) bool {
			return v[repository.KeyToken] == "tok" && v[repository.KeyUser] != ""
		})).Return(nil)

		u, err := s.Login(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.True(t, s.IsAuthenticated())
		assert.False(t, s.IsAdmin())
		assert.Equal(t, "tok", s.Token())
	})

	t.Run("server failure leaves state unchanged", func(t *testing.T) {
		s, repo, auth := newTestStore(nil)
		auth.On("Login", mock.Anything, req).Return(nil, &apperrors.AuthError{Message: "Invalid credentials"})

		_, err := s.Login(ctx, req)
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", err.Error())
		assert.False(t, s.IsAuthenticated())
		repo.AssertNotCalled(t, "SetMany", mock.Anything, mock.Anything)
	})

	t.Run("storage failure is not a partial login", func(t *testing.T) {
		s, repo, auth := newTestStore(nil)
		s.token, s.user = "old", &models.User{ID: "u0"}

		auth.On("Login", mock.Anything, req).Return(&models.AuthResponse{Token: "tok", User: jane}, nil)
		repo.On("SetMany", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := s.Login(ctx, req)
		require.Error(t, err)
		assert.Equal(t, "old", s.Token())
		assert.Equal(t, "u0", s.CurrentUser().ID)
	})
}

func TestStore_Signup(t *testing.T) {
	ctx := context.Background()
	req := models.SignupRequest{Username: "jane", Email: "jane@example.com", Password: "secret"}
	resp := &models.AuthResponse{Token: "tok", User: &models.User{ID: "u1"}}

	t.Run("does not sign in by default", func(t *testing.T) {
		s, repo, auth := newTestStore(nil)
		auth.On("Signup", mock.Anything, req).Return(resp, nil)

		u, err := s.Signup(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.False(t, s.IsAuthenticated())
		repo.AssertNotCalled(t, "SetMany", mock.Anything, mock.Anything)
	})

	t.Run("signs in when configured", func(t *testing.T) {
		s, repo, auth := newTestStore(&config.Config{AutoLoginOnSignup: true})
		auth.On("Signup", mock.Anything, req).Return(resp, nil)
		repo.On("SetMany", mock.Anything, mock.Anything).Return(nil)

		_, err := s.Signup(ctx, req)
		require.NoError(t, err)
		assert.True(t, s.IsAuthenticated())
	})
}

func TestStore_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears even when the backend call fails", func(t *testing.T) {
		s, repo, auth := newTestStore(nil)
		s.token, s.user = "tok", &models.User{ID: "u1"}

		auth.On("Logout", mock.Anything).Return(errors.New("connection refused"))
		repo.On("Delete", mock.Anything, bothKeys).Return(nil)

		require.NoError(t, s.Logout(ctx))
		assert.False(t, s.IsAuthenticated())
		assert.Empty(t, s.Token())
		auth.AssertExpectations(t)
	})

	t.Run("no backend call without a session", func(t *testing.T) {
		s, repo, auth := newTestStore(nil)
		repo.On("Delete", mock.Anything, bothKeys).Return(nil)

		require.NoError(t, s.Logout(ctx))
		auth.AssertNotCalled(t, "Logout", mock.Anything)
	})
}

func TestStore_Invalidate(t *testing.T) {
	s, repo, _ := newTestStore(nil)
	s.token, s.user = "tok", &models.User{ID: "u1"}
	repo.On("Delete", mock.Anything, bothKeys).Return(nil).Once()

	s.Invalidate()
	assert.False(t, s.IsAuthenticated())

	// already cleared: nothing to do
	s.Invalidate()
	repo.AssertExpectations(t)
}

func TestStore_UpdateUserAndRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		s, _, _ := newTestStore(nil)
		err := s.UpdateUser(ctx, &models.User{ID: "u1"})
		assert.True(t, apperrors.IsAuth(err))
	})

	t.Run("replaces wholesale", func(t *testing.T) {
		s, repo, auth := newTestStore(nil)
		s.token, s.user = "tok", &models.User{ID: "u1", Bio: "old bio", FullName: "Jane"}

		fresh := &models.User{ID: "u1", FullName: "Jane Doe"}
		auth.On("Me", mock.Anything).Return(fresh, nil)
		repo.On("Set", mock.Anything, repository.KeyUser, mock.AnythingOfType("string")).Return(nil)

		u, err := s.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", u.FullName)
		assert.Empty(t, u.Bio)
	})

	t.Run("current user is a copy", func(t *testing.T) {
		s, _, _ := newTestStore(nil)
		s.user = &models.User{ID: "u1", Username: "jane"}

		u := s.CurrentUser()
		u.Username = "mallory"
		assert.Equal(t, "jane", s.CurrentUser().Username)
	})
}

func TestStore_Gates(t *testing.T) {
	s, _, _ := newTestStore(nil)

	_, err := s.RequireAdmin()
	assert.True(t, apperrors.IsAuth(err))

	s.user = &models.User{ID: "u1", Role: models.RoleUser}
	_, err = s.RequireAdmin()
	assert.True(t, apperrors.IsPermission(err))

	s.user.Role = models.RoleAdmin
	_, err = s.RequireAdmin()
	assert.NoError(t, err)
}
