package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/storage"
)

func TestHandlers_Login(t *testing.T) {
	env := newEnv(t, nil, nil)
	env.api.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "jane@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": "jwt", "user": jane})
	}).Methods(http.MethodPost)
	env.prompt.answers = []string{"secret"}

	require.NoError(t, env.h.Login(context.Background(), "jane@example.com", ""))

	assert.Equal(t, []string{"Password"}, env.prompt.asked)
	assert.Contains(t, env.out.String(), "Signed in as Jane Doe <jane@example.com>")
	assert.True(t, env.store.IsAuthenticated())
	assert.Equal(t, "jwt", env.store.Token())
}

func TestHandlers_SignupWithoutAutoLogin(t *testing.T) {
	env := newEnv(t, nil, nil)
	env.api.HandleFunc("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "token": "jwt", "user": jane})
	}).Methods(http.MethodPost)

	err := env.h.Signup(context.Background(), SignupInput{
		Username:        "jane",
		Email:           "jane@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Contains(t, env.out.String(), "Account created for jane")
	assert.Contains(t, env.out.String(), "blogdesk login")
	assert.False(t, env.store.IsAuthenticated())
}

func TestHandlers_SignupPasswordMismatch(t *testing.T) {
	env := newEnv(t, nil, nil)

	err := env.h.Signup(context.Background(), SignupInput{
		Username:        "jane",
		Email:           "jane@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	})
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, env.hits.Load())
}

func TestHandlers_Logout(t *testing.T) {
	env := newEnv(t, jane, nil)
	env.api.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer opaque-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}).Methods(http.MethodPost)

	require.NoError(t, env.h.Logout(context.Background()))
	assert.False(t, env.store.IsAuthenticated())
	assert.Contains(t, env.out.String(), "Signed out.")

	env.out.Reset()
	require.NoError(t, env.h.Logout(context.Background()))
	assert.Contains(t, env.out.String(), "not signed in")
}

func TestHandlers_WhoAmI(t *testing.T) {
	env := newEnv(t, nil, nil)
	assert.True(t, apperrors.IsAuth(env.h.WhoAmI(context.Background(), false)))

	env = newEnv(t, jane, nil)
	env.api.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		u := *jane
		u.Bio = "Writes about trains"
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": u})
	}).Methods(http.MethodGet)

	require.NoError(t, env.h.WhoAmI(context.Background(), true))
	assert.Contains(t, env.out.String(), "Writes about trains")
	assert.Equal(t, "Writes about trains", env.store.CurrentUser().Bio)
}

func TestHandlers_UpdateProfile(t *testing.T) {
	t.Run("keeps fields that were not given", func(t *testing.T) {
		env := newEnv(t, jane, nil)
		env.api.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			assert.Equal(t, "Jane Doe", body["fullName"])
			assert.Equal(t, "New bio", body["bio"])
			u := *jane
			u.Bio = "New bio"
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": u})
		}).Methods(http.MethodPut)

		bio := "New bio"
		require.NoError(t, env.h.UpdateProfile(context.Background(), ProfileInput{Bio: &bio}))
		assert.Equal(t, "New bio", env.store.CurrentUser().Bio)
	})

	t.Run("failed update removes the uploaded image", func(t *testing.T) {
		media := new(MockStorage)
		media.On("UploadImage", mock.Anything, mock.Anything, mock.Anything, "image/png").
			Return(&storage.Object{Key: "uploads/2026/10/x.png", URL: "https://cdn.example.com/x.png"}, nil)
		media.On("DeleteImage", mock.Anything, "uploads/2026/10/x.png").Return(nil)

		env := newEnv(t, jane, media)
		env.api.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			assert.Equal(t, "https://cdn.example.com/x.png", body["profileImage"])
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Profile could not be saved"})
		}).Methods(http.MethodPut)

		err := env.h.UpdateProfile(context.Background(), ProfileInput{ImagePath: writePNG(t)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Profile could not be saved")
		media.AssertExpectations(t)
		assert.Empty(t, env.store.CurrentUser().ProfileImage)
	})
}

func TestHandlers_ChangePassword(t *testing.T) {
	env := newEnv(t, jane, nil)
	env.prompt.answers = []string{"old-secret", "new-secret", "different"}

	err := env.h.ChangePassword(context.Background(), PasswordInput{})
	assert.True(t, apperrors.IsValidation(err))
	assert.Len(t, env.prompt.asked, 3)
	assert.Zero(t, env.hits.Load())
}
