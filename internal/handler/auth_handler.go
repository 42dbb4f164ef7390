package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"blogdesk/internal/models"
	"blogdesk/internal/storage"
)

type SignupInput struct {
	Username        string
	Email           string
	FullName        string
	Password        string
	ConfirmPassword string
}

// ProfileInput holds the fields to change. Nil fields keep their current
// value.
type ProfileInput struct {
	FullName  *string
	Bio       *string
	ImagePath string
}

type PasswordInput struct {
	Current string
	New     string
	Confirm string
}

func (h *Handlers) Signup(ctx context.Context, in SignupInput) error {
	var err error
	if in.Password, err = h.askSecret(in.Password, "Password"); err != nil {
		return err
	}
	if in.ConfirmPassword, err = h.askSecret(in.ConfirmPassword, "Confirm password"); err != nil {
		return err
	}

	var user *models.User
	err = h.wait("Creating account", func() error {
		user, err = h.Session.Signup(ctx, models.SignupRequest{
			Username:        in.Username,
			Email:           in.Email,
			FullName:        in.FullName,
			Password:        in.Password,
			ConfirmPassword: in.ConfirmPassword,
		})
		return err
	})
	if err != nil {
		return err
	}

	if h.Session.CurrentUser() != nil {
		h.success("Welcome, %s! You are signed in.", user.DisplayName())
		return nil
	}
	h.success("Account created for %s.", user.Username)
	fmt.Fprintln(h.Out, mutedColor.Sprint("Run `blogdesk login` to sign in."))
	return nil
}

func (h *Handlers) Login(ctx context.Context, email, password string) error {
	var err error
	if email, err = h.ask(email, "Email"); err != nil {
		return err
	}
	if password, err = h.askSecret(password, "Password"); err != nil {
		return err
	}

	var user *models.User
	err = h.wait("Signing in", func() error {
		user, err = h.Session.Login(ctx, models.LoginRequest{Email: email, Password: password})
		return err
	})
	if err != nil {
		return err
	}

	badge := ""
	if user.IsAdmin() {
		badge = " " + adminColor.Sprint("[admin]")
	}
	h.success("Signed in as %s <%s>%s", user.DisplayName(), user.Email, badge)
	return nil
}

func (h *Handlers) Logout(ctx context.Context) error {
	if h.Session.CurrentUser() == nil {
		fmt.Fprintln(h.Out, "You are not signed in.")
		return nil
	}
	if err := h.Session.Logout(ctx); err != nil {
		return err
	}
	h.success("Signed out.")
	return nil
}

// WhoAmI prints the signed-in user, reloading it from the backend when
// refresh is set.
func (h *Handlers) WhoAmI(ctx context.Context, refresh bool) error {
	user, err := h.Session.RequireUser()
	if err != nil {
		return err
	}
	if refresh {
		err = h.wait("Refreshing profile", func() error {
			user, err = h.Session.Refresh(ctx)
			return err
		})
		if err != nil {
			return err
		}
	}
	profile(h.Out, user)
	return nil
}

// UpdateProfile uploads the new profile image first, if any. A failed
// update removes that upload again.
func (h *Handlers) UpdateProfile(ctx context.Context, in ProfileInput) error {
	current, err := h.Session.RequireUser()
	if err != nil {
		return err
	}

	req := models.UpdateProfileRequest{
		FullName:     current.FullName,
		Bio:          current.Bio,
		ProfileImage: current.ProfileImage,
	}
	if in.FullName != nil {
		req.FullName = *in.FullName
	}
	if in.Bio != nil {
		req.Bio = *in.Bio
	}

	var upload *storage.Object
	if in.ImagePath != "" {
		err = h.wait("Uploading image", func() error {
			upload, err = h.MediaService.UploadFile(ctx, in.ImagePath)
			return err
		})
		if err != nil {
			return err
		}
		req.ProfileImage = upload.URL
	}

	var user *models.User
	err = h.wait("Saving profile", func() error {
		user, err = h.AuthService.UpdateProfile(ctx, req)
		return err
	})
	if err != nil {
		h.discard(ctx, upload)
		return err
	}

	if err := h.Session.UpdateUser(ctx, user); err != nil {
		return err
	}

	h.success("Profile updated.")
	profile(h.Out, user)
	return nil
}

func (h *Handlers) ChangePassword(ctx context.Context, in PasswordInput) error {
	if _, err := h.Session.RequireUser(); err != nil {
		return err
	}

	var err error
	if in.Current, err = h.askSecret(in.Current, "Current password"); err != nil {
		return err
	}
	if in.New, err = h.askSecret(in.New, "New password"); err != nil {
		return err
	}
	if in.Confirm, err = h.askSecret(in.Confirm, "Confirm new password"); err != nil {
		return err
	}

	err = h.AuthService.ChangePassword(ctx, models.ChangePasswordRequest{
		CurrentPassword: in.Current,
		NewPassword:     in.New,
		ConfirmPassword: in.Confirm,
	})
	if err != nil {
		return err
	}
	h.success("Password changed.")
	return nil
}

// discard removes an upload nothing ended up referencing.
func (h *Handlers) discard(ctx context.Context, obj *storage.Object) {
	if obj == nil {
		return
	}
	if err := h.MediaService.Discard(ctx, obj); err != nil {
		h.Logger.Warn("error removing unused upload", slog.String("key", obj.Key), slog.Any("error", err))
	}
}
