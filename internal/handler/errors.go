package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/engagement"
	"blogdesk/internal/service"
)

// Exit codes returned by Report.
const (
	ExitOK = iota
	ExitError
	ExitValidation
	ExitAuth
	ExitPermission
	ExitNotFound
	ExitNetwork
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	mutedColor   = color.New(color.Faint)
)

// Report renders err for the user and returns the process exit code. Every
// error a command can produce ends here.
func (h *Handlers) Report(err error) int {
	if err == nil {
		return ExitOK
	}

	code := report(h.Err, err)
	if code == ExitError || code == ExitNetwork {
		h.Logger.Error("command failed", slog.Any("error", err))
	} else {
		h.Logger.Debug("command refused", slog.Int("code", code), slog.Any("error", err))
	}
	return code
}

func report(w io.Writer, err error) int {
	var (
		validationErr *apperrors.ValidationError
		authErr       *apperrors.AuthError
		permissionErr *apperrors.PermissionError
		notFoundErr   *apperrors.NotFoundError
		networkErr    *apperrors.NetworkError
	)

	switch {
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		fmt.Fprintln(w, mutedColor.Sprint("Cancelled."))
		return ExitOK
	case errors.As(err, &validationErr):
		fmt.Fprintf(w, "%s %s\n", errorColor.Sprint("✗"), validationErr.Message)
		return ExitValidation
	case errors.As(err, &authErr):
		fmt.Fprintf(w, "%s %s\n", warningColor.Sprint("Please log in."), authErr.Error())
		fmt.Fprintln(w, mutedColor.Sprint("Run `blogdesk login` to sign in."))
		return ExitAuth
	case errors.As(err, &permissionErr):
		fmt.Fprintf(w, "%s %s\n", errorColor.Sprint("Access denied."), permissionErr.Error())
		return ExitPermission
	case errors.As(err, &notFoundErr):
		fmt.Fprintf(w, "%s %s\n", warningColor.Sprint("Nothing here."), notFoundErr.Error())
		return ExitNotFound
	case errors.As(err, &networkErr):
		fmt.Fprintln(w, errorColor.Sprint("! Could not reach the blog server"))
		fmt.Fprintf(w, "  %s\n", networkErr.Error())
		fmt.Fprintln(w, mutedColor.Sprint("  Check your connection and try again."))
		return ExitNetwork
	case errors.Is(err, engagement.ErrInFlight):
		fmt.Fprintln(w, warningColor.Sprint("Still working on the previous request."))
		return ExitError
	case errors.Is(err, service.ErrUploadNotConfigured):
		fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("✗"), err)
		fmt.Fprintln(w, mutedColor.Sprint("Set UPLOAD_PROVIDER and its credentials to upload images."))
		return ExitError
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(w, errorColor.Sprint("! The request timed out"))
		return ExitNetwork
	default:
		fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("Error:"), err)
		return ExitError
	}
}

func (h *Handlers) success(format string, args ...any) {
	fmt.Fprintf(h.Out, "%s %s\n", successColor.Sprint("✓"), fmt.Sprintf(format, args...))
}

func (h *Handlers) notice(format string, args ...any) {
	fmt.Fprintln(h.Out, warningColor.Sprintf(format, args...))
}
