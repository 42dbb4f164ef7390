package handlers

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/engagement"
	"blogdesk/internal/service"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"validation inline", apperrors.NewValidation("title", "Title must be at least 5 characters long"), ExitValidation, "✗ Title must be at least 5 characters long"},
		{"auth asks to log in", &apperrors.AuthError{Message: "Your session has expired"}, ExitAuth, "Please log in. Your session has expired"},
		{"permission", &apperrors.PermissionError{Message: "Admin privileges required."}, ExitPermission, "Access denied. Admin privileges required."},
		{"not found placeholder", &apperrors.NotFoundError{Resource: "blog"}, ExitNotFound, "Nothing here. blog not found"},
		{"network banner", &apperrors.NetworkError{Status: 502, Message: "Bad Gateway"}, ExitNetwork, "Could not reach the blog server"},
		{"wrapped", fmt.Errorf("error loading blog x: %w", &apperrors.NotFoundError{Message: "Blog not found"}), ExitNotFound, "Blog not found"},
		{"cancelled", ErrCancelled, ExitOK, "Cancelled."},
		{"interrupted", fmt.Errorf("error loading blog x: %w", context.Canceled), ExitOK, "Cancelled."},
		{"interrupted in transport", &apperrors.NetworkError{Message: "request aborted", Err: context.Canceled}, ExitOK, "Cancelled."},
		{"timed out", fmt.Errorf("error loading blog x: %w", context.DeadlineExceeded), ExitNetwork, "timed out"},
		{"in flight", engagement.ErrInFlight, ExitError, "Still working"},
		{"no upload provider", service.ErrUploadNotConfigured, ExitError, "UPLOAD_PROVIDER"},
		{"anything else", errBoom, ExitError, "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.code, report(&buf, tt.err))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestHandlers_Report(t *testing.T) {
	env := newEnv(t, nil, nil)
	assert.Equal(t, ExitOK, env.h.Report(nil))
	assert.Empty(t, env.errOut.String())

	assert.Equal(t, ExitAuth, env.h.Report(&apperrors.AuthError{}))
	assert.Contains(t, env.errOut.String(), "blogdesk login")
	assert.Empty(t, env.out.String())
}
