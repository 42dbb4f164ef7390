package handlers

import (
	"context"
	"fmt"

	"blogdesk/internal/storage"
)

// Upload sends a local image to the configured provider and prints its
// public URL.
func (h *Handlers) Upload(ctx context.Context, path string) error {
	if _, err := h.Session.RequireUser(); err != nil {
		return err
	}

	var obj *storage.Object
	err := h.wait("Uploading image", func() error {
		var err error
		obj, err = h.MediaService.UploadFile(ctx, path)
		return err
	})
	if err != nil {
		return err
	}

	h.success("Uploaded %s", path)
	fmt.Fprintln(h.Out, obj.URL)
	return nil
}
