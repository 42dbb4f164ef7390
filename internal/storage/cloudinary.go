package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/config"
)

// CloudinaryClient does unsigned uploads with a pre-shared upload preset.
type CloudinaryClient struct {
	http *http.Client
	cfg  config.Cloudinary
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewCloudinaryClient(cfg *config.Config, httpClient *http.Client) (*CloudinaryClient, error) {
	ccfg := cfg.Upload.Cloudinary
	if ccfg.CloudName == "" || ccfg.UploadPreset == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME and CLOUDINARY_UPLOAD_PRESET must be set")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.Timeout}
	}
	return &CloudinaryClient{http: httpClient, cfg: ccfg}, nil
}

func (c *CloudinaryClient) uploadURL() string {
	return fmt.Sprintf("%s/v1_1/%s/image/upload", c.cfg.Endpoint, c.cfg.CloudName)
}

func (c *CloudinaryClient) UploadImage(ctx context.Context, fileName string, file io.Reader, size int64, contentType string) (*Object, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(fileName)))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("error creating upload form: %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(file, size)); err != nil {
		return nil, fmt.Errorf("error reading image: %w", err)
	}
	if err := w.WriteField("upload_preset", c.cfg.UploadPreset); err != nil {
		return nil, fmt.Errorf("error creating upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("error creating upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL(), &body)
	if err != nil {
		return nil, fmt.Errorf("error creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &apperrors.NetworkError{Message: "error uploading image", Err: err}
	}
	defer resp.Body.Close()

	var out cloudinaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &apperrors.NetworkError{Status: resp.StatusCode, Message: "error decoding upload response", Err: err}
	}

	if resp.StatusCode >= 400 || out.SecureURL == "" {
		msg := "Failed to upload image"
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return nil, &apperrors.NetworkError{Status: resp.StatusCode, Message: msg}
	}

	return &Object{Key: out.PublicID, URL: out.SecureURL}, nil
}
