// Package api is the single HTTP wrapper every service goes through.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/schema"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/config"
	"blogdesk/internal/middleware"
	"blogdesk/internal/models"
)

const userAgent = "blogdesk-cli"

// Session is what the client needs from the auth state: a token to send
// and a way to drop it when the backend says it is no longer valid.
type Session interface {
	Token() string
	Invalidate()
}

// Paths whose 401 means "wrong credentials", not "session expired".
var publicPaths = []string{
	"/auth/login",
	"/auth/signup",
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	encoder *schema.Encoder
	logger  *slog.Logger

	mu      sync.RWMutex
	session Session
}

func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	return NewClientWithTransport(cfg, nil, logger)
}

// NewClientWithTransport lets tests point the client at an httptest server
// transport.
func NewClientWithTransport(cfg *config.Config, base http.RoundTripper, logger *slog.Logger) (*Client, error) {
	baseURL, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base url %q: %w", cfg.API.BaseURL, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid API base url %q: scheme and host are required", cfg.API.BaseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL: baseURL,
		encoder: schema.NewEncoder(),
		logger:  logger,
	}

	c.http = &http.Client{
		Transport: middleware.Chain(
			base,
			middleware.HeadersMiddleware(userAgent),
			middleware.AuthMiddleware(c.token),
			middleware.LoggingMiddleware(logger),
		),
		Timeout: cfg.API.Timeout,
	}

	return c, nil
}

// UseSession attaches the auth state. Until then requests go out
// unauthenticated.
func (c *Client) UseSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token()
}

func (c *Client) invalidate() {
	c.mu.RLock()
	s := c.session
	c.mu.RUnlock()
	if s != nil {
		s.Invalidate()
	}
}

func (c *Client) Get(ctx context.Context, path string, params any, out any) error {
	return c.Do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends one request. params is a gorilla/schema tagged struct encoded
// into the query string, body is JSON encoded, out receives the decoded
// JSON reply. Non-2xx replies become apperrors values.
func (c *Client) Do(ctx context.Context, method, path string, params any, body any, out any) error {
	u, err := c.url(path, params)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshalling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &apperrors.NetworkError{Message: "error sending request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		apiErr := c.handleError(resp, errBody)
		if apperrors.IsAuth(apiErr) && !isPublic(path) {
			c.invalidate()
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &apperrors.NetworkError{Status: resp.StatusCode, Message: "error decoding response", Err: err}
	}

	return nil
}

func (c *Client) url(path string, params any) (*url.URL, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")

	if params != nil {
		values := url.Values{}
		if err := c.encoder.Encode(params, values); err != nil {
			return nil, fmt.Errorf("error encoding query: %w", err)
		}
		u.RawQuery = values.Encode()
	}

	return &u, nil
}

// handleError maps a failed reply onto the error taxonomy, keeping the
// backend's message when it sent one.
func (c *Client) handleError(r *http.Response, errBody []byte) error {
	msg := strings.TrimSpace(string(errBody))

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var apiErr models.ErrorResponse
		if err := json.Unmarshal(errBody, &apiErr); err != nil {
			c.logger.Warn("error unmarshalling error body", slog.Any("error", err))
		} else {
			msg = apiErr.Text()
		}
	}

	switch r.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		if msg == "" {
			msg = "The request was rejected"
		}
		return &apperrors.ValidationError{Message: msg}
	case http.StatusUnauthorized:
		if msg == "" {
			msg = "Your session has expired. Please log in again."
		}
		return &apperrors.AuthError{Message: msg}
	case http.StatusForbidden:
		if msg == "" {
			msg = "You do not have permission to do that"
		}
		return &apperrors.PermissionError{Message: msg}
	case http.StatusNotFound:
		return &apperrors.NotFoundError{Message: msg}
	}

	if msg == "" {
		msg = http.StatusText(r.StatusCode)
	}
	return &apperrors.NetworkError{Status: r.StatusCode, Message: msg}
}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if strings.TrimRight(path, "/") == p {
			return true
		}
	}
	return false
}

// PathEscape escapes one path segment such as a slug or id.
func PathEscape(segment string) string {
	return url.PathEscape(segment)
}
