package service

import (
	"context"
	"fmt"
	"log/slog"

	"blogdesk/internal/api"
	"blogdesk/internal/content"
	"blogdesk/internal/models"
	"blogdesk/internal/validation"
)

type BlogService interface {
	List(ctx context.Context, params models.BlogListParams) (*models.Page[models.Blog], error)
	GetBySlug(ctx context.Context, slug string) (*models.Blog, error)
	Trending(ctx context.Context, limit int) ([]models.Blog, error)
	Related(ctx context.Context, blogID string, limit int) ([]models.Blog, error)
	MyBlogs(ctx context.Context, params models.BlogListParams) (*models.Page[models.Blog], error)
	Create(ctx context.Context, req models.BlogRequest) (*models.Blog, error)
	Update(ctx context.Context, blogID string, req models.BlogRequest) (*models.Blog, error)
	Delete(ctx context.Context, blogID string) error
	ToggleLike(ctx context.Context, blogID string) (*models.LikeResponse, error)
	Stats(ctx context.Context, blogID string) (*models.BlogStats, error)
}

type blogService struct {
	client    API
	validator *validation.Validator
	logger    *slog.Logger
}

func NewBlogService(client API, v *validation.Validator, logger *slog.Logger) BlogService {
	return &blogService{
		client:    client,
		validator: v,
		logger:    logger,
	}
}

func (s *blogService) List(ctx context.Context, params models.BlogListParams) (*models.Page[models.Blog], error) {
	return s.list(ctx, "/blogs", params)
}

func (s *blogService) MyBlogs(ctx context.Context, params models.BlogListParams) (*models.Page[models.Blog], error) {
	// "all" is a UI choice, not a backend filter
	if params.Status == "all" {
		params.Status = ""
	}
	return s.list(ctx, "/blogs/user/my-blogs", params)
}

func (s *blogService) list(ctx context.Context, path string, params models.BlogListParams) (*models.Page[models.Blog], error) {
	var resp models.BlogListResponse
	if err := s.client.Get(ctx, path, params, &resp); err != nil {
		return nil, fmt.Errorf("error listing blogs: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid blog list response: %w", err)
	}

	checkBlogs(s.logger, resp.Blogs...)
	return pageOf(resp.Blogs, resp.Total, resp.TotalPages), nil
}

func (s *blogService) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var resp models.BlogResponse
	if err := s.client.Get(ctx, "/blogs/"+api.PathEscape(slug), nil, &resp); err != nil {
		return nil, fmt.Errorf("error loading blog %s: %w", slug, err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid blog response: %w", err)
	}

	checkBlogs(s.logger, *resp.Blog)
	return resp.Blog, nil
}

func (s *blogService) Trending(ctx context.Context, limit int) ([]models.Blog, error) {
	var resp models.BlogListResponse
	if err := s.client.Get(ctx, "/blogs/trending", models.LimitParams{Limit: limit}, &resp); err != nil {
		return nil, fmt.Errorf("error loading trending blogs: %w", err)
	}
	return resp.Blogs, nil
}

func (s *blogService) Related(ctx context.Context, blogID string, limit int) ([]models.Blog, error) {
	var resp models.BlogListResponse
	path := "/blogs/" + api.PathEscape(blogID) + "/related"
	if err := s.client.Get(ctx, path, models.LimitParams{Limit: limit}, &resp); err != nil {
		return nil, fmt.Errorf("error loading related blogs: %w", err)
	}
	return resp.Blogs, nil
}

// prepare normalizes a draft the way the editor form does before sending.
func prepare(req *models.BlogRequest) {
	req.Normalize()
	req.Content = content.Sanitize(req.Content)
	req.Tags = content.NormalizeTags(req.Tags)
}

func (s *blogService) Create(ctx context.Context, req models.BlogRequest) (*models.Blog, error) {
	prepare(&req)
	req.Status = ""
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	var resp models.BlogResponse
	if err := s.client.Post(ctx, "/blogs", &req, &resp); err != nil {
		return nil, fmt.Errorf("error creating blog: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid blog response: %w", err)
	}

	return resp.Blog, nil
}

// Update always sends the blog back to review. The returned blog is nil
// when the backend confirms without sending it.
func (s *blogService) Update(ctx context.Context, blogID string, req models.BlogRequest) (*models.Blog, error) {
	prepare(&req)
	req.Status = models.StatusPending
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	var resp models.BlogChangeResponse
	if err := s.client.Put(ctx, "/blogs/"+api.PathEscape(blogID), &req, &resp); err != nil {
		return nil, fmt.Errorf("error updating blog: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid blog response: %w", err)
	}

	return resp.Blog, nil
}

func (s *blogService) Delete(ctx context.Context, blogID string) error {
	if err := s.client.Delete(ctx, "/blogs/"+api.PathEscape(blogID), nil); err != nil {
		return fmt.Errorf("error deleting blog: %w", err)
	}
	return nil
}

func (s *blogService) ToggleLike(ctx context.Context, blogID string) (*models.LikeResponse, error) {
	var resp models.LikeResponse
	if err := s.client.Post(ctx, "/blogs/"+api.PathEscape(blogID)+"/like", nil, &resp); err != nil {
		return nil, fmt.Errorf("error toggling like: %w", err)
	}
	return &resp, nil
}

func (s *blogService) Stats(ctx context.Context, blogID string) (*models.BlogStats, error) {
	var resp models.BlogStatsResponse
	if err := s.client.Get(ctx, "/blogs/"+api.PathEscape(blogID)+"/stats", nil, &resp); err != nil {
		return nil, fmt.Errorf("error loading blog stats: %w", err)
	}
	return &resp.Stats, nil
}
