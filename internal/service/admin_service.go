package service

import (
	"context"
	"fmt"
	"log/slog"

	"blogdesk/internal/api"
	"blogdesk/internal/models"
	"blogdesk/internal/validation"
)

type AdminService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	PendingBlogs(ctx context.Context, params models.BlogListParams) (*models.Page[models.Blog], error)
	Blogs(ctx context.Context, params models.BlogListParams) (*models.Page[models.Blog], error)
	// Approve and Reject return nil without error when the backend applied
	// the change but sent no blog back.
	Approve(ctx context.Context, blogID string) (*models.Blog, error)
	Reject(ctx context.Context, blogID string, req models.RejectRequest) (*models.Blog, error)
	DeleteBlog(ctx context.Context, blogID string) error
	Users(ctx context.Context, params models.UserListParams) (*models.Page[models.User], error)
	// UpdateUserRole and ToggleUserActive may likewise return a nil user.
	UpdateUserRole(ctx context.Context, userID string, req models.RoleRequest) (*models.User, error)
	ToggleUserActive(ctx context.Context, userID string) (*models.User, error)
	DeleteComment(ctx context.Context, commentID string) error
}

type adminService struct {
	client    API
	validator *validation.Validator
	logger    *slog.Logger
}

func NewAdminService(client API, v *validation.Validator, logger *slog.Logger) AdminService {
	return &adminService{
		client:    client,
		validator: v,
		logger:    logger,
	}
}

func (s *adminService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var resp models.DashboardResponse
	if err := s.client.Get(ctx, "/admin/stats", nil, &resp); err != nil {
		return nil, fmt.Errorf("error loading dashboard: %w", err)
	}
	return &resp.Stats, nil
}

func (s *adminService) PendingBlogs(ctx context.Context, params models.BlogListParams) (*models.Page[models.Blog], error) {
	return s.listBlogs(ctx, "/admin/blogs/pending", params)
}

func (s *adminService) Blogs(ctx context.Context, params models.BlogListParams) (*models.Page[models.Blog], error) {
	if params.Status == "all" {
		params.Status = ""
	}
	return s.listBlogs(ctx, "/admin/blogs", params)
}

func (s *adminService) listBlogs(ctx context.Context, path string, params models.BlogListParams) (*models.Page[models.Blog], error) {
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

func (s *adminService) Approve(ctx context.Context, blogID string) (*models.Blog, error) {
	var resp models.BlogChangeResponse
	if err := s.client.Put(ctx, "/admin/blogs/"+api.PathEscape(blogID)+"/approve", nil, &resp); err != nil {
		return nil, fmt.Errorf("error approving blog: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid blog response: %w", err)
	}
	return resp.Blog, nil
}

func (s *adminService) Reject(ctx context.Context, blogID string, req models.RejectRequest) (*models.Blog, error) {
	req.Normalize()
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	var resp models.BlogChangeResponse
	if err := s.client.Put(ctx, "/admin/blogs/"+api.PathEscape(blogID)+"/reject", &req, &resp); err != nil {
		return nil, fmt.Errorf("error rejecting blog: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid blog response: %w", err)
	}
	return resp.Blog, nil
}

func (s *adminService) DeleteBlog(ctx context.Context, blogID string) error {
	if err := s.client.Delete(ctx, "/admin/blogs/"+api.PathEscape(blogID), nil); err != nil {
		return fmt.Errorf("error deleting blog: %w", err)
	}
	return nil
}

func (s *adminService) Users(ctx context.Context, params models.UserListParams) (*models.Page[models.User], error) {
	var resp models.UserListResponse
	if err := s.client.Get(ctx, "/admin/users", params, &resp); err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid user list response: %w", err)
	}
	return pageOf(resp.Users, resp.Total, resp.TotalPages), nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, userID string, req models.RoleRequest) (*models.User, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	var resp models.UserChangeResponse
	if err := s.client.Put(ctx, "/admin/users/"+api.PathEscape(userID)+"/role", &req, &resp); err != nil {
		return nil, fmt.Errorf("error updating role: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid user response: %w", err)
	}
	return resp.User, nil
}

func (s *adminService) ToggleUserActive(ctx context.Context, userID string) (*models.User, error) {
	var resp models.UserChangeResponse
	if err := s.client.Put(ctx, "/admin/users/"+api.PathEscape(userID)+"/toggle-active", nil, &resp); err != nil {
		return nil, fmt.Errorf("error updating user status: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid user response: %w", err)
	}
	return resp.User, nil
}

func (s *adminService) DeleteComment(ctx context.Context, commentID string) error {
	if err := s.client.Delete(ctx, "/admin/comments/"+api.PathEscape(commentID), nil); err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	return nil
}
