package service

import (
	"context"
	"fmt"

	"blogdesk/internal/api"
	"blogdesk/internal/models"
	"blogdesk/internal/validation"
)

type CommentService interface {
	List(ctx context.Context, blogID string, params models.CommentListParams) (*models.Page[models.Comment], error)
	Create(ctx context.Context, blogID string, req models.CommentRequest) (*models.Comment, error)
	Update(ctx context.Context, commentID string, req models.CommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, commentID string) error
	ToggleLike(ctx context.Context, commentID string) (*models.LikeResponse, error)
}

type commentService struct {
	client    API
	validator *validation.Validator
}

func NewCommentService(client API, v *validation.Validator) CommentService {
	return &commentService{
		client:    client,
		validator: v,
	}
}

func (s *commentService) List(ctx context.Context, blogID string, params models.CommentListParams) (*models.Page[models.Comment], error) {
	var resp models.CommentListResponse
	if err := s.client.Get(ctx, "/comments/"+api.PathEscape(blogID), params, &resp); err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid comment list response: %w", err)
	}

	total := resp.Total
	if total == 0 {
		total = len(resp.Comments)
	}
	return pageOf(resp.Comments, total, max(resp.TotalPages, 1)), nil
}

func (s *commentService) Create(ctx context.Context, blogID string, req models.CommentRequest) (*models.Comment, error) {
	req.Normalize()
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	var resp models.CommentResponse
	if err := s.client.Post(ctx, "/comments/"+api.PathEscape(blogID), &req, &resp); err != nil {
		return nil, fmt.Errorf("error adding comment: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid comment response: %w", err)
	}

	return resp.Comment, nil
}

func (s *commentService) Update(ctx context.Context, commentID string, req models.CommentRequest) (*models.Comment, error) {
	req.Normalize()
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	var resp models.CommentResponse
	if err := s.client.Put(ctx, "/comments/"+api.PathEscape(commentID), &req, &resp); err != nil {
		return nil, fmt.Errorf("error updating comment: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid comment response: %w", err)
	}

	return resp.Comment, nil
}

func (s *commentService) Delete(ctx context.Context, commentID string) error {
	if err := s.client.Delete(ctx, "/comments/"+api.PathEscape(commentID), nil); err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	return nil
}

func (s *commentService) ToggleLike(ctx context.Context, commentID string) (*models.LikeResponse, error) {
	var resp models.LikeResponse
	if err := s.client.Post(ctx, "/comments/"+api.PathEscape(commentID)+"/like", nil, &resp); err != nil {
		return nil, fmt.Errorf("error toggling like: %w", err)
	}
	return &resp, nil
}
