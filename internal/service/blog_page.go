package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"blogdesk/internal/models"
)

const relatedLimit = 3

// BlogPage is everything the detail view shows.
type BlogPage struct {
	Blog     *models.Blog
	Comments *models.Page[models.Comment]
	Related  []models.Blog
}

// BlogPage loads a blog, then its comments and related blogs in parallel.
// Related blogs are decoration: failing to load them leaves Related empty
// instead of failing the page.
func (s *Service) BlogPage(ctx context.Context, slug string, params models.CommentListParams) (*BlogPage, error) {
	blog, err := s.Blog.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	page := &BlogPage{Blog: blog}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		comments, err := s.Comment.List(gctx, blog.ID, params)
		if err != nil {
			return err
		}
		page.Comments = comments
		return nil
	})

	g.Go(func() error {
		related, err := s.Blog.Related(gctx, blog.ID, relatedLimit)
		if err != nil {
			s.logger.Warn("related blogs unavailable", slog.String("blog_id", blog.ID), slog.Any("error", err))
			return nil
		}
		page.Related = related
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return page, nil
}
