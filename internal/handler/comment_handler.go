package handlers

import (
	"context"
	"fmt"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/engagement"
	"blogdesk/internal/models"
	"blogdesk/internal/pagination"
)

// maxCommentPages bounds the search for a comment by id.
const maxCommentPages = 20

func (h *Handlers) ListComments(ctx context.Context, slug string, page, limit int) error {
	blog, err := h.BlogService.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	state := pagination.New(h.pageSize(limit), "comments")
	state.Jump(page)

	comments, err := h.CommentService.List(ctx, blog.ID, state.CommentParams())
	if err != nil {
		return err
	}
	pagination.Apply(state, comments)

	if len(comments.Items) == 0 {
		fmt.Fprintln(h.Out, "No comments yet.")
		return nil
	}
	commentTable(h.Out, comments.Items, h.Session.CurrentUser())
	footer(h.Out, state, len(comments.Items))
	return nil
}

// openThread loads the blog and, when commentID is set, enough comment
// pages to contain it.
func (h *Handlers) openThread(ctx context.Context, slug, commentID string, viewer *models.User) (*engagement.Thread, error) {
	blog, err := h.BlogService.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	if commentID != "" {
		comments, err = h.findComment(ctx, blog.ID, commentID)
		if err != nil {
			return nil, err
		}
	}

	thread := engagement.NewThread(*blog, comments, viewer, h.BlogService, h.CommentService)
	if viewer.IsAdmin() {
		thread.WithModerator(h.AdminService)
	}
	return thread, nil
}

func (h *Handlers) findComment(ctx context.Context, blogID, commentID string) ([]models.Comment, error) {
	state := pagination.New(100, "comments")
	for i := 0; i < maxCommentPages; i++ {
		page, err := h.CommentService.List(ctx, blogID, state.CommentParams())
		if err != nil {
			return nil, err
		}
		pagination.Apply(state, page)
		for _, c := range page.Items {
			if c.ID == commentID {
				return page.Items, nil
			}
		}
		if !state.Next() {
			break
		}
	}
	return nil, &apperrors.NotFoundError{Resource: "comment", Message: "Comment not found"}
}

func (h *Handlers) AddComment(ctx context.Context, slug, text string) error {
	user, err := h.Session.RequireUser()
	if err != nil {
		return err
	}
	if text, err = h.ask(text, "Comment"); err != nil {
		return err
	}

	thread, err := h.openThread(ctx, slug, "", user)
	if err != nil {
		return err
	}
	defer thread.Close()

	if thread.Blog().Status != models.StatusPublished {
		return apperrors.NewValidation("blog", "Comments are only open on published blogs")
	}

	c, err := thread.AddComment(ctx, text)
	if err != nil {
		return err
	}
	h.success("Comment posted (%s). %s comments on this blog.", c.ID, count(thread.Blog().CommentsCount))
	return nil
}

func (h *Handlers) EditComment(ctx context.Context, slug, commentID, text string) error {
	user, err := h.Session.RequireUser()
	if err != nil {
		return err
	}
	if text, err = h.ask(text, "Comment"); err != nil {
		return err
	}

	thread, err := h.openThread(ctx, slug, commentID, user)
	if err != nil {
		return err
	}
	defer thread.Close()

	for _, c := range thread.Comments() {
		if c.ID == commentID && (c.Author == nil || c.Author.ID != user.ID) {
			return &apperrors.PermissionError{Message: "You can only edit your own comments"}
		}
	}

	if _, err := thread.EditComment(ctx, commentID, text); err != nil {
		return err
	}
	h.success("Comment updated.")
	return nil
}

func (h *Handlers) DeleteComment(ctx context.Context, slug, commentID string) error {
	user, err := h.Session.RequireUser()
	if err != nil {
		return err
	}

	thread, err := h.openThread(ctx, slug, commentID, user)
	if err != nil {
		return err
	}
	defer thread.Close()

	for _, c := range thread.Comments() {
		if c.ID == commentID && !user.IsAdmin() && (c.Author == nil || c.Author.ID != user.ID) {
			return &apperrors.PermissionError{Message: "You can only delete your own comments"}
		}
	}

	ok, err := h.confirm("Delete this comment?")
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	if err := thread.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	h.success("Comment deleted. %s comments on this blog.", count(thread.Blog().CommentsCount))
	return nil
}

func (h *Handlers) LikeComment(ctx context.Context, slug, commentID string) error {
	user, err := h.Session.RequireUser()
	if err != nil {
		return err
	}

	thread, err := h.openThread(ctx, slug, commentID, user)
	if err != nil {
		return err
	}
	defer thread.Close()

	state, err := thread.LikeComment(ctx, commentID)
	if err != nil {
		return err
	}
	fmt.Fprintln(h.Out, likeLine(state.Liked, state.Count))
	return nil
}
