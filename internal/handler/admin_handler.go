package handlers

import (
	"context"
	"fmt"
	"strings"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/models"
	"blogdesk/internal/pagination"
)

type UserOptions struct {
	Page   int
	Limit  int
	Search string
	Role   string
	Active string
}

func (h *Handlers) Dashboard(ctx context.Context) error {
	if _, err := h.Session.RequireAdmin(); err != nil {
		return err
	}

	var stats *models.DashboardStats
	err := h.wait("Loading dashboard", func() error {
		var err error
		stats, err = h.AdminService.Stats(ctx)
		return err
	})
	if err != nil {
		return err
	}

	table := newTable(h.Out, "Metric", "Count", "Share")
	table.AppendBulk([][]string{
		{"Users", count(stats.Users.Total), ""},
		{"Blogs", count(stats.Blogs.Total), ""},
		{"  " + statusLabel(models.StatusPending), count(stats.Blogs.Pending), share(stats, stats.Blogs.Pending)},
		{"  " + statusLabel(models.StatusPublished), count(stats.Blogs.Published), share(stats, stats.Blogs.Published)},
		{"  " + statusLabel(models.StatusRejected), count(stats.Blogs.Rejected), share(stats, stats.Blogs.Rejected)},
		{"Comments", count(stats.Engagement.TotalComments), ""},
		{"New blogs this week", count(stats.RecentActivity.NewBlogsThisWeek), ""},
		{"New users this week", count(stats.RecentActivity.NewUsersThisWeek), ""},
	})
	table.Render()

	if len(stats.TopAuthors) > 0 {
		fmt.Fprintln(h.Out)
		fmt.Fprintln(h.Out, headingColor.Sprint("Top authors"))
		authors := newTable(h.Out, "Author", "Blogs")
		for _, a := range stats.TopAuthors {
			name := a.FullName
			if name == "" {
				name = a.Username
			}
			authors.Append([]string{name, count(a.BlogCount)})
		}
		authors.Render()
	}

	if len(stats.PopularBlogs) > 0 {
		fmt.Fprintln(h.Out)
		fmt.Fprintln(h.Out, headingColor.Sprint("Popular blogs"))
		blogTable(h.Out, stats.PopularBlogs, false)
	}
	return nil
}

func share(stats *models.DashboardStats, n int) string {
	return fmt.Sprintf("%.1f%%", stats.Share(n))
}

func (h *Handlers) PendingBlogs(ctx context.Context, opts ListOptions) error {
	if _, err := h.Session.RequireAdmin(); err != nil {
		return err
	}
	opts.Status = ""
	state, err := h.listState(opts, "pending blogs")
	if err != nil {
		return err
	}
	return h.showBlogs(ctx, state, h.AdminService.PendingBlogs, true)
}

func (h *Handlers) AdminBlogs(ctx context.Context, opts ListOptions) error {
	if _, err := h.Session.RequireAdmin(); err != nil {
		return err
	}
	if opts.Status == "" {
		opts.Status = "all"
	}
	state, err := h.listState(opts, "blogs")
	if err != nil {
		return err
	}
	return h.showBlogs(ctx, state, h.AdminService.Blogs, true)
}

func (h *Handlers) Approve(ctx context.Context, slug string) error {
	if _, err := h.Session.RequireAdmin(); err != nil {
		return err
	}

	blog, err := h.BlogService.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	approved, err := h.Gate.Approve(ctx, blog)
	if err != nil {
		return err
	}
	h.success("Approved %q. It is now %s.", approved.Title, statusLabel(approved.Status))
	return nil
}

// Reject refuses an empty reason before loading anything.
func (h *Handlers) Reject(ctx context.Context, slug, reason string) error {
	if _, err := h.Session.RequireAdmin(); err != nil {
		return err
	}

	reason, err := h.ask(reason, "Reason for rejection")
	if err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return apperrors.NewValidation("reason", "Please provide a rejection reason")
	}

	blog, err := h.BlogService.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	rejected, err := h.Gate.Reject(ctx, blog, reason)
	if err != nil {
		return err
	}
	h.success("Rejected %q: %s", rejected.Title, rejected.RejectionReason)
	return nil
}

func (h *Handlers) HardDelete(ctx context.Context, slug string) error {
	if _, err := h.Session.RequireAdmin(); err != nil {
		return err
	}

	blog, err := h.BlogService.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	ok, err := h.confirm(fmt.Sprintf("Permanently delete %q? This cannot be undone.", blog.Title))
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	if err := h.Gate.HardDelete(ctx, blog); err != nil {
		return err
	}
	h.success("Blog permanently deleted.")
	return nil
}

func (h *Handlers) Users(ctx context.Context, opts UserOptions) error {
	if _, err := h.Session.RequireAdmin(); err != nil {
		return err
	}

	state := pagination.New(h.pageSize(opts.Limit), "users")
	switch opts.Role {
	case "", "all":
	case string(models.RoleUser), string(models.RoleAdmin):
		state.SetFilter("role", opts.Role)
	default:
		return apperrors.NewValidation("role", "Unknown role %q", opts.Role)
	}
	switch opts.Active {
	case "", "all":
	case "true", "false":
		state.SetFilter("isActive", opts.Active)
	default:
		return apperrors.NewValidation("active", "Active must be true, false or all")
	}
	if opts.Search != "" {
		state.SubmitSearch(opts.Search)
	}
	state.Jump(opts.Page)

	var page *models.Page[models.User]
	err := h.wait("Loading users", func() error {
		var err error
		page, err = h.AdminService.Users(ctx, state.UserParams())
		return err
	})
	if err != nil {
		return err
	}
	pagination.Apply(state, page)

	if len(page.Items) == 0 {
		fmt.Fprintln(h.Out, "No users found.")
		return nil
	}
	userTable(h.Out, page.Items)
	footer(h.Out, state, len(page.Items))
	return nil
}

func (h *Handlers) SetRole(ctx context.Context, userID, role string) error {
	admin, err := h.Session.RequireAdmin()
	if err != nil {
		return err
	}
	if userID == admin.ID {
		return &apperrors.PermissionError{Message: "You cannot change your own role"}
	}
	if role != string(models.RoleUser) && role != string(models.RoleAdmin) {
		return apperrors.NewValidation("role", "Role must be user or admin")
	}

	ok, err := h.confirm(fmt.Sprintf("Change the role of %s to %s?", userID, role))
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	user, err := h.AdminService.UpdateUserRole(ctx, userID, models.RoleRequest{Role: models.Role(role)})
	if err != nil {
		return err
	}
	if user == nil {
		h.success("%s is now %s.", userID, roleLabel(models.Role(role)))
		return nil
	}
	h.success("%s is now %s.", user.Username, roleLabel(user.Role))
	return nil
}

func (h *Handlers) ToggleActive(ctx context.Context, userID string) error {
	admin, err := h.Session.RequireAdmin()
	if err != nil {
		return err
	}
	if userID == admin.ID {
		return &apperrors.PermissionError{Message: "You cannot deactivate your own account"}
	}

	ok, err := h.confirm(fmt.Sprintf("Toggle whether %s can sign in?", userID))
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	user, err := h.AdminService.ToggleUserActive(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		h.success("Sign-in access of %s toggled.", userID)
		return nil
	}
	state := "deactivated"
	if user.IsActive {
		state = "activated"
	}
	h.success("%s %s.", user.Username, state)
	return nil
}

// RemoveComment deletes any comment by id, without loading its blog.
func (h *Handlers) RemoveComment(ctx context.Context, commentID string) error {
	if _, err := h.Session.RequireAdmin(); err != nil {
		return err
	}

	ok, err := h.confirm("Delete this comment?")
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	if err := h.AdminService.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	h.success("Comment deleted.")
	return nil
}
