package moderation

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/models"
)

type Action string

const (
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionHardDelete Action = "hard-delete"
	ActionLike       Action = "like"
	ActionComment    Action = "comment"
)

// Session is the read side of the auth state.
type Session interface {
	CurrentUser() *models.User
}

// Authoring is the author side of the blog service.
type Authoring interface {
	Create(ctx context.Context, req models.BlogRequest) (*models.Blog, error)
	Update(ctx context.Context, blogID string, req models.BlogRequest) (*models.Blog, error)
	Delete(ctx context.Context, blogID string) error
}

// Reviewing is the admin side.
type Reviewing interface {
	Approve(ctx context.Context, blogID string) (*models.Blog, error)
	Reject(ctx context.Context, blogID string, req models.RejectRequest) (*models.Blog, error)
	DeleteBlog(ctx context.Context, blogID string) error
}

// Gate performs lifecycle changes after checking role, ownership and the
// current status, so an illegal request is never sent.
type Gate struct {
	session Session
	blogs   Authoring
	admin   Reviewing
	now     func() time.Time
}

func NewGate(session Session, blogs Authoring, admin Reviewing) *Gate {
	return &Gate{
		session: session,
		blogs:   blogs,
		admin:   admin,
		now:     time.Now,
	}
}

// EditResult is an accepted edit. ResetToPending is set when the edit took
// a published or rejected blog back to review.
type EditResult struct {
	Blog           *models.Blog
	PreviousStatus models.Status
	ResetToPending bool
}

func (g *Gate) user() (*models.User, error) {
	u := g.session.CurrentUser()
	if u == nil {
		return nil, &apperrors.AuthError{Message: "Please log in to continue"}
	}
	return u, nil
}

func (g *Gate) adminUser() (*models.User, error) {
	u, err := g.user()
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() {
		return nil, &apperrors.PermissionError{Message: "Access denied. Admin privileges required."}
	}
	return u, nil
}

func (g *Gate) author(blog *models.Blog) error {
	u, err := g.user()
	if err != nil {
		return err
	}
	if !blog.IsAuthoredBy(u) {
		return &apperrors.PermissionError{Message: "You can only change your own blogs"}
	}
	return nil
}

func live(blog *models.Blog) error {
	if blog == nil || blog.IsDeleted {
		return &apperrors.NotFoundError{Resource: "blog", Message: "Blog not found"}
	}
	return nil
}

// applied is the blog after a change: the backend's copy when it sent one,
// otherwise a copy of what was sent.
func applied(updated, blog *models.Blog) (*models.Blog, bool) {
	if updated != nil {
		return updated, true
	}
	b := *blog
	b.Tags = slices.Clone(blog.Tags)
	b.Likes = slices.Clone(blog.Likes)
	return &b, false
}

// Submit creates a blog for review.
func (g *Gate) Submit(ctx context.Context, req models.BlogRequest) (*models.Blog, error) {
	if _, err := g.user(); err != nil {
		return nil, err
	}

	blog, err := g.blogs.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if blog.Status == "" {
		blog.Status = models.StatusPending
	}
	return blog, nil
}

func (g *Gate) Approve(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if _, err := g.adminUser(); err != nil {
		return nil, err
	}
	if err := live(blog); err != nil {
		return nil, err
	}
	next, err := Next(ctx, blog.Status, EventApprove)
	if err != nil {
		return nil, err
	}

	snapshot, err := g.admin.Approve(ctx, blog.ID)
	if err != nil {
		return nil, err
	}

	updated, fromBackend := applied(snapshot, blog)
	updated.Status = next
	updated.RejectionReason = ""
	if !fromBackend || updated.PublishedAt == nil {
		at := g.now()
		updated.PublishedAt = &at
	}
	return updated, nil
}

func (g *Gate) Reject(ctx context.Context, blog *models.Blog, reason string) (*models.Blog, error) {
	if _, err := g.adminUser(); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidation("reason", "Please provide a rejection reason")
	}
	if err := live(blog); err != nil {
		return nil, err
	}
	next, err := Next(ctx, blog.Status, EventReject)
	if err != nil {
		return nil, err
	}

	snapshot, err := g.admin.Reject(ctx, blog.ID, models.RejectRequest{Reason: reason})
	if err != nil {
		return nil, err
	}

	updated, fromBackend := applied(snapshot, blog)
	updated.Status = next
	if !fromBackend || strings.TrimSpace(updated.RejectionReason) == "" {
		updated.RejectionReason = reason
	}
	return updated, nil
}

// EditNotice is shown to the author before an edit is submitted.
func EditNotice(blog *models.Blog) string {
	switch blog.Status {
	case models.StatusPublished:
		return "This blog is published. Saving changes sends it back to pending review and hides it until an admin approves it again."
	case models.StatusRejected:
		if blog.RejectionReason != "" {
			return fmt.Sprintf("This blog was rejected: %s. Saving changes resubmits it for review.", blog.RejectionReason)
		}
		return "This blog was rejected. Saving changes resubmits it for review."
	default:
		return ""
	}
}

func (g *Gate) Edit(ctx context.Context, blog *models.Blog, req models.BlogRequest) (*EditResult, error) {
	if err := live(blog); err != nil {
		return nil, err
	}
	if err := g.author(blog); err != nil {
		return nil, err
	}
	next, err := Next(ctx, blog.Status, EventEdit)
	if err != nil {
		return nil, err
	}

	req.Status = next
	snapshot, err := g.blogs.Update(ctx, blog.ID, req)
	if err != nil {
		return nil, err
	}

	updated, fromBackend := applied(snapshot, blog)
	if !fromBackend {
		updated.Title = req.Title
		updated.Content = req.Content
		updated.Excerpt = req.Excerpt
		updated.CoverImage = req.CoverImage
		updated.Category = req.Category
		updated.Tags = slices.Clone(req.Tags)
	}
	updated.Status = next
	updated.RejectionReason = ""

	return &EditResult{
		Blog:           updated,
		PreviousStatus: blog.Status,
		ResetToPending: blog.Status != models.StatusPending,
	}, nil
}

// SoftDelete hides the author's own blog. Only an admin can bring it back
// or remove it for good.
func (g *Gate) SoftDelete(ctx context.Context, blog *models.Blog) error {
	if err := live(blog); err != nil {
		return err
	}
	if err := g.author(blog); err != nil {
		return err
	}

	if err := g.blogs.Delete(ctx, blog.ID); err != nil {
		return err
	}
	blog.IsDeleted = true
	return nil
}

// HardDelete removes any blog permanently.
func (g *Gate) HardDelete(ctx context.Context, blog *models.Blog) error {
	if _, err := g.adminUser(); err != nil {
		return err
	}
	if blog == nil {
		return &apperrors.NotFoundError{Resource: "blog", Message: "Blog not found"}
	}
	return g.admin.DeleteBlog(ctx, blog.ID)
}

// AvailableActions lists what viewer may do with blog right now, in
// display order.
func AvailableActions(blog *models.Blog, viewer *models.User) []Action {
	if blog == nil || viewer == nil {
		return nil
	}

	var actions []Action

	if !blog.IsDeleted {
		if blog.Status == models.StatusPublished {
			actions = append(actions, ActionLike, ActionComment)
		}
		if blog.IsAuthoredBy(viewer) {
			actions = append(actions, ActionEdit, ActionDelete)
		}
		if viewer.IsAdmin() {
			if Can(blog.Status, EventApprove) {
				actions = append(actions, ActionApprove)
			}
			if Can(blog.Status, EventReject) {
				actions = append(actions, ActionReject)
			}
		}
	}

	if viewer.IsAdmin() {
		actions = append(actions, ActionHardDelete)
	}

	return actions
}

// Allowed reports whether action is among AvailableActions.
func Allowed(blog *models.Blog, viewer *models.User, action Action) bool {
	for _, a := range AvailableActions(blog, viewer) {
		if a == action {
			return true
		}
	}
	return false
}
