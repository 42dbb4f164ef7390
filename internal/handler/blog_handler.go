package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/content"
	"blogdesk/internal/engagement"
	"blogdesk/internal/models"
	"blogdesk/internal/moderation"
	"blogdesk/internal/pagination"
	"blogdesk/internal/service"
	"blogdesk/internal/storage"
)

const excerptLength = 150

type ListOptions struct {
	Page           int
	Limit          int
	Category       string
	Search         string
	Sort           string
	Status         string
	IncludeDeleted bool
}

// BlogInput is a draft from flags. Empty fields keep the current value on
// edit.
type BlogInput struct {
	Title       string
	Content     string
	ContentFile string
	Excerpt     string
	Category    string
	Tags        string
	CoverImage  string
	CoverPath   string
}

type blogFetcher func(ctx context.Context, params models.BlogListParams) (*models.Page[models.Blog], error)

var statusFilters = []string{"all", string(models.StatusPending), string(models.StatusPublished), string(models.StatusRejected)}

func validStatus(status string) error {
	for _, s := range statusFilters {
		if s == status {
			return nil
		}
	}
	return apperrors.NewValidation("status", "Unknown status %q, expected one of %s", status, strings.Join(statusFilters, ", "))
}

func categoryFilter(value string) (string, error) {
	if strings.TrimSpace(value) == "" || strings.EqualFold(value, "all") {
		return "", nil
	}
	c, ok := models.ParseCategory(value)
	if !ok {
		return "", apperrors.NewValidation("category", "Unknown category %q", value)
	}
	return string(c), nil
}

// listState turns options into a pagination state, rejecting unknown
// filter values before anything is sent.
func (h *Handlers) listState(opts ListOptions, noun string) (*pagination.State, error) {
	state := pagination.New(h.pageSize(opts.Limit), noun)

	category, err := categoryFilter(opts.Category)
	if err != nil {
		return nil, err
	}
	state.SetFilter("category", category)
	state.SetFilter("sort", opts.Sort)

	if opts.Status != "" {
		if err := validStatus(opts.Status); err != nil {
			return nil, err
		}
		state.SetFilter("status", opts.Status)
	}
	if opts.IncludeDeleted {
		state.SetFilter("includeDeleted", "true")
	}
	if opts.Search != "" {
		state.SubmitSearch(opts.Search)
	}
	state.Jump(opts.Page)
	return state, nil
}

// showBlogs fetches the state's current page and renders it.
func (h *Handlers) showBlogs(ctx context.Context, state *pagination.State, fetch blogFetcher, withStatus bool) error {
	var page *models.Page[models.Blog]
	err := h.wait("Loading blogs", func() error {
		var err error
		page, err = fetch(ctx, state.BlogParams())
		return err
	})
	if err != nil {
		return err
	}
	pagination.Apply(state, page)

	if len(page.Items) == 0 {
		fmt.Fprintln(h.Out, "No blogs found.")
		return nil
	}
	blogTable(h.Out, page.Items, withStatus)
	footer(h.Out, state, len(page.Items))
	return nil
}

func (h *Handlers) ListBlogs(ctx context.Context, opts ListOptions) error {
	opts.Status = ""
	opts.IncludeDeleted = false
	state, err := h.listState(opts, "blogs")
	if err != nil {
		return err
	}
	return h.showBlogs(ctx, state, h.BlogService.List, false)
}

func (h *Handlers) MyBlogs(ctx context.Context, opts ListOptions) error {
	if _, err := h.Session.RequireUser(); err != nil {
		return err
	}
	if opts.Status == "" {
		opts.Status = "all"
	}
	opts.IncludeDeleted = false
	state, err := h.listState(opts, "blogs")
	if err != nil {
		return err
	}
	return h.showBlogs(ctx, state, h.BlogService.MyBlogs, true)
}

func (h *Handlers) Trending(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = 5
	}
	var blogs []models.Blog
	err := h.wait("Loading trending blogs", func() error {
		var err error
		blogs, err = h.BlogService.Trending(ctx, limit)
		return err
	})
	if err != nil {
		return err
	}
	if len(blogs) == 0 {
		fmt.Fprintln(h.Out, "Nothing is trending yet.")
		return nil
	}
	blogTable(h.Out, blogs, false)
	return nil
}

// ShowBlog prints a blog with one page of comments, related reading and
// the actions the viewer may take.
func (h *Handlers) ShowBlog(ctx context.Context, slug string, commentPage int) error {
	state := pagination.New(h.pageSize(0), "comments")
	state.Jump(commentPage)

	var page *service.BlogPage
	err := h.wait("Loading blog", func() error {
		var err error
		page, err = h.Pages.BlogPage(ctx, slug, state.CommentParams())
		return err
	})
	if err != nil {
		return err
	}

	viewer := h.Session.CurrentUser()
	blogDetail(h.Out, page.Blog, viewer)
	actionLine(h.Out, moderation.AvailableActions(page.Blog, viewer))

	if page.Comments != nil {
		pagination.Apply(state, page.Comments)
		fmt.Fprintln(h.Out)
		fmt.Fprintln(h.Out, headingColor.Sprintf("Comments (%s)", count(page.Blog.CommentsCount)))
		if len(page.Comments.Items) == 0 {
			fmt.Fprintln(h.Out, mutedColor.Sprint("No comments yet."))
		} else {
			commentTable(h.Out, page.Comments.Items, viewer)
			footer(h.Out, state, len(page.Comments.Items))
		}
	}

	if len(page.Related) > 0 {
		fmt.Fprintln(h.Out)
		fmt.Fprintln(h.Out, headingColor.Sprint("Related"))
		for _, r := range page.Related {
			fmt.Fprintf(h.Out, "  %s  %s\n", r.Slug, truncate(r.Title, titleWidth))
		}
	}
	return nil
}

func (h *Handlers) BlogStats(ctx context.Context, slug string) error {
	blog, err := h.BlogService.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	stats, err := h.BlogService.Stats(ctx, blog.ID)
	if err != nil {
		return err
	}

	table := newTable(h.Out, "Views", "Likes", "Comments", "Words", "Read time")
	table.Append([]string{
		count(stats.Views),
		count(stats.LikesCount),
		count(stats.CommentsCount),
		count(content.WordCount(blog.Content)),
		fmt.Sprintf("%d min", content.ReadingTime(blog.Content)),
	})
	table.Render()
	return nil
}

// draft builds a request from in on top of base. base is nil on create.
func (h *Handlers) draft(in BlogInput, base *models.Blog) (models.BlogRequest, error) {
	var req models.BlogRequest
	if base != nil {
		req = models.BlogRequest{
			Title:      base.Title,
			Content:    base.Content,
			Excerpt:    base.Excerpt,
			CoverImage: base.CoverImage,
			Category:   base.Category,
			Tags:       base.Tags,
		}
	}

	if in.Title != "" {
		req.Title = in.Title
	}
	if in.ContentFile != "" {
		raw, err := os.ReadFile(in.ContentFile)
		if err != nil {
			return req, fmt.Errorf("error reading content file: %w", err)
		}
		req.Content = string(raw)
	} else if in.Content != "" {
		req.Content = in.Content
	}
	if in.Excerpt != "" {
		req.Excerpt = in.Excerpt
	} else if base == nil && req.Content != "" {
		req.Excerpt = content.Excerpt(req.Content, excerptLength)
	}
	if in.Category != "" {
		c, ok := models.ParseCategory(in.Category)
		if !ok {
			return req, apperrors.NewValidation("category", "Unknown category %q", in.Category)
		}
		req.Category = c
	}
	if in.Tags != "" {
		req.Tags = content.ParseTags(in.Tags)
	}
	if in.CoverImage != "" {
		req.CoverImage = in.CoverImage
	}
	return req, nil
}

// uploadCover uploads a local cover image and points req at it.
func (h *Handlers) uploadCover(ctx context.Context, path string, req *models.BlogRequest) (*storage.Object, error) {
	if path == "" {
		return nil, nil
	}
	var obj *storage.Object
	err := h.wait("Uploading cover image", func() error {
		var err error
		obj, err = h.MediaService.UploadFile(ctx, path)
		return err
	})
	if err != nil {
		return nil, err
	}
	req.CoverImage = obj.URL
	return obj, nil
}

func (h *Handlers) CreateBlog(ctx context.Context, in BlogInput) error {
	if _, err := h.Session.RequireUser(); err != nil {
		return err
	}

	req, err := h.draft(in, nil)
	if err != nil {
		return err
	}
	cover, err := h.uploadCover(ctx, in.CoverPath, &req)
	if err != nil {
		return err
	}

	var blog *models.Blog
	err = h.wait("Submitting blog", func() error {
		blog, err = h.Gate.Submit(ctx, req)
		return err
	})
	if err != nil {
		h.discard(ctx, cover)
		return err
	}

	h.success("Blog %q submitted for review.", blog.Title)
	fmt.Fprintf(h.Out, "Slug: %s · Status: %s\n", blog.Slug, statusLabel(blog.Status))
	fmt.Fprintln(h.Out, mutedColor.Sprint("It becomes visible once an admin approves it."))
	return nil
}

// EditBlog warns before sending a published or rejected blog back to
// review.
func (h *Handlers) EditBlog(ctx context.Context, slug string, in BlogInput) error {
	if _, err := h.Session.RequireUser(); err != nil {
		return err
	}

	blog, err := h.BlogService.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !moderation.Allowed(blog, h.Session.CurrentUser(), moderation.ActionEdit) {
		return &apperrors.PermissionError{Message: "You can only edit your own blogs"}
	}

	req, err := h.draft(in, blog)
	if err != nil {
		return err
	}

	if notice := moderation.EditNotice(blog); notice != "" {
		h.notice("%s", notice)
		ok, err := h.confirm("Save changes?")
		if err != nil {
			return err
		}
		if !ok {
			return ErrCancelled
		}
	}

	cover, err := h.uploadCover(ctx, in.CoverPath, &req)
	if err != nil {
		return err
	}

	var res *moderation.EditResult
	err = h.wait("Saving blog", func() error {
		res, err = h.Gate.Edit(ctx, blog, req)
		return err
	})
	if err != nil {
		h.discard(ctx, cover)
		return err
	}

	h.success("Blog %q updated.", res.Blog.Title)
	if res.ResetToPending {
		fmt.Fprintf(h.Out, "Status: %s → %s. It is hidden until an admin approves it again.\n",
			statusLabel(res.PreviousStatus), statusLabel(res.Blog.Status))
	}
	return nil
}

func (h *Handlers) DeleteBlog(ctx context.Context, slug string) error {
	if _, err := h.Session.RequireUser(); err != nil {
		return err
	}

	blog, err := h.BlogService.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	ok, err := h.confirm(fmt.Sprintf("Delete %q?", blog.Title))
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	if err := h.Gate.SoftDelete(ctx, blog); err != nil {
		return err
	}
	h.success("Blog deleted.")
	return nil
}

func (h *Handlers) LikeBlog(ctx context.Context, slug string) error {
	user, err := h.Session.RequireUser()
	if err != nil {
		return err
	}

	blog, err := h.BlogService.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !moderation.Allowed(blog, user, moderation.ActionLike) {
		return apperrors.NewValidation("blog", "Only published blogs can be liked")
	}

	thread := engagement.NewThread(*blog, nil, user, h.BlogService, h.CommentService)
	defer thread.Close()

	state, err := thread.LikeBlog(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(h.Out, likeLine(state.Liked, state.Count))
	return nil
}
