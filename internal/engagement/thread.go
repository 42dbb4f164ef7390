package engagement

import (
	"context"
	"errors"
	"slices"
	"sync"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/models"
)

// ErrClosed is returned when a response arrives after the view closed.
// The response is dropped.
var ErrClosed = errors.New("view closed")

type BlogLiker interface {
	ToggleLike(ctx context.Context, blogID string) (*models.LikeResponse, error)
}

type Comments interface {
	Create(ctx context.Context, blogID string, req models.CommentRequest) (*models.Comment, error)
	Update(ctx context.Context, commentID string, req models.CommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, commentID string) error
	ToggleLike(ctx context.Context, commentID string) (*models.LikeResponse, error)
}

// Moderator removes any comment; used when an admin deletes someone
// else's comment.
type Moderator interface {
	DeleteComment(ctx context.Context, commentID string) error
}

// Thread is the engagement state of one open blog detail view.
type Thread struct {
	blogs     BlogLiker
	comments  Comments
	moderator Moderator
	viewer    *models.User
	toggler   *Toggler

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	blog     models.Blog
	list     []models.Comment
	closed   bool
	onChange func()
}

func NewThread(blog models.Blog, comments []models.Comment, viewer *models.User, blogs BlogLiker, commentSvc Comments) *Thread {
	ctx, cancel := context.WithCancel(context.Background())
	return &Thread{
		blogs:    blogs,
		comments: commentSvc,
		viewer:   viewer,
		toggler:  NewToggler(),
		ctx:      ctx,
		cancel:   cancel,
		blog:     cloneBlog(blog),
		list:     slices.Clone(comments),
	}
}

// WithModerator lets an admin viewer delete other users' comments.
func (t *Thread) WithModerator(m Moderator) *Thread {
	t.moderator = m
	return t
}

// OnChange registers fn to run after every visible change.
func (t *Thread) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Close discards every later response. Requests still running are
// cancelled.
func (t *Thread) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.cancel()
}

func (t *Thread) Blog() models.Blog {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneBlog(t.blog)
}

func (t *Thread) Comments() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Comment, len(t.list))
	for i := range t.list {
		out[i] = cloneComment(t.list[i])
	}
	return out
}

// scoped ties ctx to the lifetime of the thread.
func (t *Thread) scoped(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(t.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// update applies fn under the lock unless the thread is closed.
func (t *Thread) update(fn func()) bool {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return false
	}
	fn()
	notify := t.onChange
	t.mu.Unlock()

	if notify != nil {
		notify()
	}
	return true
}

func (t *Thread) viewerID() (string, error) {
	if t.viewer == nil {
		return "", &apperrors.AuthError{Message: "Please log in to like or comment"}
	}
	return t.viewer.ID, nil
}

func (t *Thread) LikeBlog(ctx context.Context) (State, error) {
	uid, err := t.viewerID()
	if err != nil {
		return State{}, err
	}

	t.mu.Lock()
	blogID := t.blog.ID
	t.mu.Unlock()

	load := func() (State, error) {
		t.mu.Lock()
		defer t.mu.Unlock()
		return State{Liked: t.blog.LikedBy(uid), Count: t.blog.LikesCount}, nil
	}

	ctx, cancel := t.scoped(ctx)
	defer cancel()

	render := func(s State) {
		t.update(func() {
			t.blog.LikesCount = s.Count
			t.blog.Likes = setMember(t.blog.Likes, uid, s.Liked)
		})
	}

	state, err := t.toggler.Toggle(ctx, "blog:"+blogID, load, render, func(ctx context.Context) (*models.LikeResponse, error) {
		return t.blogs.ToggleLike(ctx, blogID)
	})
	return state, t.closedErr(err)
}

func (t *Thread) LikeComment(ctx context.Context, commentID string) (State, error) {
	uid, err := t.viewerID()
	if err != nil {
		return State{}, err
	}

	load := func() (State, error) {
		t.mu.Lock()
		defer t.mu.Unlock()
		i := t.indexOf(commentID)
		if i < 0 {
			return State{}, &apperrors.NotFoundError{Resource: "comment", Message: "Comment not found"}
		}
		return State{Liked: t.list[i].LikedBy(uid), Count: t.list[i].LikesCount}, nil
	}

	ctx, cancel := t.scoped(ctx)
	defer cancel()

	render := func(s State) {
		t.update(func() {
			if j := t.indexOf(commentID); j >= 0 {
				t.list[j].LikesCount = s.Count
				t.list[j].Likes = setMember(t.list[j].Likes, uid, s.Liked)
			}
		})
	}

	state, err := t.toggler.Toggle(ctx, "comment:"+commentID, load, render, func(ctx context.Context) (*models.LikeResponse, error) {
		return t.comments.ToggleLike(ctx, commentID)
	})
	return state, t.closedErr(err)
}

// AddComment shows the new comment first and bumps the blog's count once
// the backend has stored it.
func (t *Thread) AddComment(ctx context.Context, text string) (*models.Comment, error) {
	if _, err := t.viewerID(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	blogID := t.blog.ID
	t.mu.Unlock()

	ctx, cancel := t.scoped(ctx)
	defer cancel()

	c, err := t.comments.Create(ctx, blogID, models.CommentRequest{Content: text})
	if err != nil {
		return nil, t.closedErr(err)
	}

	if !t.update(func() {
		t.list = append([]models.Comment{cloneComment(*c)}, t.list...)
		t.blog.CommentsCount++
	}) {
		return nil, ErrClosed
	}
	return c, nil
}

func (t *Thread) EditComment(ctx context.Context, commentID, text string) (*models.Comment, error) {
	if _, err := t.viewerID(); err != nil {
		return nil, err
	}

	ctx, cancel := t.scoped(ctx)
	defer cancel()

	c, err := t.comments.Update(ctx, commentID, models.CommentRequest{Content: text})
	if err != nil {
		return nil, t.closedErr(err)
	}

	if !t.update(func() {
		if i := t.indexOf(commentID); i >= 0 {
			updated := cloneComment(*c)
			updated.IsEdited = true
			t.list[i] = updated
		}
	}) {
		return nil, ErrClosed
	}
	return c, nil
}

// DeleteComment removes the comment and decrements the blog's count
// immediately, and restores both if the backend refuses.
func (t *Thread) DeleteComment(ctx context.Context, commentID string) error {
	uid, err := t.viewerID()
	if err != nil {
		return err
	}

	t.mu.Lock()
	i := t.indexOf(commentID)
	if i < 0 {
		t.mu.Unlock()
		return &apperrors.NotFoundError{Resource: "comment", Message: "Comment not found"}
	}
	ownComment := t.list[i].Author != nil && t.list[i].Author.ID == uid
	t.mu.Unlock()

	del := t.comments.Delete
	if !ownComment {
		if !t.viewer.IsAdmin() || t.moderator == nil {
			return &apperrors.PermissionError{Message: "You can only delete your own comments"}
		}
		del = t.moderator.DeleteComment
	}

	ctx, cancel := t.scoped(ctx)
	defer cancel()

	err = t.toggler.Do("delete:"+commentID, func() error {
		var (
			removed models.Comment
			at      = -1
		)

		t.update(func() {
			at = t.indexOf(commentID)
			if at < 0 {
				return
			}
			removed = t.list[at]
			t.list = slices.Delete(t.list, at, at+1)
			t.blog.CommentsCount--
		})

		if err := del(ctx, commentID); err != nil {
			if at >= 0 {
				t.update(func() {
					t.list = slices.Insert(t.list, min(at, len(t.list)), removed)
					t.blog.CommentsCount++
				})
			}
			return err
		}
		return nil
	})
	return t.closedErr(err)
}

// closedErr replaces the outcome of a request with ErrClosed once the
// thread has been closed.
func (t *Thread) closedErr(err error) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return err
}

func (t *Thread) indexOf(commentID string) int {
	for i := range t.list {
		if t.list[i].ID == commentID {
			return i
		}
	}
	return -1
}

func setMember(ids []string, id string, present bool) []string {
	i := slices.Index(ids, id)
	switch {
	case present && i < 0:
		return append(slices.Clone(ids), id)
	case !present && i >= 0:
		return slices.Delete(slices.Clone(ids), i, i+1)
	default:
		return ids
	}
}

func cloneBlog(b models.Blog) models.Blog {
	b.Likes = slices.Clone(b.Likes)
	b.Tags = slices.Clone(b.Tags)
	return b
}

func cloneComment(c models.Comment) models.Comment {
	c.Likes = slices.Clone(c.Likes)
	return c
}
