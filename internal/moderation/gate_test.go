package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogdesk/internal/apperrors"
	"blogdesk/internal/models"
)

type fakeSession struct {
	user *models.User
}

func (f *fakeSession) CurrentUser() *models.User { return f.user }

type MockAuthoring struct {
	mock.Mock
}

func (m *MockAuthoring) Create(ctx context.Context, req models.BlogRequest) (*models.Blog, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockAuthoring) Update(ctx context.Context, blogID string, req models.BlogRequest) (*models.Blog, error) {
	args := m.Called(ctx, blogID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockAuthoring) Delete(ctx context.Context, blogID string) error {
	args := m.Called(ctx, blogID)
	return args.Error(0)
}

type MockReviewing struct {
	mock.Mock
}

func (m *MockReviewing) Approve(ctx context.Context, blogID string) (*models.Blog, error) {
	args := m.Called(ctx, blogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockReviewing) Reject(ctx context.Context, blogID string, req models.RejectRequest) (*models.Blog, error) {
	args := m.Called(ctx, blogID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockReviewing) DeleteBlog(ctx context.Context, blogID string) error {
	args := m.Called(ctx, blogID)
	return args.Error(0)
}

var (
	author = &models.User{ID: "author", Role: models.RoleUser}
	reader = &models.User{ID: "reader", Role: models.RoleUser}
	admin  = &models.User{ID: "admin", Role: models.RoleAdmin}
)

func newTestGate(viewer *models.User) (*Gate, *MockAuthoring, *MockReviewing) {
	blogs := new(MockAuthoring)
	reviews := new(MockReviewing)
	g := NewGate(&fakeSession{user: viewer}, blogs, reviews)
	g.now = func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }
	return g, blogs, reviews
}

func blogWith(status models.Status) *models.Blog {
	b := &models.Blog{ID: "b1", Status: status, Author: author}
	if status == models.StatusRejected {
		b.RejectionReason = "Needs sources"
	}
	return b
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		from    models.Status
		event   string
		want    models.Status
		wantErr bool
	}{
		{models.StatusPending, EventApprove, models.StatusPublished, false},
		{models.StatusPending, EventReject, models.StatusRejected, false},
		{models.StatusPending, EventEdit, models.StatusPending, false},
		{models.StatusPublished, EventEdit, models.StatusPending, false},
		{models.StatusRejected, EventEdit, models.StatusPending, false},
		{models.StatusPublished, EventApprove, models.StatusPublished, true},
		{models.StatusPublished, EventReject, models.StatusPublished, true},
		{models.StatusRejected, EventApprove, models.StatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" "+tt.event, func(t *testing.T) {
			got, err := Next(ctx, tt.from, tt.event)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.True(t, apperrors.IsValidation(err))
				assert.False(t, Can(tt.from, tt.event))
			} else {
				assert.NoError(t, err)
				assert.True(t, Can(tt.from, tt.event))
			}
		})
	}
}

func TestGate_Submit(t *testing.T) {
	ctx := context.Background()
	req := models.BlogRequest{Title: "Hello world", Content: "<p>...</p>"}

	t.Run("requires a session", func(t *testing.T) {
		g, blogs, _ := newTestGate(nil)
		_, err := g.Submit(ctx, req)
		assert.True(t, apperrors.IsAuth(err))
		blogs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("created blog is pending", func(t *testing.T) {
		g, blogs, _ := newTestGate(author)
		blogs.On("Create", mock.Anything, req).Return(&models.Blog{ID: "b1"}, nil)

		blog, err := g.Submit(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, blog.Status)
	})
}

func TestGate_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("non admin", func(t *testing.T) {
		g, _, reviews := newTestGate(author)
		_, err := g.Approve(ctx, blogWith(models.StatusPending))
		assert.True(t, apperrors.IsPermission(err))
		reviews.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
	})

	t.Run("deleted blog", func(t *testing.T) {
		g, _, _ := newTestGate(admin)
		b := blogWith(models.StatusPending)
		b.IsDeleted = true
		_, err := g.Approve(ctx, b)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("already published is not sent", func(t *testing.T) {
		g, _, reviews := newTestGate(admin)
		_, err := g.Approve(ctx, blogWith(models.StatusPublished))
		assert.True(t, apperrors.IsValidation(err))
		reviews.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything)
	})

	t.Run("pending becomes published", func(t *testing.T) {
		g, _, reviews := newTestGate(admin)
		reviews.On("Approve", mock.Anything, "b1").Return(&models.Blog{ID: "b1", Status: models.StatusPublished}, nil)

		blog, err := g.Approve(ctx, blogWith(models.StatusPending))
		require.NoError(t, err)
		assert.Equal(t, models.StatusPublished, blog.Status)
		require.NotNil(t, blog.PublishedAt)
		assert.NoError(t, blog.CheckModeration())
	})

	t.Run("confirmation without a blog", func(t *testing.T) {
		g, _, reviews := newTestGate(admin)
		reviews.On("Approve", mock.Anything, "b1").Return(nil, nil)

		pending := blogWith(models.StatusPending)
		pending.Title = "Roman holiday"
		blog, err := g.Approve(ctx, pending)
		require.NoError(t, err)
		assert.Equal(t, "Roman holiday", blog.Title)
		assert.Equal(t, models.StatusPublished, blog.Status)
		require.NotNil(t, blog.PublishedAt)
		assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *blog.PublishedAt)
		assert.Equal(t, models.StatusPending, pending.Status)
	})

	t.Run("gone on the server", func(t *testing.T) {
		g, _, reviews := newTestGate(admin)
		reviews.On("Approve", mock.Anything, "b1").Return(nil, &apperrors.NotFoundError{Message: "Blog not found"})

		_, err := g.Approve(ctx, blogWith(models.StatusPending))
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestGate_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("empty reason never reaches the network", func(t *testing.T) {
		g, _, reviews := newTestGate(admin)
		for _, reason := range []string{"", "  \n "} {
			_, err := g.Reject(ctx, blogWith(models.StatusPending), reason)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, "Please provide a rejection reason", err.Error())
		}
		reviews.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("pending becomes rejected with reason", func(t *testing.T) {
		g, _, reviews := newTestGate(admin)
		reviews.On("Reject", mock.Anything, "b1", models.RejectRequest{Reason: "Off topic"}).
			Return(&models.Blog{ID: "b1", Status: models.StatusRejected}, nil)

		blog, err := g.Reject(ctx, blogWith(models.StatusPending), "  Off topic ")
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, blog.Status)
		assert.Equal(t, "Off topic", blog.RejectionReason)
		assert.NoError(t, blog.CheckModeration())
	})

	t.Run("confirmation without a blog", func(t *testing.T) {
		g, _, reviews := newTestGate(admin)
		reviews.On("Reject", mock.Anything, "b1", models.RejectRequest{Reason: "Off topic"}).Return(nil, nil)

		blog, err := g.Reject(ctx, blogWith(models.StatusPending), "Off topic")
		require.NoError(t, err)
		assert.Equal(t, "b1", blog.ID)
		assert.Equal(t, models.StatusRejected, blog.Status)
		assert.Equal(t, "Off topic", blog.RejectionReason)
		assert.NoError(t, blog.CheckModeration())
	})
}

func TestGate_Edit(t *testing.T) {
	ctx := context.Background()
	req := models.BlogRequest{Title: "New title", Content: "<p>body</p>"}
	pendingReq := req
	pendingReq.Status = models.StatusPending

	for _, from := range []models.Status{models.StatusPublished, models.StatusRejected, models.StatusPending} {
		t.Run(string(from), func(t *testing.T) {
			g, blogs, _ := newTestGate(author)
			// the backend may echo the old status; the client still shows pending
			blogs.On("Update", mock.Anything, "b1", pendingReq).
				Return(&models.Blog{ID: "b1", Status: from, RejectionReason: blogWith(from).RejectionReason}, nil)

			res, err := g.Edit(ctx, blogWith(from), req)
			require.NoError(t, err)
			assert.Equal(t, models.StatusPending, res.Blog.Status)
			assert.Equal(t, from, res.PreviousStatus)
			assert.Equal(t, from != models.StatusPending, res.ResetToPending)
			assert.NoError(t, res.Blog.CheckModeration())
			blogs.AssertExpectations(t)
		})
	}

	t.Run("confirmation without a blog", func(t *testing.T) {
		g, blogs, _ := newTestGate(author)
		blogs.On("Update", mock.Anything, "b1", pendingReq).Return(nil, nil)

		res, err := g.Edit(ctx, blogWith(models.StatusPublished), req)
		require.NoError(t, err)
		assert.Equal(t, "New title", res.Blog.Title)
		assert.Equal(t, "<p>body</p>", res.Blog.Content)
		assert.Equal(t, models.StatusPending, res.Blog.Status)
		assert.True(t, res.ResetToPending)
		assert.Equal(t, models.StatusPublished, res.PreviousStatus)
	})

	t.Run("only the author", func(t *testing.T) {
		g, blogs, _ := newTestGate(reader)
		_, err := g.Edit(ctx, blogWith(models.StatusPublished), req)
		assert.True(t, apperrors.IsPermission(err))
		blogs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEditNotice(t *testing.T) {
	assert.Contains(t, EditNotice(blogWith(models.StatusPublished)), "pending review")
	assert.Contains(t, EditNotice(blogWith(models.StatusRejected)), "Needs sources")
	assert.Empty(t, EditNotice(blogWith(models.StatusPending)))
}

func TestGate_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("author soft delete", func(t *testing.T) {
		g, blogs, _ := newTestGate(author)
		blogs.On("Delete", mock.Anything, "b1").Return(nil)

		b := blogWith(models.StatusPublished)
		require.NoError(t, g.SoftDelete(ctx, b))
		assert.True(t, b.IsDeleted)
	})

	t.Run("admin cannot soft delete someone else's blog", func(t *testing.T) {
		g, _, _ := newTestGate(admin)
		err := g.SoftDelete(ctx, blogWith(models.StatusPublished))
		assert.True(t, apperrors.IsPermission(err))
	})

	t.Run("hard delete is admin only", func(t *testing.T) {
		g, _, reviews := newTestGate(author)
		err := g.HardDelete(ctx, blogWith(models.StatusPublished))
		assert.True(t, apperrors.IsPermission(err))
		reviews.AssertNotCalled(t, "DeleteBlog", mock.Anything, mock.Anything)

		g, _, reviews = newTestGate(admin)
		reviews.On("DeleteBlog", mock.Anything, "b1").Return(nil)
		require.NoError(t, g.HardDelete(ctx, blogWith(models.StatusRejected)))
		reviews.AssertExpectations(t)
	})
}

func TestAvailableActions(t *testing.T) {
	deleted := blogWith(models.StatusPending)
	deleted.IsDeleted = true

	tests := []struct {
		name   string
		blog   *models.Blog
		viewer *models.User
		want   []Action
	}{
		{"anonymous", blogWith(models.StatusPublished), nil, nil},
		{"reader on published", blogWith(models.StatusPublished), reader, []Action{ActionLike, ActionComment}},
		{"reader on pending", blogWith(models.StatusPending), reader, nil},
		{"author on rejected", blogWith(models.StatusRejected), author, []Action{ActionEdit, ActionDelete}},
		{"admin on pending", blogWith(models.StatusPending), admin, []Action{ActionApprove, ActionReject, ActionHardDelete}},
		{"admin on published", blogWith(models.StatusPublished), admin, []Action{ActionLike, ActionComment, ActionHardDelete}},
		{"admin on deleted", deleted, admin, []Action{ActionHardDelete}},
		{"author on deleted", deleted, author, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvailableActions(tt.blog, tt.viewer))
		})
	}

	assert.False(t, Allowed(blogWith(models.StatusPublished), admin, ActionApprove))
	assert.True(t, Allowed(blogWith(models.StatusPending), admin, ActionApprove))
}
