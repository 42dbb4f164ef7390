package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlog_CheckModeration(t *testing.T) {
	tests := []struct {
		name    string
		blog    Blog
		wantErr bool
	}{
		{"pending without reason", Blog{ID: "1", Status: StatusPending}, false},
		{"published without reason", Blog{ID: "1", Status: StatusPublished}, false},
		{"rejected with reason", Blog{ID: "1", Status: StatusRejected, RejectionReason: "off topic"}, false},
		{"rejected without reason", Blog{ID: "1", Status: StatusRejected}, true},
		{"rejected with blank reason", Blog{ID: "1", Status: StatusRejected, RejectionReason: "  "}, true},
		{"published with stale reason", Blog{ID: "1", Status: StatusPublished, RejectionReason: "spam"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.blog.CheckModeration()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" travel ")
	assert.True(t, ok)
	assert.Equal(t, CategoryTravel, c)

	_, ok = ParseCategory("Gardening")
	assert.False(t, ok)
	assert.Len(t, Categories, 10)
}

func TestLikedBy(t *testing.T) {
	b := Blog{Likes: []string{"u1", "u2"}}
	assert.True(t, b.LikedBy("u2"))
	assert.False(t, b.LikedBy("u3"))
	assert.False(t, b.LikedBy(""))

	c := Comment{Likes: []string{"u1"}}
	assert.True(t, c.LikedBy("u1"))
}

func TestUserHelpers(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.Equal(t, "Unknown", nobody.DisplayName())

	u := &User{Username: "jdoe", Role: RoleAdmin}
	assert.True(t, u.IsAdmin())
	assert.Equal(t, "jdoe", u.DisplayName())
	u.FullName = "Jamie Doe"
	assert.Equal(t, "Jamie Doe", u.DisplayName())
}

func TestDashboardStats_Share(t *testing.T) {
	var s DashboardStats
	assert.Equal(t, 0.0, s.Share(3))

	s.Blogs.Total = 8
	assert.Equal(t, 25.0, s.Share(2))
}

func TestErrorResponse_Text(t *testing.T) {
	assert.Equal(t, "boom", (&ErrorResponse{Message: "boom"}).Text())
	assert.Equal(t, "Title is required", (&ErrorResponse{Errors: []FieldError{{Msg: ""}, {Msg: "Title is required"}}}).Text())
	assert.Equal(t, "", (&ErrorResponse{}).Text())
}

func TestBlogRequest_Normalize(t *testing.T) {
	r := BlogRequest{Title: "  Hello world ", Category: "sports"}
	r.Normalize()
	assert.Equal(t, "Hello world", r.Title)
	assert.Equal(t, CategorySports, r.Category)

	empty := BlogRequest{}
	empty.Normalize()
	assert.Equal(t, CategoryTechnology, empty.Category)
}
