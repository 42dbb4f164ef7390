package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
)

type Category string

const (
	CategoryTechnology    Category = "Technology"
	CategoryLifestyle     Category = "Lifestyle"
	CategoryTravel        Category = "Travel"
	CategoryFood          Category = "Food"
	CategoryHealth        Category = "Health"
	CategoryBusiness      Category = "Business"
	CategoryEntertainment Category = "Entertainment"
	CategoryEducation     Category = "Education"
	CategorySports        Category = "Sports"
	CategoryOther         Category = "Other"
)

// Categories is the fixed set the backend accepts, in display order.
var Categories = []Category{
	CategoryTechnology,
	CategoryLifestyle,
	CategoryTravel,
	CategoryFood,
	CategoryHealth,
	CategoryBusiness,
	CategoryEntertainment,
	CategoryEducation,
	CategorySports,
	CategoryOther,
}

// ParseCategory matches case-insensitively against Categories.
func ParseCategory(value string) (Category, bool) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(value)) {
			return c, true
		}
	}
	return "", false
}

type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName prefers the full name.
func (u *User) DisplayName() string {
	if u == nil {
		return "Unknown"
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

type Blog struct {
	ID              string     `json:"_id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Excerpt         string     `json:"excerpt,omitempty"`
	Category        Category   `json:"category"`
	Tags            []string   `json:"tags,omitempty"`
	CoverImage      string     `json:"coverImage,omitempty"`
	Status          Status     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	IsDeleted       bool       `json:"isDeleted"`
	Author          *User      `json:"author,omitempty"`
	Views           int        `json:"views"`
	LikesCount      int        `json:"likesCount"`
	CommentsCount   int        `json:"commentsCount"`
	Likes           []string   `json:"likes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
}

func (b *Blog) LikedBy(userID string) bool {
	return userID != "" && slices.Contains(b.Likes, userID)
}

func (b *Blog) IsAuthoredBy(u *User) bool {
	return u != nil && b.Author != nil && b.Author.ID == u.ID
}

// CheckModeration verifies that a rejection reason is present exactly
// when the blog is rejected.
func (b *Blog) CheckModeration() error {
	hasReason := strings.TrimSpace(b.RejectionReason) != ""
	if b.Status == StatusRejected && !hasReason {
		return fmt.Errorf("blog %s is rejected without a reason", b.ID)
	}
	if b.Status != StatusRejected && hasReason {
		return fmt.Errorf("blog %s carries a rejection reason while %s", b.ID, b.Status)
	}
	return nil
}

type Comment struct {
	ID         string    `json:"_id"`
	Blog       string    `json:"blog"`
	Author     *User     `json:"author,omitempty"`
	Content    string    `json:"content"`
	Likes      []string  `json:"likes,omitempty"`
	LikesCount int       `json:"likesCount"`
	IsEdited   bool      `json:"isEdited"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (c *Comment) LikedBy(userID string) bool {
	return userID != "" && slices.Contains(c.Likes, userID)
}

// Session is what the client keeps between runs.
type Session struct {
	Token string
	User  *User
}

type BlogStats struct {
	Views         int `json:"views"`
	LikesCount    int `json:"likesCount"`
	CommentsCount int `json:"commentsCount"`
}

type AuthorStat struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName,omitempty"`
	BlogCount int    `json:"blogCount"`
}

type DashboardStats struct {
	Users struct {
		Total int `json:"total"`
	} `json:"users"`
	Blogs struct {
		Total     int `json:"total"`
		Pending   int `json:"pending"`
		Published int `json:"published"`
		Rejected  int `json:"rejected"`
	} `json:"blogs"`
	Engagement struct {
		TotalComments int `json:"totalComments"`
	} `json:"engagement"`
	RecentActivity struct {
		NewBlogsThisWeek int `json:"newBlogsThisWeek"`
		NewUsersThisWeek int `json:"newUsersThisWeek"`
	} `json:"recentActivity"`
	TopAuthors   []AuthorStat `json:"topAuthors"`
	PopularBlogs []Blog       `json:"popularBlogs"`
}

// Share returns the percentage of all blogs that n represents.
func (s *DashboardStats) Share(n int) float64 {
	if s.Blogs.Total == 0 {
		return 0
	}
	return float64(n) / float64(s.Blogs.Total) * 100
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items      []T
	Total      int
	TotalPages int
}
