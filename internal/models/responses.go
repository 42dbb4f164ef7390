package models

// Response bodies. Fields tagged required are checked after decoding so a
// malformed backend reply surfaces as an error instead of a nil deref.

type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
	Path  string `json:"path,omitempty"`
}

// ErrorResponse is what the backend sends with 4xx/5xx.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Text picks the most useful message.
func (e *ErrorResponse) Text() string {
	if e.Message != "" {
		return e.Message
	}
	for _, fe := range e.Errors {
		if fe.Msg != "" {
			return fe.Msg
		}
	}
	return ""
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token" validate:"required"`
	User    *User  `json:"user" validate:"required"`
}

type UserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user" validate:"required"`
}

type BlogResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Blog    *Blog  `json:"blog" validate:"required"`
}

// UserChangeResponse answers an admin change to a user. The user is
// optional: a reply of just success and message still means the change
// was applied.
type UserChangeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty" validate:"omitempty"`
}

// BlogChangeResponse answers an edit, approval or rejection. Blog is nil
// when the backend sends no snapshot.
type BlogChangeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Blog    *Blog  `json:"blog,omitempty" validate:"omitempty"`
}

type BlogListResponse struct {
	Success     bool   `json:"success"`
	Blogs       []Blog `json:"blogs"`
	Total       int    `json:"total" validate:"gte=0"`
	TotalPages  int    `json:"totalPages" validate:"gte=0"`
	CurrentPage int    `json:"currentPage,omitempty"`
}

type BlogStatsResponse struct {
	Success bool      `json:"success"`
	Stats   BlogStats `json:"stats"`
}

// LikeResponse is the backend's view after a toggle. Liked and LikesCount
// are pointers because older backends answer with only a message.
type LikeResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Liked      *bool  `json:"liked,omitempty"`
	LikesCount *int   `json:"likesCount,omitempty"`
}

type CommentResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Comment *Comment `json:"comment" validate:"required"`
}

type CommentListResponse struct {
	Success    bool      `json:"success"`
	Comments   []Comment `json:"comments"`
	Total      int       `json:"total" validate:"gte=0"`
	TotalPages int       `json:"totalPages" validate:"gte=0"`
}

type UserListResponse struct {
	Success    bool   `json:"success"`
	Users      []User `json:"users"`
	Total      int    `json:"total" validate:"gte=0"`
	TotalPages int    `json:"totalPages" validate:"gte=0"`
}

type DashboardResponse struct {
	Success bool           `json:"success"`
	Stats   DashboardStats `json:"stats"`
}
