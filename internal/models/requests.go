package models

import "strings"

// Request bodies. Validation tags are enforced by internal/validation
// before anything is sent.

type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"omitempty,eqfield=Password"`
	FullName        string `json:"fullName,omitempty" validate:"omitempty,max=100"`
}

func (r *SignupRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

type UpdateProfileRequest struct {
	FullName     string `json:"fullName" validate:"max=100"`
	Bio          string `json:"bio" validate:"max=500"`
	ProfileImage string `json:"profileImage,omitempty" validate:"omitempty,url"`
}

func (r *UpdateProfileRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Bio = strings.TrimSpace(r.Bio)
	r.ProfileImage = strings.TrimSpace(r.ProfileImage)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"eqfield=NewPassword"`
}

// BlogRequest is the body of both create and update. Status is only ever
// set to pending, on edits.
type BlogRequest struct {
	Title      string   `json:"title" validate:"required,min=5,max=200"`
	Content    string   `json:"content" validate:"required,htmlmin=50"`
	Excerpt    string   `json:"excerpt,omitempty" validate:"omitempty,max=300"`
	CoverImage string   `json:"coverImage,omitempty" validate:"omitempty,url"`
	Category   Category `json:"category" validate:"required,category"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,required,max=30"`
	Status     Status   `json:"status,omitempty" validate:"omitempty,oneof=pending"`
}

func (r *BlogRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Excerpt = strings.TrimSpace(r.Excerpt)
	r.CoverImage = strings.TrimSpace(r.CoverImage)
	if r.Category == "" {
		r.Category = CategoryTechnology
	} else if c, ok := ParseCategory(string(r.Category)); ok {
		r.Category = c
	}
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

func (r *CommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func (r *RejectRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

type RoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=user admin"`
}

// Query parameters, encoded with gorilla/schema.

type BlogListParams struct {
	Category       Category `schema:"category,omitempty"`
	Search         string   `schema:"search,omitempty"`
	Sort           string   `schema:"sort,omitempty"`
	Status         string   `schema:"status,omitempty"`
	IncludeDeleted bool     `schema:"includeDeleted,omitempty"`
	Page           int      `schema:"page,omitempty"`
	Limit          int      `schema:"limit,omitempty"`
}

type UserListParams struct {
	Search   string `schema:"search,omitempty"`
	Role     string `schema:"role,omitempty"`
	IsActive string `schema:"isActive,omitempty"`
	Page     int    `schema:"page,omitempty"`
	Limit    int    `schema:"limit,omitempty"`
}

type CommentListParams struct {
	Page  int    `schema:"page,omitempty"`
	Limit int    `schema:"limit,omitempty"`
	Sort  string `schema:"sort,omitempty"`
}

type LimitParams struct {
	Limit int `schema:"limit,omitempty"`
}
