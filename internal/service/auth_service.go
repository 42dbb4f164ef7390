package service

import (
	"context"
	"fmt"

	"blogdesk/internal/models"
	"blogdesk/internal/validation"
)

type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error
}

type authService struct {
	client    API
	validator *validation.Validator
}

func NewAuthService(client API, v *validation.Validator) AuthService {
	return &authService{
		client:    client,
		validator: v,
	}
}

func (s *authService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	req.Normalize()
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	if err := s.client.Post(ctx, "/auth/signup", &req, &resp); err != nil {
		return nil, fmt.Errorf("error signing up: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid signup response: %w", err)
	}

	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	req.Normalize()
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	if err := s.client.Post(ctx, "/auth/login", &req, &resp); err != nil {
		return nil, fmt.Errorf("error logging in: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid login response: %w", err)
	}

	return &resp, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("error logging out: %w", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context) (*models.User, error) {
	var resp models.UserResponse
	if err := s.client.Get(ctx, "/auth/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("error loading current user: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid user response: %w", err)
	}
	return resp.User, nil
}

func (s *authService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	req.Normalize()
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}

	var resp models.UserResponse
	if err := s.client.Put(ctx, "/auth/profile", &req, &resp); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	if err := s.validator.Struct(&resp); err != nil {
		return nil, fmt.Errorf("invalid user response: %w", err)
	}
	return resp.User, nil
}

func (s *authService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(&req); err != nil {
		return err
	}

	if err := s.client.Put(ctx, "/auth/change-password", &req, nil); err != nil {
		return fmt.Errorf("error changing password: %w", err)
	}
	return nil
}
