package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/glintwash/glintwash-client/pkg/types"
)

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserName  string `json:"user_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginData carries the token plus the freshly normalized user.
type LoginData struct {
	Token string        `json:"token"`
	User  types.UserDTO `json:"user"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*types.UserDTO, error) {
	var dto types.UserDTO
	if err := c.do(ctx, "users", http.MethodPost, "/api/users/register", req, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginData, error) {
	var data LoginData
	if err := c.do(ctx, "users", http.MethodPost, "/api/users/login", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) VerifyEmail(ctx context.Context, req VerifyEmailRequest) error {
	return c.do(ctx, "users", http.MethodPost, "/api/users/verify-email", req, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	return c.do(ctx, "users", http.MethodPost, "/api/users/forgot-password", req, nil)
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.do(ctx, "users", http.MethodPost, "/api/users/reset-password", req, nil)
}

func (c *Client) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*types.UserDTO, error) {
	var dto types.UserDTO
	if err := c.do(ctx, "users", http.MethodPut, fmt.Sprintf("/api/users/%d", userID), req, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

func (c *Client) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	return c.do(ctx, "users", http.MethodPut, fmt.Sprintf("/api/users/%d/password", userID), req, nil)
}
