package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateUserRequest payload for a division account.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Division string `json:"division"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateDivisionRequest payload.
type CreateDivisionRequest struct {
	Division string `json:"division"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents an account. Password is only present where the
// backend stores it in plaintext.
type UserResponse struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
	Division string      `json:"division,omitempty"`
	Password string      `json:"password,omitempty"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
		Division: u.Division,
		Password: u.Password,
	}
}
