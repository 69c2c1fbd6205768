package auth

import (
	"github.com/kisansetu/kisansetu-backend/internal/users"
)

// RegisterRequest captures the fields needed to create an account.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required,oneof=farmer consumer"`
	Phone    *string `json:"phone,omitempty"`
	Village  *string `json:"village,omitempty"`
	District *string `json:"district,omitempty"`
	State    *string `json:"state,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
