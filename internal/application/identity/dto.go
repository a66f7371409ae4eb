package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput is the input for authentication
type LoginInput struct {
	Username string
	Password string
}

// UserInfo is the user projection returned with authentication results
type UserInfo struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Email       string      `json:"email"`
	RoleIDs     []uuid.UUID `json:"role_ids"`
	Permissions []string    `json:"permissions"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput is the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult is returned on successful token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput is the input for logout. The raw access token is needed so its
// JTI can be blacklisted for the remainder of its lifetime.
type LogoutInput struct {
	AccessToken string
	Everywhere  bool
}

// ChangePasswordInput is the input for a password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// RegisterUserCommand is the input for creating a user
type RegisterUserCommand struct {
	Username    string
	Password    string
	Email       string
	DisplayName string
	RoleIDs     []uuid.UUID
	Active      bool
}

// UpdateUserCommand is the input for updating user profile fields
type UpdateUserCommand struct {
	Email       *string
	DisplayName *string
}

// CreateRoleCommand is the input for creating a role
type CreateRoleCommand struct {
	Code        string
	Name        string
	Description string
	Permissions []string
}

// UpdateRoleCommand is the input for updating a role
type UpdateRoleCommand struct {
	Name        *string
	Description *string
	Permissions []string
}
