package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/application/identity"
)

// SignUpRequest represents the request body for account creation
type SignUpRequest struct {
	Email                string `json:"email" binding:"required,email,max=254"`
	Password             string `json:"password" binding:"required,max=128"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
	DisplayName          string `json:"display_name" binding:"omitempty,max=80"`
}

// LoginRequest represents the request body for email/password sign-in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries the refresh token when it is not sent as a cookie
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// EmailRequest carries an address for verification and reset mails
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ConfirmVerificationRequest carries the mailed verification secret
type ConfirmVerificationRequest struct {
	Token string `json:"token" binding:"required"`
}

// ConfirmPasswordResetRequest carries the reset secret and the new password
type ConfirmPasswordResetRequest struct {
	Token                string `json:"token" binding:"required"`
	Password             string `json:"password" binding:"required,max=128"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

// UpdateProfileRequest changes the display fields of the signed-in user.
// Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=80"`
	PhotoURL    *string `json:"photo_url" binding:"omitempty,max=2048"`
}

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// UserResponse represents the signed-in user
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	IsAdmin       bool      `json:"is_admin"`
}

// AuthResponse is returned by sign-up, login and refresh
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

func toUserResponse(u identity.UserInfo) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		PhotoURL:      u.PhotoURL,
		EmailVerified: u.EmailVerified,
		IsAdmin:       u.IsAdmin,
	}
}

func toAuthResponse(r *identity.LoginResult) AuthResponse {
	return AuthResponse{
		Token: TokenResponse{
			AccessToken:           r.AccessToken,
			RefreshToken:          r.RefreshToken,
			AccessTokenExpiresAt:  r.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: r.RefreshTokenExpiresAt,
			TokenType:             r.TokenType,
		},
		User: toUserResponse(r.User),
	}
}
