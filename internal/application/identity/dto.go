package identity

import (
	"time"

	"github.com/google/uuid"
)

// RequestMeta identifies the client for audit entries
type RequestMeta struct {
	IP        string
	UserAgent string
}

// SignUpInput contains the input for creating an account
type SignUpInput struct {
	Email                string
	Password             string
	PasswordConfirmation string
	DisplayName          string
	Meta                 RequestMeta
}

// LoginInput contains the input for email/password sign-in
type LoginInput struct {
	Email    string
	Password string
	Meta     RequestMeta
}

// LoginResult contains the issued tokens and the signed-in user
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo is the current-user snapshot returned to clients
type UserInfo struct {
	ID            uuid.UUID
	Email         string
	DisplayName   string
	PhotoURL      string
	EmailVerified bool
	IsAdmin       bool
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
	Meta         RequestMeta
}

// LogoutInput contains the input for logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration // remaining lifetime of the access token
}

// UpdateProfileInput contains the mutable auth profile fields
type UpdateProfileInput struct {
	UserID      uuid.UUID
	DisplayName *string
	PhotoURL    *string
}

// ConfirmVerificationInput contains the mailed verification secret
type ConfirmVerificationInput struct {
	Token string
	Meta  RequestMeta
}

// ConfirmPasswordResetInput contains the reset secret and the new password
type ConfirmPasswordResetInput struct {
	Token                string
	Password             string
	PasswordConfirmation string
	Meta                 RequestMeta
}
