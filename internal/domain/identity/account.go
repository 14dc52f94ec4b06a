// Package identity holds email/password accounts, the sign-up allow-list,
// one-time verification tokens and the authentication audit trail.
package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/ideation/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// Password limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxEmailLength    = 200
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

// Account is the aggregate root for a sign-in identity. Its ID is shared by
// the player profile created alongside it.
type Account struct {
	shared.BaseAggregateRoot
	Email         string
	PasswordHash  string
	EmailVerified bool
	LastLoginAt   *time.Time
	LastLoginIP   string
}

// NewAccount validates the credentials and creates an unverified account
func NewAccount(email, password, confirmation string) (*Account, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if password != confirmation {
		return nil, shared.NewDomainError("PASSWORD_MISMATCH", "Passwords do not match")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	a := &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      hash,
	}
	a.AddDomainEvent(NewAccountCreatedEvent(a))
	return a, nil
}

// VerifyPassword verifies if the provided password matches
func (a *Account) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the password after a reset
func (a *Account) SetPassword(password, confirmation string) error {
	if password != confirmation {
		return shared.NewDomainError("PASSWORD_MISMATCH", "Passwords do not match")
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	a.PasswordHash = hash
	a.Touch()
	return nil
}

// MarkEmailVerified flags the email as confirmed
func (a *Account) MarkEmailVerified() error {
	if a.EmailVerified {
		return shared.NewDomainError("ALREADY_VERIFIED", "Email is already verified")
	}
	a.EmailVerified = true
	a.Touch()
	a.AddDomainEvent(NewEmailVerifiedEvent(a))
	return nil
}

// RecordLogin records a successful login
func (a *Account) RecordLogin(ip string) {
	now := time.Now()
	a.LastLoginAt = &now
	a.LastLoginIP = ip
	a.Touch()
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the email format
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// ValidatePassword enforces the password policy: 8 to 128 characters with
// at least one letter and one digit.
func ValidatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < MinPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
