package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// TokenPurpose distinguishes one-time token uses
type TokenPurpose string

const (
	PurposeEmailVerification TokenPurpose = "email_verification"
	PurposePasswordReset     TokenPurpose = "password_reset"
)

const tokenBytes = 32

// OneTimeToken is a single-use secret mailed to the account owner. Only a
// hash of the secret is persisted.
type OneTimeToken struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Purpose   TokenPurpose
	Hash      string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// NewOneTimeToken generates a token and returns it with its plain secret
func NewOneTimeToken(accountID uuid.UUID, purpose TokenPurpose, ttl time.Duration) (*OneTimeToken, string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, "", shared.WrapDomainError("TOKEN_GENERATION_ERROR", "Failed to generate token", err)
	}
	secret := hex.EncodeToString(buf)
	now := time.Now()
	return &OneTimeToken{
		ID:        uuid.New(),
		AccountID: accountID,
		Purpose:   purpose,
		Hash:      HashSecret(secret),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, secret, nil
}

// HashSecret returns the stored form of a token secret
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Consume marks the token used. Expired or already used tokens are rejected.
func (t *OneTimeToken) Consume(now time.Time) error {
	if t.UsedAt != nil {
		return shared.NewDomainError("TOKEN_USED", "Token has already been used")
	}
	if now.After(t.ExpiresAt) {
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	}
	t.UsedAt = &now
	return nil
}
