package identity

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// Create inserts a new account; a taken email yields shared.ErrAlreadyExists
	Create(ctx context.Context, a *Account) error

	// Save updates an existing account
	Save(ctx context.Context, a *Account) error

	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByEmail looks up by normalized email
	FindByEmail(ctx context.Context, email string) (*Account, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenRepository stores one-time tokens
type TokenRepository interface {
	Create(ctx context.Context, t *OneTimeToken) error

	// FindByHash returns the token with the given hash and purpose
	FindByHash(ctx context.Context, hash string, purpose TokenPurpose) (*OneTimeToken, error)

	// MarkUsed persists UsedAt
	MarkUsed(ctx context.Context, t *OneTimeToken) error
}

// AuditRepository appends audit entries
type AuditRepository interface {
	Append(ctx context.Context, e *AuditEntry) error
}
