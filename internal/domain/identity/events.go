package identity

import (
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// Aggregate type constant for Account
const AggregateTypeAccount = "Account"

// Account domain event types
const (
	EventTypeAccountCreated = "AccountCreated"
	EventTypeEmailVerified  = "EmailVerified"
)

// AccountCreatedEvent is published when an account signs up
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, AggregateTypeAccount, a.ID),
		AccountID:       a.ID,
		Email:           a.Email,
	}
}

// EmailVerifiedEvent is published when an account confirms its email
type EmailVerifiedEvent struct {
	shared.BaseDomainEvent
	AccountID uuid.UUID `json:"account_id"`
}

// NewEmailVerifiedEvent creates a new EmailVerifiedEvent
func NewEmailVerifiedEvent(a *Account) *EmailVerifiedEvent {
	return &EmailVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmailVerified, AggregateTypeAccount, a.ID),
		AccountID:       a.ID,
	}
}
