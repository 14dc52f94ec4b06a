package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/identity"
)

// AccountModel is the persistence model for the Account aggregate.
type AccountModel struct {
	BaseModel
	Email         string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_accounts_email"`
	PasswordHash  string     `gorm:"type:varchar(255);not null"`
	EmailVerified bool       `gorm:"not null;default:false"`
	LastLoginAt   *time.Time `gorm:"index"`
	LastLoginIP   string     `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account.
func (m *AccountModel) ToDomain() (*identity.Account, error) {
	err := validation.Errors{
		"id":            validation.Validate(m.ID, requiredUUID),
		"email":         validation.Validate(m.Email, validation.Required),
		"password_hash": validation.Validate(m.PasswordHash, validation.Required),
	}.Filter()
	if err := malformed("accounts", m.ID, err); err != nil {
		return nil, err
	}
	return &identity.Account{
		BaseAggregateRoot: m.aggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		EmailVerified:     m.EmailVerified,
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
	}, nil
}

// AccountModelFromDomain creates a new persistence model from a domain Account.
func AccountModelFromDomain(a *identity.Account) *AccountModel {
	m := &AccountModel{
		Email:         a.Email,
		PasswordHash:  a.PasswordHash,
		EmailVerified: a.EmailVerified,
		LastLoginAt:   a.LastLoginAt,
		LastLoginIP:   a.LastLoginIP,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// OneTimeTokenModel stores the hash of a mailed token
type OneTimeTokenModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Purpose   string     `gorm:"type:varchar(30);not null"`
	Hash      string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_one_time_tokens_hash"`
	ExpiresAt time.Time  `gorm:"not null"`
	UsedAt    *time.Time
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OneTimeTokenModel) TableName() string {
	return "one_time_tokens"
}

// ToDomain converts the persistence model to a domain OneTimeToken
func (m *OneTimeTokenModel) ToDomain() (*identity.OneTimeToken, error) {
	err := validation.Errors{
		"id":         validation.Validate(m.ID, requiredUUID),
		"account_id": validation.Validate(m.AccountID, requiredUUID),
		"purpose": validation.Validate(m.Purpose, validation.Required,
			validation.In(string(identity.PurposeEmailVerification), string(identity.PurposePasswordReset))),
		"hash":       validation.Validate(m.Hash, validation.Required),
		"expires_at": validation.Validate(m.ExpiresAt, validation.Required),
	}.Filter()
	if err := malformed("one_time_tokens", m.ID, err); err != nil {
		return nil, err
	}
	return &identity.OneTimeToken{
		ID:        m.ID,
		AccountID: m.AccountID,
		Purpose:   identity.TokenPurpose(m.Purpose),
		Hash:      m.Hash,
		ExpiresAt: m.ExpiresAt,
		UsedAt:    m.UsedAt,
		CreatedAt: m.CreatedAt,
	}, nil
}

// OneTimeTokenModelFromDomain creates a new persistence model from a domain token
func OneTimeTokenModelFromDomain(t *identity.OneTimeToken) *OneTimeTokenModel {
	return &OneTimeTokenModel{
		ID:        t.ID,
		AccountID: t.AccountID,
		Purpose:   string(t.Purpose),
		Hash:      t.Hash,
		ExpiresAt: t.ExpiresAt,
		UsedAt:    t.UsedAt,
		CreatedAt: t.CreatedAt,
	}
}

// AuthAuditLogModel is an append-only record of a failed auth attempt
type AuthAuditLogModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	Action    string     `gorm:"type:varchar(30);not null;index"`
	Email     string     `gorm:"type:varchar(200);index"`
	AccountID *uuid.UUID `gorm:"type:uuid"`
	Code      string     `gorm:"type:varchar(50);not null"`
	Message   string     `gorm:"type:text"`
	IP        string     `gorm:"type:varchar(45)"`
	UserAgent string     `gorm:"type:varchar(500)"`
	CreatedAt time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuthAuditLogModel) TableName() string {
	return "auth_audit_logs"
}

// AuthAuditLogModelFromDomain creates a new persistence model from an audit entry
func AuthAuditLogModelFromDomain(e *identity.AuditEntry) *AuthAuditLogModel {
	return &AuthAuditLogModel{
		ID:        e.ID,
		Action:    string(e.Action),
		Email:     e.Email,
		AccountID: e.AccountID,
		Code:      e.Code,
		Message:   truncate(e.Message, 2000),
		IP:        e.IP,
		UserAgent: truncate(e.UserAgent, 500),
		CreatedAt: e.CreatedAt,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
