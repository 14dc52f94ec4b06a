package identity

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction names the auth operation that failed
type AuditAction string

const (
	AuditSignUp        AuditAction = "sign_up"
	AuditSignIn        AuditAction = "sign_in"
	AuditRefresh       AuditAction = "refresh"
	AuditVerifyEmail   AuditAction = "verify_email"
	AuditPasswordReset AuditAction = "password_reset"
	AuditLogout        AuditAction = "logout"
)

// AuditEntry records a failed auth attempt
type AuditEntry struct {
	ID        uuid.UUID
	Action    AuditAction
	Email     string
	AccountID *uuid.UUID
	Code      string
	Message   string
	IP        string
	UserAgent string
	CreatedAt time.Time
}

// NewAuditEntry creates an audit entry stamped now
func NewAuditEntry(action AuditAction, email, code, message string) *AuditEntry {
	return &AuditEntry{
		ID:        uuid.New(),
		Action:    action,
		Email:     NormalizeEmail(email),
		Code:      code,
		Message:   message,
		CreatedAt: time.Now(),
	}
}
