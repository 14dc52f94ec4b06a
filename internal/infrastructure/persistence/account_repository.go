package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/identity"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/ideation/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements identity.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

var _ identity.AccountRepository = (*GormAccountRepository)(nil)

// Create inserts a new account. A taken email yields shared.ErrAlreadyExists.
func (r *GormAccountRepository) Create(ctx context.Context, a *identity.Account) error {
	if err := r.db.WithContext(ctx).Create(models.AccountModelFromDomain(a)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates an existing account
func (r *GormAccountRepository) Save(ctx context.Context, a *identity.Account) error {
	result := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("id = ?", a.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(models.AccountModelFromDomain(a))
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain()
}

// FindByEmail finds an account by its normalized email
func (r *GormAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain()
}

// ExistsByEmail checks if an account with the email exists
func (r *GormAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormTokenRepository implements identity.TokenRepository using GORM
type GormTokenRepository struct {
	db *gorm.DB
}

// NewGormTokenRepository creates a new GormTokenRepository
func NewGormTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

var _ identity.TokenRepository = (*GormTokenRepository)(nil)

// Create stores a new one-time token
func (r *GormTokenRepository) Create(ctx context.Context, t *identity.OneTimeToken) error {
	return r.db.WithContext(ctx).Create(models.OneTimeTokenModelFromDomain(t)).Error
}

// FindByHash returns the token with the given hash and purpose
func (r *GormTokenRepository) FindByHash(ctx context.Context, hash string, purpose identity.TokenPurpose) (*identity.OneTimeToken, error) {
	var model models.OneTimeTokenModel
	if err := r.db.WithContext(ctx).
		Where("hash = ? AND purpose = ?", hash, string(purpose)).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain()
}

// MarkUsed persists UsedAt. It only succeeds for a token that is still
// unused, so two concurrent redemptions cannot both win.
func (r *GormTokenRepository) MarkUsed(ctx context.Context, t *identity.OneTimeToken) error {
	if t.UsedAt == nil {
		return shared.NewDomainError("INVALID_STATE", "Token has not been consumed")
	}
	result := r.db.WithContext(ctx).
		Model(&models.OneTimeTokenModel{}).
		Where("id = ? AND used_at IS NULL", t.ID).
		Update("used_at", *t.UsedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("TOKEN_USED", "Token has already been used")
	}
	return nil
}

// GormAuditRepository implements identity.AuditRepository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

var _ identity.AuditRepository = (*GormAuditRepository)(nil)

// Append inserts an audit entry
func (r *GormAuditRepository) Append(ctx context.Context, e *identity.AuditEntry) error {
	return r.db.WithContext(ctx).Create(models.AuthAuditLogModelFromDomain(e)).Error
}
