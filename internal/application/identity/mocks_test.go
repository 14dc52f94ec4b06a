package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/identity"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of identity.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, a *identity.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) Save(ctx context.Context, a *identity.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockTokenRepository is a mock implementation of identity.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, t *identity.OneTimeToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTokenRepository) FindByHash(ctx context.Context, hash string, purpose identity.TokenPurpose) (*identity.OneTimeToken, error) {
	args := m.Called(ctx, hash, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.OneTimeToken), args.Error(1)
}

func (m *MockTokenRepository) MarkUsed(ctx context.Context, t *identity.OneTimeToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// MockAuditRepository is a mock implementation of identity.AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, e *identity.AuditEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// MockPlayerRepository is a mock implementation of player.Repository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) FindByID(ctx context.Context, id uuid.UUID) (*player.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*player.Player), args.Error(1)
}

func (m *MockPlayerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]player.Player, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]player.Player), args.Error(1)
}

func (m *MockPlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	args := m.Called(ctx)
	return args.Get(0).([]player.Player), args.Error(1)
}

func (m *MockPlayerRepository) Save(ctx context.Context, p *player.Player) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPlayerRepository) FindDetails(ctx context.Context, userID uuid.UUID) (*player.Details, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*player.Details), args.Error(1)
}

func (m *MockPlayerRepository) SaveDetails(ctx context.Context, d *player.Details) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// MockAccountMailer is a mock implementation of AccountMailer
type MockAccountMailer struct {
	mock.Mock
}

func (m *MockAccountMailer) SendVerification(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

func (m *MockAccountMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
