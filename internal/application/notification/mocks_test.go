package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/notification"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockIdeaRepository struct {
	mock.Mock
}

func (m *MockIdeaRepository) FindByID(ctx context.Context, id uuid.UUID) (*ideation.Idea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.Idea), args.Error(1)
}

func (m *MockIdeaRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ideation.Idea, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]ideation.Idea), args.Error(1)
}

func (m *MockIdeaRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ideation.Idea, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ideation.Idea), args.Error(1)
}

func (m *MockIdeaRepository) ListAll(ctx context.Context) ([]ideation.Idea, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ideation.Idea), args.Error(1)
}

func (m *MockIdeaRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdeaRepository) Create(ctx context.Context, idea *ideation.Idea) error {
	return m.Called(ctx, idea).Error(0)
}

func (m *MockIdeaRepository) Save(ctx context.Context, idea *ideation.Idea) error {
	return m.Called(ctx, idea).Error(0)
}

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
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlayerRepository) FindDetails(ctx context.Context, userID uuid.UUID) (*player.Details, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*player.Details), args.Error(1)
}

func (m *MockPlayerRepository) SaveDetails(ctx context.Context, d *player.Details) error {
	return m.Called(ctx, d).Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) FindUnsentSince(ctx context.Context, since time.Time) ([]notification.Notification, []uuid.UUID, error) {
	args := m.Called(ctx, since)
	var skipped []uuid.UUID
	if v := args.Get(1); v != nil {
		skipped = v.([]uuid.UUID)
	}
	return args.Get(0).([]notification.Notification), skipped, args.Error(2)
}

func (m *MockNotificationRepository) MarkRecapSent(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, recipientID, unreadOnly, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) (int64, error) {
	args := m.Called(ctx, recipientID, unreadOnly)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	return m.Called(ctx, recipientID, id).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(data DigestData) (string, string, error) {
	args := m.Called(data)
	return args.String(0), args.String(1), args.Error(2)
}
