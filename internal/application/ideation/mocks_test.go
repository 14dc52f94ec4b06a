package ideation

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockIdeaRepository is a mock implementation of ideation.IdeaRepository
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
	args := m.Called(ctx, idea)
	return args.Error(0)
}

func (m *MockIdeaRepository) Save(ctx context.Context, idea *ideation.Idea) error {
	args := m.Called(ctx, idea)
	return args.Error(0)
}

// MockCommentRepository is a mock implementation of ideation.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ideation.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByIdea(ctx context.Context, ideaID uuid.UUID) ([]ideation.Comment, error) {
	args := m.Called(ctx, ideaID)
	return args.Get(0).([]ideation.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListAll(ctx context.Context) ([]ideation.Comment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ideation.Comment), args.Error(1)
}

func (m *MockCommentRepository) Create(ctx context.Context, c *ideation.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepository) Save(ctx context.Context, c *ideation.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockEvaluationRepository is a mock implementation of ideation.EvaluationRepository
type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) Upsert(ctx context.Context, e *ideation.Evaluation) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEvaluationRepository) FindByIdea(ctx context.Context, ideaID uuid.UUID) ([]ideation.Evaluation, error) {
	args := m.Called(ctx, ideaID)
	return args.Get(0).([]ideation.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepository) FindOne(ctx context.Context, ideaID, evaluatorID uuid.UUID) (*ideation.Evaluation, error) {
	args := m.Called(ctx, ideaID, evaluatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepository) ListAll(ctx context.Context) ([]ideation.Evaluation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ideation.Evaluation), args.Error(1)
}

// MockVoteRepository is a mock implementation of ideation.VoteRepository
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Upsert(ctx context.Context, v *ideation.Vote) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVoteRepository) Delete(ctx context.Context, targetID, userID uuid.UUID) error {
	args := m.Called(ctx, targetID, userID)
	return args.Error(0)
}

func (m *MockVoteRepository) FindOne(ctx context.Context, targetID, userID uuid.UUID) (*ideation.Vote, error) {
	args := m.Called(ctx, targetID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.Vote), args.Error(1)
}

func (m *MockVoteRepository) Tally(ctx context.Context, targetID uuid.UUID) (*ideation.VoteTally, error) {
	args := m.Called(ctx, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ideation.VoteTally), args.Error(1)
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

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
