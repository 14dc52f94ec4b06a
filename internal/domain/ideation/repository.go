package ideation

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// IdeaRepository defines the interface for idea persistence
type IdeaRepository interface {
	// FindByID finds an idea by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Idea, error)

	// FindByIDs returns the ideas with the given ids; missing ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Idea, error)

	// FindAll returns a page of ideas
	FindAll(ctx context.Context, filter shared.Filter) ([]Idea, error)

	// ListAll returns every idea ordered by creation time
	ListAll(ctx context.Context) ([]Idea, error)

	// Count counts ideas matching the filter search
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts a new idea and assigns its sequence number
	Create(ctx context.Context, idea *Idea) error

	// Save updates an existing idea. It fails with shared.ErrConflict when
	// the stored version moved on since the idea was loaded.
	Save(ctx context.Context, idea *Idea) error
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	FindByIdea(ctx context.Context, ideaID uuid.UUID) ([]Comment, error)
	ListAll(ctx context.Context) ([]Comment, error)
	Create(ctx context.Context, comment *Comment) error
	// Save updates an edited comment; stale versions yield shared.ErrConflict
	Save(ctx context.Context, comment *Comment) error
}

// EvaluationRepository defines the interface for evaluation persistence
type EvaluationRepository interface {
	// Upsert creates or overwrites the evaluation for (idea, evaluator)
	Upsert(ctx context.Context, evaluation *Evaluation) error
	FindByIdea(ctx context.Context, ideaID uuid.UUID) ([]Evaluation, error)
	FindOne(ctx context.Context, ideaID, evaluatorID uuid.UUID) (*Evaluation, error)
	ListAll(ctx context.Context) ([]Evaluation, error)
}

// VoteRepository defines the interface for vote persistence
type VoteRepository interface {
	// Upsert creates or overwrites the vote for (target, user)
	Upsert(ctx context.Context, vote *Vote) error
	// Delete removes the vote for (target, user); missing votes are not an error
	Delete(ctx context.Context, targetID, userID uuid.UUID) error
	FindOne(ctx context.Context, targetID, userID uuid.UUID) (*Vote, error)
	Tally(ctx context.Context, targetID uuid.UUID) (*VoteTally, error)
}
