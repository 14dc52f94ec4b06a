package ideation

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CommentService handles comments on ideas
type CommentService struct {
	ideaRepo    ideation.IdeaRepository
	commentRepo ideation.CommentRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	ideaRepo ideation.IdeaRepository,
	commentRepo ideation.CommentRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		ideaRepo:    ideaRepo,
		commentRepo: commentRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create adds a comment to an existing idea
func (s *CommentService) Create(ctx context.Context, authorID, ideaID uuid.UUID, req CreateCommentRequest) (*CommentResponse, error) {
	if _, err := s.ideaRepo.FindByID(ctx, ideaID); err != nil {
		return nil, err
	}

	comment, err := ideation.NewComment(ideaID, authorID, req.Text, req.TaggedUserIDs)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	publishPending(ctx, s.publisher, s.logger, comment)

	resp := ToCommentResponse(comment)
	return &resp, nil
}

// ListByIdea returns an idea's comments, oldest first
func (s *CommentService) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]CommentResponse, error) {
	comments, err := s.commentRepo.FindByIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = ToCommentResponse(&comments[i])
	}
	return out, nil
}

// Update edits a comment. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateCommentRequest) (*CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := comment.Edit(actorID, req.Text, req.TaggedUserIDs); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}
	publishPending(ctx, s.publisher, s.logger, comment)

	resp := ToCommentResponse(comment)
	return &resp, nil
}
