package ideation

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EvaluationService records impact/feasibility evaluations
type EvaluationService struct {
	ideaRepo  ideation.IdeaRepository
	evalRepo  ideation.EvaluationRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewEvaluationService creates a new EvaluationService
func NewEvaluationService(
	ideaRepo ideation.IdeaRepository,
	evalRepo ideation.EvaluationRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *EvaluationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		ideaRepo:  ideaRepo,
		evalRepo:  evalRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit creates or overwrites evaluatorID's evaluation of an idea
func (s *EvaluationService) Submit(ctx context.Context, evaluatorID, ideaID uuid.UUID, req SubmitEvaluationRequest) (*EvaluationResponse, error) {
	if _, err := s.ideaRepo.FindByID(ctx, ideaID); err != nil {
		return nil, err
	}

	eval, err := ideation.NewEvaluation(ideaID, evaluatorID, ideation.Impact(req.Impact), ideation.Feasibility(req.Feasibility))
	if err != nil {
		return nil, err
	}
	if err := s.evalRepo.Upsert(ctx, eval); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ideation.NewEvaluationSubmittedEvent(eval)); err != nil {
			s.logger.Warn("Failed to publish evaluation event",
				zap.String("idea_id", ideaID.String()),
				zap.Error(err))
		}
	}

	resp := ToEvaluationResponse(eval)
	return &resp, nil
}

// Summary lists an idea's evaluations with per-category counts
func (s *EvaluationService) Summary(ctx context.Context, ideaID uuid.UUID) (*EvaluationSummary, error) {
	evals, err := s.evalRepo.FindByIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	out := &EvaluationSummary{
		IdeaID:      ideaID,
		Evaluations: make([]EvaluationResponse, len(evals)),
		Counts:      ideation.CategoryCounts(evals),
	}
	for i := range evals {
		out.Evaluations[i] = ToEvaluationResponse(&evals[i])
	}
	return out, nil
}
