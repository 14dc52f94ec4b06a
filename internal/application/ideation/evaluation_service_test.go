package ideation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEvaluationService_Submit(t *testing.T) {
	ctx := context.Background()
	evaluator := uuid.New()

	t.Run("upserts and reports category", func(t *testing.T) {
		ideas := new(MockIdeaRepository)
		evals := new(MockEvaluationRepository)
		pub := new(MockEventPublisher)
		svc := NewEvaluationService(ideas, evals, pub, nil)
		idea := newTestIdea(t, uuid.New())

		ideas.On("FindByID", ctx, idea.ID).Return(idea, nil)
		evals.On("Upsert", ctx, mock.AnythingOfType("*ideation.Evaluation")).Return(nil)
		pub.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Submit(ctx, evaluator, idea.ID, SubmitEvaluationRequest{
			Impact:      "25k - 50k",
			Feasibility: "Easy",
		})

		require.NoError(t, err)
		assert.Equal(t, ideation.CategoryGreen, resp.Category)
		evals.AssertExpectations(t)
	})

	t.Run("rejects unknown label", func(t *testing.T) {
		ideas := new(MockIdeaRepository)
		evals := new(MockEvaluationRepository)
		svc := NewEvaluationService(ideas, evals, nil, nil)
		idea := newTestIdea(t, uuid.New())
		ideas.On("FindByID", ctx, idea.ID).Return(idea, nil)

		_, err := svc.Submit(ctx, evaluator, idea.ID, SubmitEvaluationRequest{
			Impact:      "huge",
			Feasibility: "Easy",
		})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_INPUT", de.Code)
		evals.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestEvaluationService_Summary(t *testing.T) {
	ctx := context.Background()
	evals := new(MockEvaluationRepository)
	svc := NewEvaluationService(new(MockIdeaRepository), evals, nil, nil)
	ideaID := uuid.New()

	evals.On("FindByIdea", ctx, ideaID).Return([]ideation.Evaluation{
		{IdeaID: ideaID, EvaluatorID: uuid.New(), Impact: "> 500k", Feasibility: "Very Easy"},
		{IdeaID: ideaID, EvaluatorID: uuid.New(), Impact: "< 1k", Feasibility: "Very Easy"},
		{IdeaID: ideaID, EvaluatorID: uuid.New(), Impact: "< 1k", Feasibility: "Very Hard"},
	}, nil)

	summary, err := svc.Summary(ctx, ideaID)

	require.NoError(t, err)
	assert.Len(t, summary.Evaluations, 3)
	assert.Equal(t, 1, summary.Counts[ideation.CategoryGreen])
	assert.Equal(t, 1, summary.Counts[ideation.CategoryYellow])
	assert.Equal(t, 1, summary.Counts[ideation.CategoryRed])
	assert.Equal(t, 0, summary.Counts[ideation.CategoryNone])
}
