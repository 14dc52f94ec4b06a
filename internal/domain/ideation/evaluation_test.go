package ideation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		impact      Impact
		feasibility Feasibility
		want        Category
	}{
		{"high impact and easy is green", "25k - 50k", "Very Easy", CategoryGreen},
		{"top impact and moderate is green", "> 500k", "Moderate", CategoryGreen},
		{"high impact and hard is yellow", "100k - 500k", "Hard", CategoryYellow},
		{"low impact and easy is yellow", "< 1k", "Easy", CategoryYellow},
		{"low impact and very hard is red", "10k - 25k", "Very Hard", CategoryRed},
		{"unknown impact is none", "huge", "Easy", CategoryNone},
		{"unknown feasibility is none", "> 500k", "trivial", CategoryNone},
		{"empty labels are none", "", "", CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.impact, tt.feasibility))
		})
	}
}

func TestCategorize_ScaleBoundaries(t *testing.T) {
	require.Len(t, ImpactScale, 8)
	require.Len(t, FeasibilityScale, 5)

	t.Run("impact index 3 is not high", func(t *testing.T) {
		// With the hardest feasibility, only impact can make it yellow.
		assert.Equal(t, CategoryRed, Categorize(ImpactScale[3], FeasibilityScale[4]))
	})

	t.Run("impact index 4 is high", func(t *testing.T) {
		assert.Equal(t, CategoryYellow, Categorize(ImpactScale[4], FeasibilityScale[4]))
	})

	t.Run("feasibility index 2 is high", func(t *testing.T) {
		assert.Equal(t, CategoryYellow, Categorize(ImpactScale[0], FeasibilityScale[2]))
	})

	t.Run("feasibility index 3 is not high", func(t *testing.T) {
		assert.Equal(t, CategoryRed, Categorize(ImpactScale[0], FeasibilityScale[3]))
	})
}

func TestCategorizeIndexes_OddAndEvenScales(t *testing.T) {
	// floor(7/2)=3 for impact; ceil(4/2)=2 for feasibility
	assert.Equal(t, CategoryGreen, categorizeIndexes(3, 7, 1, 4))
	assert.Equal(t, CategoryRed, categorizeIndexes(2, 7, 2, 4))
}

func TestNewEvaluation(t *testing.T) {
	ideaID := uuid.New()
	evaluatorID := uuid.New()

	t.Run("creates evaluation with valid labels", func(t *testing.T) {
		e, err := NewEvaluation(ideaID, evaluatorID, "> 500k", "Easy")

		require.NoError(t, err)
		assert.Equal(t, ideaID, e.IdeaID)
		assert.Equal(t, evaluatorID, e.EvaluatorID)
		assert.False(t, e.EvaluatedAt.IsZero())
		assert.Equal(t, CategoryGreen, e.Category())
	})

	t.Run("rejects unknown impact", func(t *testing.T) {
		_, err := NewEvaluation(ideaID, evaluatorID, "a lot", "Easy")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "impact")
	})

	t.Run("rejects unknown feasibility", func(t *testing.T) {
		_, err := NewEvaluation(ideaID, evaluatorID, "< 1k", "No idea")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "feasibility")
	})

	t.Run("rejects empty evaluator", func(t *testing.T) {
		_, err := NewEvaluation(ideaID, uuid.Nil, "< 1k", "Easy")

		assert.Error(t, err)
	})
}

func TestCategoryCounts(t *testing.T) {
	evals := []Evaluation{
		{Impact: "> 500k", Feasibility: "Easy"},
		{Impact: "> 500k", Feasibility: "Very Easy"},
		{Impact: "< 1k", Feasibility: "Very Hard"},
		{Impact: "bogus", Feasibility: "Easy"},
	}

	counts := CategoryCounts(evals)

	assert.Equal(t, 2, counts[CategoryGreen])
	assert.Equal(t, 0, counts[CategoryYellow])
	assert.Equal(t, 1, counts[CategoryRed])
	assert.Equal(t, 1, counts[CategoryNone])
}
