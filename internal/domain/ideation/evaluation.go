package ideation

import (
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// Impact is a cost-impact bracket label
type Impact string

// Feasibility is a difficulty bracket label
type Feasibility string

// ImpactScale lists impact brackets in ascending order of impact
var ImpactScale = []Impact{
	"< 1k",
	"1k - 5k",
	"5k - 10k",
	"10k - 25k",
	"25k - 50k",
	"50k - 100k",
	"100k - 500k",
	"> 500k",
}

// FeasibilityScale lists difficulty brackets from easiest to hardest
var FeasibilityScale = []Feasibility{
	"Very Easy",
	"Easy",
	"Moderate",
	"Hard",
	"Very Hard",
}

// Category is the coarse evaluation outcome
type Category string

const (
	CategoryGreen  Category = "green"
	CategoryYellow Category = "yellow"
	CategoryRed    Category = "red"
	CategoryNone   Category = "none"
)

// Categories lists every category in display order
var Categories = []Category{CategoryGreen, CategoryYellow, CategoryRed, CategoryNone}

// Index returns the position of the label on ImpactScale, or -1
func (i Impact) Index() int {
	for idx, v := range ImpactScale {
		if v == i {
			return idx
		}
	}
	return -1
}

// IsValid reports whether the label is on ImpactScale
func (i Impact) IsValid() bool {
	return i.Index() >= 0
}

// Index returns the position of the label on FeasibilityScale, or -1
func (f Feasibility) Index() int {
	for idx, v := range FeasibilityScale {
		if v == f {
			return idx
		}
	}
	return -1
}

// IsValid reports whether the label is on FeasibilityScale
func (f Feasibility) IsValid() bool {
	return f.Index() >= 0
}

// Categorize maps an impact/feasibility pair to a category. Impact counts
// as high from floor(len/2) upwards; feasibility counts as high below
// ceil(len/2), lower index being easier.
func Categorize(impact Impact, feasibility Feasibility) Category {
	return categorizeIndexes(impact.Index(), len(ImpactScale), feasibility.Index(), len(FeasibilityScale))
}

func categorizeIndexes(impactIdx, impactLen, feasIdx, feasLen int) Category {
	if impactIdx < 0 || feasIdx < 0 {
		return CategoryNone
	}
	highImpact := impactIdx >= impactLen/2
	highFeasibility := feasIdx < (feasLen+1)/2

	switch {
	case highImpact && highFeasibility:
		return CategoryGreen
	case highImpact || highFeasibility:
		return CategoryYellow
	default:
		return CategoryRed
	}
}

// Evaluation is one evaluator's assessment of an idea. There is at most one
// per (idea, evaluator); re-submission overwrites it.
type Evaluation struct {
	IdeaID      uuid.UUID
	EvaluatorID uuid.UUID
	Impact      Impact
	Feasibility Feasibility
	EvaluatedAt time.Time
}

// NewEvaluation validates the labels and creates an evaluation
func NewEvaluation(ideaID, evaluatorID uuid.UUID, impact Impact, feasibility Feasibility) (*Evaluation, error) {
	if ideaID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_IDEA", "Idea ID cannot be empty")
	}
	if evaluatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EVALUATOR", "Evaluator ID cannot be empty")
	}
	if !impact.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown impact label: "+string(impact))
	}
	if !feasibility.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown feasibility label: "+string(feasibility))
	}
	return &Evaluation{
		IdeaID:      ideaID,
		EvaluatorID: evaluatorID,
		Impact:      impact,
		Feasibility: feasibility,
		EvaluatedAt: time.Now(),
	}, nil
}

// Category returns the evaluation's category
func (e *Evaluation) Category() Category {
	return Categorize(e.Impact, e.Feasibility)
}

// CategoryCounts tallies evaluations per category. Every category is present.
func CategoryCounts(evaluations []Evaluation) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	for i := range evaluations {
		counts[evaluations[i].Category()]++
	}
	return counts
}
