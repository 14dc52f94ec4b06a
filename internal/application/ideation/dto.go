package ideation

import (
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
)

// CreateIdeaRequest represents a request to submit an idea
type CreateIdeaRequest struct {
	Title            string      `json:"title" binding:"required,min=3,max=120"`
	ShortDescription string      `json:"short_description" binding:"required,min=1,max=280"`
	Reasoning        string      `json:"reasoning" binding:"max=5000"`
	CostEstimate     string      `json:"cost_estimate" binding:"required"`
	ImageRef         string      `json:"image_ref" binding:"max=500"`
	TaggedUserIDs    []uuid.UUID `json:"tagged_user_ids"`
	InspiredBy       []uuid.UUID `json:"inspired_by"`
}

// UpdateIdeaRequest represents a request to edit an idea
type UpdateIdeaRequest struct {
	Title            *string      `json:"title" binding:"omitempty,min=3,max=120"`
	ShortDescription *string      `json:"short_description" binding:"omitempty,min=1,max=280"`
	Reasoning        *string      `json:"reasoning" binding:"omitempty,max=5000"`
	CostEstimate     *string      `json:"cost_estimate"`
	ImageRef         *string      `json:"image_ref" binding:"omitempty,max=500"`
	TaggedUserIDs    *[]uuid.UUID `json:"tagged_user_ids"`
}

// IdeaResponse represents an idea in API responses
type IdeaResponse struct {
	ID               uuid.UUID                 `json:"id"`
	Number           int                       `json:"number"`
	Title            string                    `json:"title"`
	ShortDescription string                    `json:"short_description"`
	Reasoning        string                    `json:"reasoning"`
	CostEstimate     string                    `json:"cost_estimate"`
	ImageRef         string                    `json:"image_ref,omitempty"`
	CreatorID        uuid.UUID                 `json:"creator_id"`
	TaggedUserIDs    []uuid.UUID               `json:"tagged_user_ids"`
	InspiredBy       []ideation.InspirationRef `json:"inspired_by"`
	Approved         bool                      `json:"approved"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// ToIdeaResponse converts a domain idea
func ToIdeaResponse(i *ideation.Idea) IdeaResponse {
	tagged := i.TaggedUserIDs
	if tagged == nil {
		tagged = []uuid.UUID{}
	}
	inspired := i.InspiredBy
	if inspired == nil {
		inspired = []ideation.InspirationRef{}
	}
	return IdeaResponse{
		ID:               i.ID,
		Number:           i.Number,
		Title:            i.Title,
		ShortDescription: i.ShortDescription,
		Reasoning:        i.Reasoning,
		CostEstimate:     i.CostEstimate,
		ImageRef:         i.ImageRef,
		CreatorID:        i.CreatorID,
		TaggedUserIDs:    tagged,
		InspiredBy:       inspired,
		Approved:         i.Approved,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

// IdeaListResponse is a page of ideas
type IdeaListResponse struct {
	Items    []IdeaResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// CreateCommentRequest represents a request to comment on an idea
type CreateCommentRequest struct {
	Text          string      `json:"text" binding:"required,min=1,max=2000"`
	TaggedUserIDs []uuid.UUID `json:"tagged_user_ids"`
}

// UpdateCommentRequest represents a request to edit a comment
type UpdateCommentRequest struct {
	Text          string       `json:"text" binding:"required,min=1,max=2000"`
	TaggedUserIDs *[]uuid.UUID `json:"tagged_user_ids"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID            uuid.UUID   `json:"id"`
	IdeaID        uuid.UUID   `json:"idea_id"`
	AuthorID      uuid.UUID   `json:"author_id"`
	Text          string      `json:"text"`
	TaggedUserIDs []uuid.UUID `json:"tagged_user_ids"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ToCommentResponse converts a domain comment
func ToCommentResponse(c *ideation.Comment) CommentResponse {
	tagged := c.TaggedUserIDs
	if tagged == nil {
		tagged = []uuid.UUID{}
	}
	return CommentResponse{
		ID:            c.ID,
		IdeaID:        c.IdeaID,
		AuthorID:      c.AuthorID,
		Text:          c.Text,
		TaggedUserIDs: tagged,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// SubmitEvaluationRequest represents an evaluation of an idea
type SubmitEvaluationRequest struct {
	Impact      string `json:"impact" binding:"required"`
	Feasibility string `json:"feasibility" binding:"required"`
}

// EvaluationResponse represents one evaluation with its category
type EvaluationResponse struct {
	IdeaID      uuid.UUID         `json:"idea_id"`
	EvaluatorID uuid.UUID         `json:"evaluator_id"`
	Impact      string            `json:"impact"`
	Feasibility string            `json:"feasibility"`
	Category    ideation.Category `json:"category"`
	EvaluatedAt time.Time         `json:"evaluated_at"`
}

// EvaluationSummary lists an idea's evaluations and their category counts
type EvaluationSummary struct {
	IdeaID      uuid.UUID                 `json:"idea_id"`
	Evaluations []EvaluationResponse      `json:"evaluations"`
	Counts      map[ideation.Category]int `json:"counts"`
}

// ToEvaluationResponse converts a domain evaluation
func ToEvaluationResponse(e *ideation.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		IdeaID:      e.IdeaID,
		EvaluatorID: e.EvaluatorID,
		Impact:      string(e.Impact),
		Feasibility: string(e.Feasibility),
		Category:    e.Category(),
		EvaluatedAt: e.EvaluatedAt,
	}
}

// CastVoteRequest represents a vote on an idea or solution
type CastVoteRequest struct {
	Value string `json:"value" binding:"required,oneof=agree disagree"`
}

// VoteResponse is the tally of a target plus the caller's own vote
type VoteResponse struct {
	TargetID uuid.UUID `json:"target_id"`
	Agree    int64     `json:"agree"`
	Disagree int64     `json:"disagree"`
	Mine     string    `json:"mine,omitempty"`
}
