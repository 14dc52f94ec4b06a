package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
)

// IdeaModel is the persistence model for the Idea aggregate
type IdeaModel struct {
	AggregateModel
	Number           int                                  `gorm:"not null;uniqueIndex:idx_ideas_number"`
	Title            string                               `gorm:"type:varchar(120);not null"`
	ShortDescription string                               `gorm:"type:varchar(280);not null"`
	Reasoning        string                               `gorm:"type:text"`
	CostEstimate     string                               `gorm:"type:varchar(50);not null"`
	ImageRef         string                               `gorm:"type:varchar(500)"`
	CreatorID        uuid.UUID                            `gorm:"type:uuid;not null;index"`
	TaggedUserIDs    JSONColumn[[]uuid.UUID]              `gorm:"type:jsonb;not null"`
	InspiredBy       JSONColumn[[]ideation.InspirationRef] `gorm:"type:jsonb;not null"`
	Approved         bool                                 `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (IdeaModel) TableName() string {
	return "ideas"
}

// ToDomain converts the persistence model to a domain Idea. Records
// missing required fields yield a MalformedRecordError.
func (m *IdeaModel) ToDomain() (*ideation.Idea, error) {
	err := validation.Errors{
		"id":              validation.Validate(m.ID, requiredUUID),
		"number":          validation.Validate(m.Number, validation.Required, validation.Min(1)),
		"title":           validation.Validate(m.Title, validation.Required),
		"creator_id":      validation.Validate(m.CreatorID, requiredUUID),
		"tagged_user_ids": validation.Validate(m.TaggedUserIDs.Data, uuidList),
	}.Filter()
	if err := malformed("ideas", m.ID, err); err != nil {
		return nil, err
	}

	return &ideation.Idea{
		BaseAggregateRoot: m.aggregateRoot(),
		Number:            m.Number,
		Title:             m.Title,
		ShortDescription:  m.ShortDescription,
		Reasoning:         m.Reasoning,
		CostEstimate:      m.CostEstimate,
		ImageRef:          m.ImageRef,
		CreatorID:         m.CreatorID,
		TaggedUserIDs:     m.TaggedUserIDs.Data,
		InspiredBy:        m.InspiredBy.Data,
		Approved:          m.Approved,
	}, nil
}

// FromDomain populates the persistence model from a domain Idea
func (m *IdeaModel) FromDomain(i *ideation.Idea) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Number = i.Number
	m.Title = i.Title
	m.ShortDescription = i.ShortDescription
	m.Reasoning = i.Reasoning
	m.CostEstimate = i.CostEstimate
	m.ImageRef = i.ImageRef
	m.CreatorID = i.CreatorID
	m.TaggedUserIDs = NewJSONColumn(nonNil(i.TaggedUserIDs))
	m.InspiredBy = NewJSONColumn(nonNil(i.InspiredBy))
	m.Approved = i.Approved
}

// IdeaModelFromDomain creates a new persistence model from a domain Idea
func IdeaModelFromDomain(i *ideation.Idea) *IdeaModel {
	m := &IdeaModel{}
	m.FromDomain(i)
	return m
}

// CommentModel is the persistence model for the Comment aggregate
type CommentModel struct {
	AggregateModel
	IdeaID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	AuthorID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	Text          string                  `gorm:"type:text;not null"`
	TaggedUserIDs JSONColumn[[]uuid.UUID] `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (CommentModel) TableName() string {
	return "comments"
}

// ToDomain converts the persistence model to a domain Comment
func (m *CommentModel) ToDomain() (*ideation.Comment, error) {
	err := validation.Errors{
		"id":              validation.Validate(m.ID, requiredUUID),
		"idea_id":         validation.Validate(m.IdeaID, requiredUUID),
		"author_id":       validation.Validate(m.AuthorID, requiredUUID),
		"tagged_user_ids": validation.Validate(m.TaggedUserIDs.Data, uuidList),
	}.Filter()
	if err := malformed("comments", m.ID, err); err != nil {
		return nil, err
	}

	return &ideation.Comment{
		BaseAggregateRoot: m.aggregateRoot(),
		IdeaID:            m.IdeaID,
		AuthorID:          m.AuthorID,
		Text:              m.Text,
		TaggedUserIDs:     m.TaggedUserIDs.Data,
	}, nil
}

// FromDomain populates the persistence model from a domain Comment
func (m *CommentModel) FromDomain(c *ideation.Comment) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.IdeaID = c.IdeaID
	m.AuthorID = c.AuthorID
	m.Text = c.Text
	m.TaggedUserIDs = NewJSONColumn(nonNil(c.TaggedUserIDs))
}

// CommentModelFromDomain creates a new persistence model from a domain Comment
func CommentModelFromDomain(c *ideation.Comment) *CommentModel {
	m := &CommentModel{}
	m.FromDomain(c)
	return m
}

// EvaluationModel is keyed by (idea, evaluator)
type EvaluationModel struct {
	IdeaID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	EvaluatorID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Impact      string    `gorm:"type:varchar(30);not null"`
	Feasibility string    `gorm:"type:varchar(30);not null"`
	EvaluatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EvaluationModel) TableName() string {
	return "evaluations"
}

// ToDomain converts the persistence model. Unknown labels are kept; they
// categorize as none.
func (m *EvaluationModel) ToDomain() (*ideation.Evaluation, error) {
	err := validation.Errors{
		"idea_id":      validation.Validate(m.IdeaID, requiredUUID),
		"evaluator_id": validation.Validate(m.EvaluatorID, requiredUUID),
		"evaluated_at": validation.Validate(m.EvaluatedAt, validation.Required),
	}.Filter()
	if err := malformed("evaluations", m.IdeaID, err); err != nil {
		return nil, err
	}
	return &ideation.Evaluation{
		IdeaID:      m.IdeaID,
		EvaluatorID: m.EvaluatorID,
		Impact:      ideation.Impact(m.Impact),
		Feasibility: ideation.Feasibility(m.Feasibility),
		EvaluatedAt: m.EvaluatedAt,
	}, nil
}

// EvaluationModelFromDomain creates a new persistence model from a domain Evaluation
func EvaluationModelFromDomain(e *ideation.Evaluation) *EvaluationModel {
	return &EvaluationModel{
		IdeaID:      e.IdeaID,
		EvaluatorID: e.EvaluatorID,
		Impact:      string(e.Impact),
		Feasibility: string(e.Feasibility),
		EvaluatedAt: e.EvaluatedAt,
	}
}

// VoteModel is keyed by (target, user)
type VoteModel struct {
	TargetID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Value     string    `gorm:"type:varchar(10);not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VoteModel) TableName() string {
	return "votes"
}

// ToDomain converts the persistence model to a domain Vote
func (m *VoteModel) ToDomain() (*ideation.Vote, error) {
	err := validation.Errors{
		"target_id": validation.Validate(m.TargetID, requiredUUID),
		"user_id":   validation.Validate(m.UserID, requiredUUID),
		"value":     validation.Validate(m.Value, validation.Required, validation.In(string(ideation.VoteAgree), string(ideation.VoteDisagree))),
	}.Filter()
	if err := malformed("votes", m.TargetID, err); err != nil {
		return nil, err
	}
	return &ideation.Vote{
		TargetID:  m.TargetID,
		UserID:    m.UserID,
		Value:     ideation.VoteValue(m.Value),
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// VoteModelFromDomain creates a new persistence model from a domain Vote
func VoteModelFromDomain(v *ideation.Vote) *VoteModel {
	return &VoteModel{
		TargetID:  v.TargetID,
		UserID:    v.UserID,
		Value:     string(v.Value),
		UpdatedAt: v.UpdatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
