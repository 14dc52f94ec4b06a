package ideation

import (
	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeIdea       = "Idea"
	AggregateTypeComment    = "Comment"
	AggregateTypeEvaluation = "Evaluation"
)

// Event type constants
const (
	EventTypeIdeaWritten         = "IdeaWritten"
	EventTypeIdeaDeleted         = "IdeaDeleted"
	EventTypeCommentWritten      = "CommentWritten"
	EventTypeCommentDeleted      = "CommentDeleted"
	EventTypeEvaluationSubmitted = "EvaluationSubmitted"
)

// IdeaWrittenEvent is raised on every create or update of an idea.
// BeforeTags is empty when Created is true.
type IdeaWrittenEvent struct {
	shared.BaseDomainEvent
	IdeaID           uuid.UUID   `json:"idea_id"`
	CreatorID        uuid.UUID   `json:"creator_id"`
	Title            string      `json:"title"`
	ShortDescription string      `json:"short_description"`
	BeforeTags       []uuid.UUID `json:"before_tags,omitempty"`
	AfterTags        []uuid.UUID `json:"after_tags,omitempty"`
	Created          bool        `json:"created"`
}

// NewIdeaWrittenEvent creates a new IdeaWrittenEvent
func NewIdeaWrittenEvent(idea *Idea, before []uuid.UUID, created bool) *IdeaWrittenEvent {
	return &IdeaWrittenEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeIdeaWritten, AggregateTypeIdea, idea.ID),
		IdeaID:           idea.ID,
		CreatorID:        idea.CreatorID,
		Title:            idea.Title,
		ShortDescription: idea.ShortDescription,
		BeforeTags:       append([]uuid.UUID(nil), before...),
		AfterTags:        append([]uuid.UUID(nil), idea.TaggedUserIDs...),
		Created:          created,
	}
}

// EventType returns the event type name
func (e *IdeaWrittenEvent) EventType() string {
	return EventTypeIdeaWritten
}

// IdeaDeletedEvent is raised when an idea row disappears from the store
type IdeaDeletedEvent struct {
	shared.BaseDomainEvent
	IdeaID uuid.UUID `json:"idea_id"`
}

// NewIdeaDeletedEvent creates a new IdeaDeletedEvent
func NewIdeaDeletedEvent(ideaID uuid.UUID) *IdeaDeletedEvent {
	return &IdeaDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIdeaDeleted, AggregateTypeIdea, ideaID),
		IdeaID:          ideaID,
	}
}

// EventType returns the event type name
func (e *IdeaDeletedEvent) EventType() string {
	return EventTypeIdeaDeleted
}

// CommentWrittenEvent is raised on every create or update of a comment
type CommentWrittenEvent struct {
	shared.BaseDomainEvent
	CommentID  uuid.UUID   `json:"comment_id"`
	IdeaID     uuid.UUID   `json:"idea_id"`
	AuthorID   uuid.UUID   `json:"author_id"`
	BeforeTags []uuid.UUID `json:"before_tags,omitempty"`
	AfterTags  []uuid.UUID `json:"after_tags,omitempty"`
	Created    bool        `json:"created"`
}

// NewCommentWrittenEvent creates a new CommentWrittenEvent
func NewCommentWrittenEvent(c *Comment, before []uuid.UUID, created bool) *CommentWrittenEvent {
	return &CommentWrittenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommentWritten, AggregateTypeComment, c.ID),
		CommentID:       c.ID,
		IdeaID:          c.IdeaID,
		AuthorID:        c.AuthorID,
		BeforeTags:      append([]uuid.UUID(nil), before...),
		AfterTags:       append([]uuid.UUID(nil), c.TaggedUserIDs...),
		Created:         created,
	}
}

// EventType returns the event type name
func (e *CommentWrittenEvent) EventType() string {
	return EventTypeCommentWritten
}

// CommentDeletedEvent is raised when a comment row disappears from the store
type CommentDeletedEvent struct {
	shared.BaseDomainEvent
	CommentID uuid.UUID `json:"comment_id"`
}

// NewCommentDeletedEvent creates a new CommentDeletedEvent
func NewCommentDeletedEvent(commentID uuid.UUID) *CommentDeletedEvent {
	return &CommentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommentDeleted, AggregateTypeComment, commentID),
		CommentID:       commentID,
	}
}

// EventType returns the event type name
func (e *CommentDeletedEvent) EventType() string {
	return EventTypeCommentDeleted
}

// EvaluationSubmittedEvent is raised when an evaluation is created or overwritten
type EvaluationSubmittedEvent struct {
	shared.BaseDomainEvent
	IdeaID      uuid.UUID `json:"idea_id"`
	EvaluatorID uuid.UUID `json:"evaluator_id"`
	Category    Category  `json:"category"`
}

// NewEvaluationSubmittedEvent creates a new EvaluationSubmittedEvent
func NewEvaluationSubmittedEvent(e *Evaluation) *EvaluationSubmittedEvent {
	return &EvaluationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEvaluationSubmitted, AggregateTypeEvaluation, e.IdeaID),
		IdeaID:          e.IdeaID,
		EvaluatorID:     e.EvaluatorID,
		Category:        e.Category(),
	}
}

// EventType returns the event type name
func (e *EvaluationSubmittedEvent) EventType() string {
	return EventTypeEvaluationSubmitted
}
