package ideation

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// MaxCommentLength is the maximum comment text length in runes
const MaxCommentLength = 2000

// Comment is a player's comment on an idea
type Comment struct {
	shared.BaseAggregateRoot
	IdeaID        uuid.UUID
	AuthorID      uuid.UUID
	Text          string
	TaggedUserIDs []uuid.UUID
}

// NewComment validates and creates a comment on ideaID
func NewComment(ideaID, authorID uuid.UUID, text string, tagged []uuid.UUID) (*Comment, error) {
	if ideaID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_IDEA", "Idea ID cannot be empty")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author ID cannot be empty")
	}
	text = strings.TrimSpace(text)
	if err := validateCommentText(text); err != nil {
		return nil, err
	}

	c := &Comment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IdeaID:            ideaID,
		AuthorID:          authorID,
		Text:              text,
		TaggedUserIDs:     DedupeTags(tagged),
	}
	c.AddDomainEvent(NewCommentWrittenEvent(c, nil, true))
	return c, nil
}

// Edit replaces the text and, when tagged is non-nil, the tag list
func (c *Comment) Edit(actorID uuid.UUID, text string, tagged *[]uuid.UUID) error {
	if actorID != c.AuthorID {
		return shared.NewDomainError("FORBIDDEN", "Only the author can edit a comment")
	}
	text = strings.TrimSpace(text)
	if err := validateCommentText(text); err != nil {
		return err
	}

	before := append([]uuid.UUID(nil), c.TaggedUserIDs...)
	c.Text = text
	if tagged != nil {
		c.TaggedUserIDs = DedupeTags(*tagged)
	}
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewCommentWrittenEvent(c, before, false))
	return nil
}

func validateCommentText(text string) error {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return shared.NewDomainError("INVALID_COMMENT", "Comment text cannot be empty")
	}
	if n > MaxCommentLength {
		return shared.NewDomainError("INVALID_COMMENT", "Comment text cannot exceed 2000 characters")
	}
	return nil
}
