// Package notification models tag-mention notifications and their recap state.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
)

// Type is the kind of notification
type Type string

const (
	TypeIdeaMention    Type = "idea_mention"
	TypeCommentMention Type = "comment_mention"
)

// IsValid checks if the type is a known notification type
func (t Type) IsValid() bool {
	return t == TypeIdeaMention || t == TypeCommentMention
}

// Snippet defaults and limits
const (
	DefaultSnippet   = "an idea"
	MaxSnippetLength = 60
)

// Notification tells a recipient that sender mentioned them. RecapSent only
// ever moves from false to true.
type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	SenderID    uuid.UUID
	Type        Type
	EntityID    uuid.UUID
	IdeaID      uuid.UUID
	Message     string
	Read        bool
	RecapSent   bool
	CreatedAt   time.Time
}

// NewMention creates a mention notification. For idea mentions entityID and
// ideaID are the same; for comment mentions entityID is the comment.
func NewMention(recipientID, senderID uuid.UUID, typ Type, entityID, ideaID uuid.UUID, message string) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient cannot be empty")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown notification type: "+string(typ))
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY", "Entity cannot be empty")
	}
	return &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        typ,
		EntityID:    entityID,
		IdeaID:      ideaID,
		Message:     message,
		CreatedAt:   time.Now(),
	}, nil
}

// MarkRead marks the notification as read
func (n *Notification) MarkRead() {
	n.Read = true
}

// MarkRecapSent flags the notification as included in a recap run
func (n *Notification) MarkRecapSent() {
	n.RecapSent = true
}

// Link returns the application path the notification points at
func (n *Notification) Link() string {
	if n.Type == TypeCommentMention {
		return fmt.Sprintf("/ideas/%s#comment-%s", n.IdeaID, n.EntityID)
	}
	return fmt.Sprintf("/ideas/%s", n.EntityID)
}

// Snippet shortens text for use in a message, defaulting to DefaultSnippet
func Snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return DefaultSnippet
	}
	if utf8.RuneCountInString(text) <= MaxSnippetLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:MaxSnippetLength])) + "..."
}

// IdeaMentionMessage renders the message for a tag on an idea
func IdeaMentionMessage(senderName, snippet string) string {
	return fmt.Sprintf("%s tagged you in their idea: %q", senderName, snippet)
}

// CommentMentionMessage renders the message for a tag on a comment
func CommentMentionMessage(senderName, snippet string) string {
	return fmt.Sprintf("%s mentioned you in a comment on %q", senderName, snippet)
}

// Repository defines the interface for notification persistence
type Repository interface {
	// Create inserts one notification
	Create(ctx context.Context, n *Notification) error

	// FindUnsentSince returns notifications with RecapSent=false created at
	// or after since, oldest first. Rows that fail conversion are left out
	// and their ids returned as skipped.
	FindUnsentSince(ctx context.Context, since time.Time) (unsent []Notification, skipped []uuid.UUID, err error)

	// MarkRecapSent flags all ids in one atomic write
	MarkRecapSent(ctx context.Context, ids []uuid.UUID) error

	// FindByRecipient returns a page of the recipient's notifications, newest first
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]Notification, error)

	CountByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) (int64, error)

	// MarkRead marks one of the recipient's notifications read
	MarkRead(ctx context.Context, recipientID, id uuid.UUID) error

	// MarkAllRead marks every notification of the recipient read and
	// returns the number changed
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}
