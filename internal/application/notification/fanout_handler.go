// Package notification implements tag-mention fan-out, the notification
// inbox and the daily recap digest.
package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/notification"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MentionFanoutHandler creates a notification for every user newly tagged
// on an idea or comment
type MentionFanoutHandler struct {
	ideaRepo   ideation.IdeaRepository
	playerRepo player.Repository
	notifRepo  notification.Repository
	metrics    Metrics
	logger     *zap.Logger
}

// NewMentionFanoutHandler creates a new fan-out handler
func NewMentionFanoutHandler(
	ideaRepo ideation.IdeaRepository,
	playerRepo player.Repository,
	notifRepo notification.Repository,
	logger *zap.Logger,
) *MentionFanoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentionFanoutHandler{
		ideaRepo:   ideaRepo,
		playerRepo: playerRepo,
		notifRepo:  notifRepo,
		logger:     logger,
	}
}

// WithMetrics sets the metrics sink
func (h *MentionFanoutHandler) WithMetrics(m Metrics) *MentionFanoutHandler {
	h.metrics = m
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *MentionFanoutHandler) EventTypes() []string {
	return []string{
		ideation.EventTypeIdeaWritten,
		ideation.EventTypeCommentWritten,
		ideation.EventTypeIdeaDeleted,
		ideation.EventTypeCommentDeleted,
	}
}

// mention is one pending notification insert
type mention struct {
	recipient uuid.UUID
	message   string
}

// Handle fans out notifications for an idea or comment write. Errors are
// logged and never returned.
func (h *MentionFanoutHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ideation.IdeaWrittenEvent:
		h.fanout(ctx, notification.TypeIdeaMention, e.CreatorID, e.IdeaID, e.IdeaID, e.BeforeTags, e.AfterTags,
			func(sender string) string {
				return notification.IdeaMentionMessage(sender, notification.Snippet(e.Title))
			})
	case *ideation.CommentWrittenEvent:
		h.fanout(ctx, notification.TypeCommentMention, e.AuthorID, e.CommentID, e.IdeaID, e.BeforeTags, e.AfterTags,
			func(sender string) string {
				return notification.CommentMentionMessage(sender, h.parentSnippet(ctx, e.IdeaID))
			})
	case *ideation.IdeaDeletedEvent, *ideation.CommentDeletedEvent:
		// nothing to notify
	default:
		h.logger.Debug("Ignoring unexpected event type",
			zap.String("event_type", event.EventType()))
	}
	return nil
}

func (h *MentionFanoutHandler) fanout(
	ctx context.Context,
	typ notification.Type,
	actorID, entityID, ideaID uuid.UUID,
	before, after []uuid.UUID,
	message func(sender string) string,
) {
	var recipients []uuid.UUID
	for _, id := range ideation.NewlyTagged(before, after) {
		if id != actorID && id != uuid.Nil {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return
	}

	msg := message(h.senderName(ctx, actorID))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, recipient := range recipients {
		wg.Add(1)
		go func(m mention) {
			defer wg.Done()
			if err := h.insertRecovered(ctx, typ, actorID, entityID, ideaID, m); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				h.logger.Error("Failed to create mention notification",
					zap.String("recipient_id", m.recipient.String()),
					zap.String("entity_id", entityID.String()),
					zap.String("type", string(typ)),
					zap.Error(err))
			}
		}(mention{recipient: recipient, message: msg})
	}
	wg.Wait()

	h.logger.Info("Mention notifications fanned out",
		zap.String("type", string(typ)),
		zap.String("entity_id", entityID.String()),
		zap.Int("recipients", len(recipients)),
		zap.Int("failed", failed))
	if h.metrics != nil {
		h.metrics.RecordMentions(ctx, string(typ), len(recipients)-failed, failed)
	}
}

// insertRecovered runs insert on a fan-out goroutine, where a panic would
// otherwise take the process down
func (h *MentionFanoutHandler) insertRecovered(ctx context.Context, typ notification.Type, senderID, entityID, ideaID uuid.UUID, m mention) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notification insert panicked: %v", r)
		}
	}()
	return h.insert(ctx, typ, senderID, entityID, ideaID, m)
}

func (h *MentionFanoutHandler) insert(ctx context.Context, typ notification.Type, senderID, entityID, ideaID uuid.UUID, m mention) error {
	n, err := notification.NewMention(m.recipient, senderID, typ, entityID, ideaID, m.message)
	if err != nil {
		return err
	}
	if err := h.notifRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// senderName resolves the acting player's display name
func (h *MentionFanoutHandler) senderName(ctx context.Context, id uuid.UUID) string {
	p, err := h.playerRepo.FindByID(ctx, id)
	if err != nil {
		h.logger.Debug("Sender lookup failed, using default name",
			zap.String("player_id", id.String()),
			zap.Error(err))
		return player.DefaultDisplayName
	}
	return p.NameOrDefault()
}

// parentSnippet is the short description of a comment's idea
func (h *MentionFanoutHandler) parentSnippet(ctx context.Context, ideaID uuid.UUID) string {
	idea, err := h.ideaRepo.FindByID(ctx, ideaID)
	if err != nil {
		h.logger.Debug("Parent idea lookup failed, using default snippet",
			zap.String("idea_id", ideaID.String()),
			zap.Error(err))
		return notification.DefaultSnippet
	}
	return notification.Snippet(idea.ShortDescription)
}

// Ensure MentionFanoutHandler implements shared.EventHandler
var _ shared.EventHandler = (*MentionFanoutHandler)(nil)
