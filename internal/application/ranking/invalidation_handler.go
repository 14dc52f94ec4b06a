package ranking

import (
	"context"

	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvalidationHandler drops the cached ranking on every write that can
// change a player's stats, then signals live subscribers
type InvalidationHandler struct {
	service     *Service
	broadcaster *Broadcaster
	logger      *zap.Logger
}

// NewInvalidationHandler creates a new InvalidationHandler. broadcaster may be nil.
func NewInvalidationHandler(service *Service, broadcaster *Broadcaster, logger *zap.Logger) *InvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvalidationHandler{
		service:     service,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *InvalidationHandler) EventTypes() []string {
	return []string{
		ideation.EventTypeIdeaWritten,
		ideation.EventTypeIdeaDeleted,
		ideation.EventTypeCommentWritten,
		ideation.EventTypeCommentDeleted,
		ideation.EventTypeEvaluationSubmitted,
		player.EventTypePlayerUpdated,
	}
}

// Handle invalidates the ranking cache
func (h *InvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.service.Invalidate(ctx); err != nil {
		h.logger.Warn("Failed to invalidate ranking cache",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}
	h.logger.Debug("Ranking cache invalidated", zap.String("event_type", event.EventType()))
	if h.broadcaster != nil {
		h.broadcaster.Notify()
	}
	return nil
}

// Ensure InvalidationHandler implements shared.EventHandler
var _ shared.EventHandler = (*InvalidationHandler)(nil)

// rankedTables are the tables whose rows feed the ranking
var rankedTables = map[string]bool{
	"ideas":       true,
	"comments":    true,
	"evaluations": true,
	"players":     true,
}

// OnTableChange invalidates the ranking when another process changed a
// ranked table. Changes to other tables are ignored.
func (h *InvalidationHandler) OnTableChange(ctx context.Context, table string) error {
	if !rankedTables[table] {
		return nil
	}
	if err := h.service.Invalidate(ctx); err != nil {
		h.logger.Warn("Failed to invalidate ranking cache",
			zap.String("table", table),
			zap.Error(err))
		return err
	}
	if h.broadcaster != nil {
		h.broadcaster.Notify()
	}
	return nil
}
