package ideation

import (
	"context"

	"github.com/ideation/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type aggregate interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishPending publishes and clears the aggregate's events. The write has
// already been committed, so publish failures are logged only.
func publishPending(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg aggregate) {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.String("event_type", events[0].EventType()),
			zap.Error(err))
	}
}
