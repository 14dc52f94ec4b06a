package telemetry

import (
	"context"
	"time"

	"github.com/ideation/backend/internal/application/notification"
	"github.com/ideation/backend/internal/infrastructure/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName names the ideation instruments
const MeterName = "ideation-backend"

// metric attribute keys
var (
	attrKind      = attribute.Key("kind")
	attrOutcome   = attribute.Key("outcome")
	attrEventType = attribute.Key("event_type")
)

// IdeationMetrics records notification fan-out, recap runs and event
// dispatch. It satisfies notification.Metrics and event.Observer.
type IdeationMetrics struct {
	mentions         metric.Int64Counter
	recapRuns        metric.Int64Counter
	recapEmails      metric.Int64Counter
	recapMarked      metric.Int64Counter
	dispatches       metric.Int64Counter
	dispatchDuration metric.Float64Histogram
}

var (
	_ notification.Metrics = (*IdeationMetrics)(nil)
	_ event.Observer       = (*IdeationMetrics)(nil)
)

// NewIdeationMetrics creates the instruments on meter
func NewIdeationMetrics(meter metric.Meter) (*IdeationMetrics, error) {
	m := &IdeationMetrics{}
	var err error
	if m.mentions, err = meter.Int64Counter("ideation.notifications.created",
		metric.WithDescription("Notifications created by fan-out, by kind and outcome"),
	); err != nil {
		return nil, err
	}
	if m.recapRuns, err = meter.Int64Counter("ideation.recap.runs",
		metric.WithDescription("Completed recap digest runs"),
	); err != nil {
		return nil, err
	}
	if m.recapEmails, err = meter.Int64Counter("ideation.recap.emails",
		metric.WithDescription("Recap emails by outcome"),
	); err != nil {
		return nil, err
	}
	if m.recapMarked, err = meter.Int64Counter("ideation.recap.notifications_marked",
		metric.WithDescription("Notifications marked as included in a recap"),
	); err != nil {
		return nil, err
	}
	if m.dispatches, err = meter.Int64Counter("ideation.events.dispatched",
		metric.WithDescription("Domain event handler invocations"),
	); err != nil {
		return nil, err
	}
	if m.dispatchDuration, err = meter.Float64Histogram("ideation.events.dispatch_duration",
		metric.WithDescription("Domain event handler latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordMentions counts notifications created and failed for one fan-out
func (m *IdeationMetrics) RecordMentions(ctx context.Context, kind string, created, failed int) {
	if created > 0 {
		m.mentions.Add(ctx, int64(created), metric.WithAttributes(attrKind.String(kind), attrOutcome.String("created")))
	}
	if failed > 0 {
		m.mentions.Add(ctx, int64(failed), metric.WithAttributes(attrKind.String(kind), attrOutcome.String("failed")))
	}
}

// RecordRecap counts one recap run
func (m *IdeationMetrics) RecordRecap(ctx context.Context, report notification.RecapReport) {
	m.recapRuns.Add(ctx, 1)
	m.recapEmails.Add(ctx, int64(report.EmailsSent), metric.WithAttributes(attrOutcome.String("sent")))
	m.recapEmails.Add(ctx, int64(report.EmailsFailed), metric.WithAttributes(attrOutcome.String("failed")))
	m.recapEmails.Add(ctx, int64(report.Skipped), metric.WithAttributes(attrOutcome.String("skipped")))
	m.recapMarked.Add(ctx, int64(report.NotificationsMarked))
}

// ObserveDispatch records one handler invocation
func (m *IdeationMetrics) ObserveDispatch(ctx context.Context, eventType string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(attrEventType.String(eventType), attrOutcome.String(outcome))
	m.dispatches.Add(ctx, 1, attrs)
	m.dispatchDuration.Record(ctx, duration.Seconds(), attrs)
}
