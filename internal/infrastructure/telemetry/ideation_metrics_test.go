package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ideation/backend/internal/application/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

// sumFor adds up int64 sum points whose attributes include want
func sumFor(t *testing.T, m metricdata.Metrics, want ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		matches := true
		for _, kv := range want {
			v, found := dp.Attributes.Value(kv.Key)
			if !found || v.Emit() != kv.Value.Emit() {
				matches = false
				break
			}
		}
		if matches {
			total += dp.Value
		}
	}
	return total
}

func TestIdeationMetrics_RecordMentions(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewIdeationMetrics(provider.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordMentions(ctx, "idea_mention", 3, 1)
	m.RecordMentions(ctx, "comment_mention", 2, 0)

	found, ok := findMetric(collect(t, reader), "ideation.notifications.created")
	require.True(t, ok)
	assert.Equal(t, int64(3), sumFor(t, found, attrKind.String("idea_mention"), attrOutcome.String("created")))
	assert.Equal(t, int64(1), sumFor(t, found, attrKind.String("idea_mention"), attrOutcome.String("failed")))
	assert.Equal(t, int64(2), sumFor(t, found, attrKind.String("comment_mention")))
}

func TestIdeationMetrics_RecordRecap(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewIdeationMetrics(provider.Meter(MeterName))
	require.NoError(t, err)

	m.RecordRecap(context.Background(), notification.RecapReport{
		Recipients:          3,
		EmailsSent:          2,
		EmailsFailed:        1,
		NotificationsMarked: 5,
	})

	rm := collect(t, reader)
	runs, ok := findMetric(rm, "ideation.recap.runs")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumFor(t, runs))

	emails, ok := findMetric(rm, "ideation.recap.emails")
	require.True(t, ok)
	assert.Equal(t, int64(2), sumFor(t, emails, attrOutcome.String("sent")))
	assert.Equal(t, int64(1), sumFor(t, emails, attrOutcome.String("failed")))

	marked, ok := findMetric(rm, "ideation.recap.notifications_marked")
	require.True(t, ok)
	assert.Equal(t, int64(5), sumFor(t, marked))
}

func TestIdeationMetrics_ObserveDispatch(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewIdeationMetrics(provider.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	m.ObserveDispatch(ctx, "IdeaCreated", 5*time.Millisecond, nil)
	m.ObserveDispatch(ctx, "IdeaCreated", 7*time.Millisecond, errors.New("boom"))

	rm := collect(t, reader)
	dispatched, ok := findMetric(rm, "ideation.events.dispatched")
	require.True(t, ok)
	assert.Equal(t, int64(1), sumFor(t, dispatched, attrOutcome.String("ok")))
	assert.Equal(t, int64(1), sumFor(t, dispatched, attrOutcome.String("error")))

	duration, ok := findMetric(rm, "ideation.events.dispatch_duration")
	require.True(t, ok)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}
