package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func spanContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))

	wrong := context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotNil(t, FromContext(wrong))
}

func TestScopedFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := context.Background()

	ctx, _ = WithRequestID(ctx, zap.New(core), "req-1")
	ctx, _ = WithJobID(ctx, FromContext(ctx), "recap-2026-10-14")
	ctx, l := WithUserID(ctx, FromContext(ctx), "u-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "recap-2026-10-14", GetJobID(ctx))
	assert.Same(t, l, FromContext(ctx))

	l.Info("scoped")
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "recap-2026-10-14", fields["job_id"])
	assert.Equal(t, "u-1", fields["user_id"])

	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetJobID(context.Background()))
}

func TestWithTraceContext(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, WithTraceContext(context.Background(), base))

	core, recorded := observer.New(zapcore.InfoLevel)
	WithTraceContext(spanContext(t), zap.New(core)).Info("traced")

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
}

func TestContextLogger_EnrichesEntries(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithContext(spanContext(t), zap.New(core))
	ctx = context.WithValue(ctx, RequestIDKey, "req-9")
	ctx = context.WithValue(ctx, UserIDKey, "u-9")

	cl := L(ctx)
	cl.Debug("d")
	cl.Info("i")
	cl.Warn("w")
	cl.Error("e")
	cl.With(zap.String("idea_id", "i-1")).Info("with")
	cl.Zap().Info("zap")

	logs := recorded.All()
	require.Len(t, logs, 6)
	for _, entry := range logs {
		fields := entry.ContextMap()
		assert.Equal(t, "req-9", fields["request_id"], entry.Message)
		assert.Equal(t, "u-9", fields["user_id"], entry.Message)
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"], entry.Message)
		assert.NotContains(t, fields, "job_id", entry.Message)
	}
	assert.Equal(t, "i-1", logs[4].ContextMap()["idea_id"])
}

func TestWithLogger_NilLogger(t *testing.T) {
	cl := WithLogger(context.Background(), nil)
	assert.NotPanics(t, func() { cl.Info("dropped") })
}
