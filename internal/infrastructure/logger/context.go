package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey holds the request-scoped logger
	LoggerKey contextKey = "logger"
	// RequestIDKey holds the HTTP request id
	RequestIDKey contextKey = "request_id"
	// JobIDKey holds the id of the scheduler job being run
	JobIDKey contextKey = "job_id"
	// UserIDKey holds the authenticated player id
	UserIDKey contextKey = "user_id"
)

// scopedKeys are copied onto every entry written through L
var scopedKeys = []contextKey{RequestIDKey, JobIDKey, UserIDKey}

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext returns the attached logger, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// withScope stores value under key and attaches a logger carrying it
func withScope(ctx context.Context, logger *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	enriched := logger.With(zap.String(string(key), value))
	ctx = context.WithValue(ctx, key, value)
	return WithContext(ctx, enriched), enriched
}

// WithRequestID scopes ctx and its logger to one HTTP request
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return withScope(ctx, logger, RequestIDKey, requestID)
}

// WithJobID scopes ctx and its logger to one scheduler job
func WithJobID(ctx context.Context, logger *zap.Logger, jobID string) (context.Context, *zap.Logger) {
	return withScope(ctx, logger, JobIDKey, jobID)
}

// WithUserID scopes ctx and its logger to the authenticated player
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return withScope(ctx, logger, UserIDKey, userID)
}

func scoped(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// GetRequestID returns the request id, or ""
func GetRequestID(ctx context.Context) string { return scoped(ctx, RequestIDKey) }

// GetJobID returns the scheduler job id, or ""
func GetJobID(ctx context.Context) string { return scoped(ctx, JobIDKey) }

// WithTraceContext adds trace_id and span_id when ctx carries a valid span
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// ContextLogger writes entries with the trace ids and the scoped fields of
// its context. Fields are resolved per entry, so a ContextLogger kept across
// a request still sees the user id set after authentication.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L returns a ContextLogger over the logger attached to ctx
//
//	logger.L(ctx).Info("Recap digest finished", zap.Int("emails", n))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

// WithLogger returns a ContextLogger over an explicit logger. A nil logger
// drops every entry.
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextLogger{ctx: ctx, logger: logger}
}

// With returns a child carrying extra fields
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.logger.With(fields...)}
}

// Zap returns the enriched logger, for code that takes a *zap.Logger
func (cl *ContextLogger) Zap() *zap.Logger {
	l := WithTraceContext(cl.ctx, cl.logger)
	for _, key := range scopedKeys {
		if v := scoped(cl.ctx, key); v != "" {
			l = l.With(zap.String(string(key), v))
		}
	}
	return l
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.Zap().Debug(msg, fields...) }
func (cl *ContextLogger) Info(msg string, fields ...zap.Field)  { cl.Zap().Info(msg, fields...) }
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field)  { cl.Zap().Warn(msg, fields...) }
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.Zap().Error(msg, fields...) }
