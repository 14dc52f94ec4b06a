package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/ideation/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSlowQueryThreshold = 200 * time.Millisecond
	queryStartKey             = "telemetry:query_start"
)

// DBConfig controls database instrumentation
type DBConfig struct {
	TraceEnabled       bool
	LogFullSQL         bool
	SlowQueryThreshold time.Duration
	DBSystem           string
}

// DBConfigFrom maps the application telemetry settings
func DBConfigFrom(cfg config.TelemetryConfig) DBConfig {
	return DBConfig{
		TraceEnabled:       cfg.Enabled && cfg.DBTraceEnabled,
		LogFullSQL:         cfg.DBLogFullSQL,
		SlowQueryThreshold: cfg.DBSlowQueryThresh,
		DBSystem:           "postgresql",
	}
}

// DBInstrumentation holds the database instruments. Close releases the
// pool stats callback.
type DBInstrumentation struct {
	queryDuration metric.Float64Histogram
	slowQueries   metric.Int64Counter
	poolConns     metric.Int64ObservableGauge
	registration  metric.Registration
	slowThreshold time.Duration
	logger        *zap.Logger
}

// InstrumentDB installs otelgorm tracing when enabled and always registers
// query duration and pool metrics on meter.
func InstrumentDB(db *gorm.DB, cfg DBConfig, meter metric.Meter, logger *zap.Logger) (*DBInstrumentation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = defaultSlowQueryThreshold
	}

	if cfg.TraceEnabled {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return nil, fmt.Errorf("register otelgorm: %w", err)
		}
	}

	d := &DBInstrumentation{slowThreshold: cfg.SlowQueryThreshold, logger: logger}
	var err error
	if d.queryDuration, err = meter.Float64Histogram("db.query.duration",
		metric.WithDescription("Database query latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5),
	); err != nil {
		return nil, err
	}
	if d.slowQueries, err = meter.Int64Counter("db.query.slow",
		metric.WithDescription("Queries slower than the slow query threshold"),
	); err != nil {
		return nil, err
	}
	if err := d.registerCallbacks(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if d.poolConns, err = meter.Int64ObservableGauge("db.pool.connections",
		metric.WithDescription("Connections in the pool by state"),
	); err != nil {
		return nil, err
	}
	d.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(d.poolConns, int64(stats.Idle), metric.WithAttributes(attribute.String("state", "idle")))
		o.ObserveInt64(d.poolConns, int64(stats.InUse), metric.WithAttributes(attribute.String("state", "in_use")))
		o.ObserveInt64(d.poolConns, int64(stats.MaxOpenConnections), metric.WithAttributes(attribute.String("state", "max")))
		return nil
	}, d.poolConns)
	if err != nil {
		return nil, fmt.Errorf("register pool callback: %w", err)
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.TraceEnabled),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return d, nil
}

// Close stops pool observation
func (d *DBInstrumentation) Close() error {
	if d == nil || d.registration == nil {
		return nil
	}
	return d.registration.Unregister()
}

func (d *DBInstrumentation) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	register := func(op string, before, after callbackRegisterer) error {
		if err := before.Register("telemetry:before_"+op, d.start); err != nil {
			return err
		}
		return after.Register("telemetry:after_"+op, func(tx *gorm.DB) { d.finish(tx, op) })
	}
	if err := register("create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")); err != nil {
		return err
	}
	if err := register("query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")); err != nil {
		return err
	}
	if err := register("update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")); err != nil {
		return err
	}
	if err := register("delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")); err != nil {
		return err
	}
	if err := register("row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row")); err != nil {
		return err
	}
	return register("raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw"))
}

type callbackRegisterer interface {
	Register(name string, fn func(*gorm.DB)) error
}

func (d *DBInstrumentation) start(tx *gorm.DB) {
	tx.InstanceSet(queryStartKey, time.Now())
}

func (d *DBInstrumentation) finish(tx *gorm.DB, op string) {
	v, ok := tx.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	started, ok := v.(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(started)
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	attrs := metric.WithAttributes(
		attribute.String("db.operation", op),
		attribute.String("db.table", tx.Statement.Table),
		attribute.Bool("error", tx.Error != nil),
	)
	d.queryDuration.Record(ctx, elapsed.Seconds(), attrs)
	if elapsed >= d.slowThreshold {
		d.slowQueries.Add(ctx, 1, attrs)
	}
}
