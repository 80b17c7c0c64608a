package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/trycco/storefront/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// DBTracing wraps the otelgorm plugin with slow query marking.
type DBTracing struct {
	enabled       bool
	slowThreshold time.Duration
	dbSystem      string
	logger        *zap.Logger
}

// NewDBTracing builds the plugin from the telemetry settings. dbDriver is the
// configured database driver and names the db.system attribute.
func NewDBTracing(cfg config.TelemetryConfig, dbDriver string, logger *zap.Logger) *DBTracing {
	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = defaultSlowQueryThreshold
	}
	system := "postgresql"
	if dbDriver == config.DriverSQLite {
		system = "sqlite"
	}
	return &DBTracing{
		enabled:       cfg.Enabled && cfg.DBTraceEnabled,
		slowThreshold: threshold,
		dbSystem:      system,
		logger:        logger,
	}
}

// Register installs otelgorm and the timing callbacks on db. Query variables
// never reach the spans since order rows carry customer contact details.
func (t *DBTracing) Register(db *gorm.DB) error {
	if !t.enabled {
		t.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(t.dbSystem),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}
	if err := t.registerCallbacks(db); err != nil {
		return err
	}

	t.logger.Info("Database tracing enabled",
		zap.Duration("slow_query_threshold", t.slowThreshold),
		zap.String("db_system", t.dbSystem),
	)
	return nil
}

func (t *DBTracing) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("otel_timing:before_create", t.before),
		cb.Query().Before("gorm:query").Register("otel_timing:before_query", t.before),
		cb.Update().Before("gorm:update").Register("otel_timing:before_update", t.before),
		cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", t.before),
		cb.Row().Before("gorm:row").Register("otel_timing:before_row", t.before),
		cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", t.before),

		cb.Create().After("gorm:create").Register("otel_timing:after_create", t.after),
		cb.Query().After("gorm:query").Register("otel_timing:after_query", t.after),
		cb.Update().After("gorm:update").Register("otel_timing:after_update", t.after),
		cb.Delete().After("gorm:delete").Register("otel_timing:after_delete", t.after),
		cb.Row().After("gorm:row").Register("otel_timing:after_row", t.after),
		cb.Raw().After("gorm:raw").Register("otel_timing:after_raw", t.after),
	)
}

func (t *DBTracing) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// after annotates the current span with rows, table, errors and slowness.
func (t *DBTracing) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > t.slowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", t.slowThreshold.Milliseconds()),
		))
	}
}
