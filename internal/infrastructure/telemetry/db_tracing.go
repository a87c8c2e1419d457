package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/sarva/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// DBTracing installs otelgorm and marks slow or failed statements on their spans
type DBTracing struct {
	dbSystem      string
	logFullSQL    bool
	slowThreshold time.Duration
	logger        *zap.Logger
}

// NewDBTracing builds the plugin from the telemetry and database settings
func NewDBTracing(tel config.TelemetryConfig, db config.DatabaseConfig, logger *zap.Logger) *DBTracing {
	system := "postgresql"
	if db.Driver == config.DriverSQLite {
		system = "sqlite"
	}
	return &DBTracing{
		dbSystem:      system,
		logFullSQL:    tel.DBLogFullSQL,
		slowThreshold: db.SlowThreshold,
		logger:        logger,
	}
}

// Register adds the plugin and its timing callbacks to db
func (p *DBTracing) Register(db *gorm.DB) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(p.dbSystem)}
	if !p.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	registrations := []error{
		cb.Create().Before("gorm:create").Register("sarva_timing:before_create", markStart),
		cb.Query().Before("gorm:query").Register("sarva_timing:before_query", markStart),
		cb.Update().Before("gorm:update").Register("sarva_timing:before_update", markStart),
		cb.Delete().Before("gorm:delete").Register("sarva_timing:before_delete", markStart),
		cb.Row().Before("gorm:row").Register("sarva_timing:before_row", markStart),
		cb.Raw().Before("gorm:raw").Register("sarva_timing:before_raw", markStart),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("sarva_timing:after_create", p.annotate),
		cb.Query().After("gorm:query").Before("otel:after:select").Register("sarva_timing:after_query", p.annotate),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("sarva_timing:after_update", p.annotate),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("sarva_timing:after_delete", p.annotate),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("sarva_timing:after_row", p.annotate),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("sarva_timing:after_raw", p.annotate),
	}
	if err := errors.Join(registrations...); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.String("db_system", p.dbSystem),
		zap.Bool("log_full_sql", p.logFullSQL),
		zap.Duration("slow_query_threshold", p.slowThreshold),
	)
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// annotate adds row counts, errors and the slow query flag to the statement's span.
// It must run before otelgorm ends the span.
func (p *DBTracing) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok || p.slowThreshold <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed > p.slowThreshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
