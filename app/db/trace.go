package database

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-contact-registry/app/observability/metrics"
)

// StartQuery opens a span for one statement. The returned finish func must be
// called exactly once: it classifies err, records query metrics, ends the span
// and returns the classified error.
func StartQuery(ctx context.Context, tracer, name, operation, table string) (context.Context, func(err error) error) {
	ctx, span := otel.Tracer(tracer).Start(ctx, name, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", table),
	))
	start := time.Now()

	return ctx, func(err error) error {
		defer span.End()

		m := metrics.Get()
		attrs := metric.WithAttributes(
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", table),
		)
		m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)

		if err == nil {
			span.SetStatus(codes.Ok, "")
			return nil
		}
		err = Classify(err)
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return err
	}
}
