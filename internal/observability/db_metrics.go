package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// ObserveDB runs fn inside a client span and records its latency under op.
// pgx.ErrNoRows is a lookup miss, not a database error. A nil Prom still traces.
func (p *Prom) ObserveDB(ctx context.Context, op string, fn func() error) error {
	_, span := Tracer().Start(ctx, "db "+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemPostgreSQL,
			attribute.String("db.operation", op),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Seconds()

	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		status = "no_rows"
	default:
		status = "error"
		class := classifyDBErr(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, class)
		if p != nil {
			p.DbErrorsTotal.WithLabelValues(op, class).Inc()
		}
	}

	if p != nil {
		p.DbQueryDuration.WithLabelValues(op, status).Observe(elapsed)
	}
	return err
}

func classifyDBErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "23503":
			return "foreign_key_violation"
		case "23514":
			return "check_violation"
		case "40001":
			return "serialization_failure"
		case "57014":
			return "query_canceled"
		default:
			return "pg_" + pgErr.Code
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection") || strings.Contains(msg, "dial") {
		return "connection"
	}
	return "unknown"
}
