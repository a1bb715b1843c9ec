package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
)

// ReportPersistenceFailure marks a swallowed best-effort write failure on
// the active span and in the log. The in-memory result still served the
// caller; this event is what a monitoring collaborator alerts on.
func ReportPersistenceFailure(ctx context.Context, log *logger.Logger, table string, err error, kvs ...interface{}) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("persistence_failure", trace.WithAttributes(
			attribute.String("db.table", table),
			attribute.String("error", err.Error()),
		))
	}
	if log != nil {
		args := append([]interface{}{"table", table, "error", err}, kvs...)
		log.Warn("best-effort persistence failed", args...)
	}
}
