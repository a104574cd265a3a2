package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanOperation represents a traced engine operation type.
type SpanOperation string

// Span operation constants for engine operations
const (
	// SpanOperationRun represents a full transaction run
	SpanOperationRun SpanOperation = "txn.run"
	// SpanOperationAbort represents an explicit transaction abort
	SpanOperationAbort SpanOperation = "txn.abort"
	// SpanOperationApply represents one guard's forward step
	SpanOperationApply SpanOperation = "txn.apply"
	// SpanOperationRollback represents one guard's undo step
	SpanOperationRollback SpanOperation = "txn.rollback"
)

// Span attribute keys used by the engine.
const (
	// AttrTransactionID carries the engine-assigned transaction identifier
	AttrTransactionID = "txn.id"
	// AttrTransactionLabel carries the caller-assigned transaction label
	AttrTransactionLabel = "txn.label"
	// AttrStepLabel carries the label of the step being applied or rolled back
	AttrStepLabel = "txn.step"
	// AttrSteps carries the number of registered steps
	AttrSteps = "txn.steps"
	// AttrOutcome carries the terminal transaction state
	AttrOutcome = "txn.outcome"
	// AttrFailedStep carries the label of the step whose apply failed
	AttrFailedStep = "txn.failed_step"
	// AttrRollbackFailures carries the number of failed rollback attempts
	AttrRollbackFailures = "txn.rollback_failures"
)

// StartTransactionSpan creates a span for a transaction run or abort.
// Callers must end the returned span.
func StartTransactionSpan(ctx context.Context, tracer trace.Tracer, operation SpanOperation, txID, label string, steps int) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = otel.Tracer("txn")
	}
	return tracer.Start(ctx, string(operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrTransactionID, txID),
			attribute.String(AttrTransactionLabel, label),
			attribute.Int(AttrSteps, steps),
		),
	)
}

// RecordOutcome annotates a transaction span with its terminal state.
func RecordOutcome(span trace.Span, outcome string, failedStep string, rollbackFailures int) {
	if span == nil {
		return
	}
	span.SetAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.Int(AttrRollbackFailures, rollbackFailures),
	)
	if failedStep != "" {
		span.SetAttributes(attribute.String(AttrFailedStep, failedStep))
	}
}

// RecordError marks the span as failed and records the error.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordSuccess marks the span as successful.
func RecordSuccess(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}
