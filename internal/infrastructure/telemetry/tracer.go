package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys shared by engine computations
const (
	AttrComputationID = attribute.Key("computation.id")
	AttrOperation     = attribute.Key("operation")
	AttrErrorCode     = attribute.Key("error.code")
)

// StartComputationSpan starts an internal span named component.operation and
// tags it with the computation ID. A nil tracer uses the global provider.
func StartComputationSpan(
	ctx context.Context,
	tracer trace.Tracer,
	component, operation, computationID string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = otel.Tracer(component)
	}

	attrs = append(attrs,
		AttrComputationID.String(computationID),
		AttrOperation.String(operation),
	)
	return tracer.Start(ctx, component+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndComputation records the outcome on span. code is the error code of err
// and is ignored on success.
func EndComputation(span trace.Span, err error, code string) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	RecordError(span, err, trace.WithAttributes(AttrErrorCode.String(code)))
}

// RecordError records an error on the span with additional context
func RecordError(span trace.Span, err error, opts ...trace.EventOption) {
	if err != nil {
		span.RecordError(err, opts...)
		span.SetStatus(codes.Error, err.Error())
	}
}
