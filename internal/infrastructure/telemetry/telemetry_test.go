package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupLogger(t *testing.T) {
	logger, err := SetupLogger("warn")
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestWithTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	// no span: logger is returned unchanged
	WithTrace(context.Background(), logger).Info("plain")

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	WithTrace(ctx, logger).Info("traced")
	span.End()

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())

	fields := entries[1].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
	assert.Equal(t, true, fields["sampled"])
}

func TestInitializeOpenTelemetry_Disabled(t *testing.T) {
	p, err := InitializeOpenTelemetry(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	assert.NotNil(t, p.TracerProvider)
	assert.NotNil(t, p.MeterProvider)
	families, err := p.Gatherer.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInitializeOpenTelemetry_PrometheusGatherer(t *testing.T) {
	ctx := context.Background()
	p, err := InitializeOpenTelemetry(ctx, &Config{
		ServiceName:    "grc-risk-engine-test",
		ServiceVersion: "test",
		Environment:    "test",
		Enabled:        true,
		SamplingRate:   1.0,
		ExportTimeout:  time.Second,
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, p.Shutdown(ctx)) }()

	counter, err := p.MeterProvider.Meter("telemetry-test").Int64Counter("grc.test.events")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	families, err := p.Gatherer.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "grc_test_events") {
			found = true
			require.NotEmpty(t, f.GetMetric())
			assert.Equal(t, 3.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "counter should be exported through the prometheus registry")
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := tp.Tracer("test").Start(context.Background(), "failing")
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 1)
}

func TestStartComputationSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	_, succeeded := StartComputationSpan(context.Background(), tracer, "RiskEngine", "build_matrix", "c-1",
		attribute.Int("risk.count", 2))
	EndComputation(succeeded, nil, "")
	succeeded.End()

	_, failed := StartComputationSpan(context.Background(), tracer, "RiskEngine", "classify_risk", "c-2")
	EndComputation(failed, errors.New("impact_score must be between 1 and 5"), "INVALID_SCORE_INPUT")
	failed.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "RiskEngine.build_matrix", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), AttrComputationID.String("c-1"))
	assert.Contains(t, spans[0].Attributes(), AttrOperation.String("build_matrix"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("risk.count", 2))

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	require.Len(t, spans[1].Events(), 1)
	assert.Contains(t, spans[1].Events()[0].Attributes, AttrErrorCode.String("INVALID_SCORE_INPUT"))
}
