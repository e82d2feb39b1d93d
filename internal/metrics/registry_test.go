package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestRegistry(t *testing.T) (*Registry, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	r, err := NewRegistry(provider, "grc.engine.test")
	require.NoError(t, err)
	return r, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, key attribute.Key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(key); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestRegistry_RecordComputation(t *testing.T) {
	r, reader := newTestRegistry(t)
	ctx := context.Background()

	r.RecordComputation(ctx, "build_matrix", 0.4, "")
	r.RecordComputation(ctx, "build_matrix", 0.2, "")
	r.RecordComputation(ctx, "build_dashboard", 1.1, "AGGREGATION_FAILURE")

	got := collect(t, reader)

	assert.Equal(t, int64(2), sumFor(t, got["grc.engine.computations"], "operation", "build_matrix"))
	assert.Equal(t, int64(1), sumFor(t, got["grc.engine.computations"], "operation", "build_dashboard"))
	assert.Equal(t, int64(1), sumFor(t, got["grc.engine.computation_failures"], "code", "AGGREGATION_FAILURE"))

	hist, ok := got["grc.engine.computation_duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestRegistry_RecordClassified(t *testing.T) {
	r, reader := newTestRegistry(t)
	ctx := context.Background()

	r.RecordClassified(ctx, "CRITICAL", 2)
	r.RecordClassified(ctx, "LOW", 0)
	r.RecordClassified(ctx, "CRITICAL", 1)

	got := collect(t, reader)
	m := got["grc.engine.risks_classified"]
	assert.Equal(t, int64(3), sumFor(t, m, "level", "CRITICAL"))
	assert.Equal(t, int64(0), sumFor(t, m, "level", "LOW"))
}

func TestRegistry_CompliancePercentageGauge(t *testing.T) {
	r, reader := newTestRegistry(t)

	got := collect(t, reader)
	if m, ok := got["grc.engine.compliance_percentage"]; ok {
		gauge, ok := m.Data.(metricdata.Gauge[float64])
		require.True(t, ok)
		assert.Empty(t, gauge.DataPoints, "no reading before the first summary")
	}

	r.SetCompliancePercentage(33.3)
	got = collect(t, reader)
	gauge, ok := got["grc.engine.compliance_percentage"].Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, 33.3, gauge.DataPoints[0].Value)
}
