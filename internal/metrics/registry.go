package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Registry holds the risk engine metrics
type Registry struct {
	meter metric.Meter

	ComputationDuration  metric.Float64Histogram
	ComputationCounter   metric.Int64Counter
	ComputationFailures  metric.Int64Counter
	RisksClassified      metric.Int64Counter
	CompliancePercentage metric.Float64ObservableGauge

	// State for observable metrics
	mu                   sync.RWMutex
	lastCompliance       float64
	hasComplianceReading bool
}

// NewRegistry creates the engine metrics on provider. A nil provider falls
// back to the global one.
func NewRegistry(provider metric.MeterProvider, meterName string) (*Registry, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	r := &Registry{meter: provider.Meter(meterName)}

	if err := r.initComputationMetrics(); err != nil {
		return nil, err
	}

	if err := r.initRiskMetrics(); err != nil {
		return nil, err
	}

	if err := r.initComplianceMetrics(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) initComputationMetrics() error {
	var err error

	r.ComputationDuration, err = r.meter.Float64Histogram(
		"grc.engine.computation_duration",
		metric.WithDescription("Duration of engine computations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500),
	)
	if err != nil {
		return err
	}

	r.ComputationCounter, err = r.meter.Int64Counter(
		"grc.engine.computations",
		metric.WithDescription("Total number of engine computations"),
	)
	if err != nil {
		return err
	}

	r.ComputationFailures, err = r.meter.Int64Counter(
		"grc.engine.computation_failures",
		metric.WithDescription("Total number of rejected engine computations by error code"),
	)
	return err
}

func (r *Registry) initRiskMetrics() error {
	var err error

	r.RisksClassified, err = r.meter.Int64Counter(
		"grc.engine.risks_classified",
		metric.WithDescription("Total number of risks classified, by level"),
	)
	return err
}

func (r *Registry) initComplianceMetrics() error {
	var err error

	r.CompliancePercentage, err = r.meter.Float64ObservableGauge(
		"grc.engine.compliance_percentage",
		metric.WithDescription("Compliance percentage from the most recent summary"),
		metric.WithUnit("%"),
		metric.WithFloat64Callback(func(ctx context.Context, o metric.Float64Observer) error {
			r.mu.RLock()
			defer r.mu.RUnlock()
			if r.hasComplianceReading {
				o.Observe(r.lastCompliance)
			}
			return nil
		}),
	)
	return err
}

// RecordComputation records the outcome of one engine operation. code is the
// error code for failures and empty on success.
func (r *Registry) RecordComputation(ctx context.Context, operation string, durationMS float64, code string) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", code == ""),
	}

	r.ComputationDuration.Record(ctx, durationMS, metric.WithAttributes(attrs...))
	r.ComputationCounter.Add(ctx, 1, metric.WithAttributes(attrs...))

	if code != "" {
		r.ComputationFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("code", code),
		))
	}
}

// RecordClassified adds n risks to the counter for level.
func (r *Registry) RecordClassified(ctx context.Context, level string, n int) {
	if n <= 0 {
		return
	}
	r.RisksClassified.Add(ctx, int64(n), metric.WithAttributes(attribute.String("level", level)))
}

// SetCompliancePercentage stores the value reported by the gauge.
func (r *Registry) SetCompliancePercentage(pct float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastCompliance = pct
	r.hasComplianceReading = true
}
