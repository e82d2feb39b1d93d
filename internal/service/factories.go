package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/davidleathers/grc-risk-engine/internal/api/contract"
	"github.com/davidleathers/grc-risk-engine/internal/infrastructure/config"
	"github.com/davidleathers/grc-risk-engine/internal/infrastructure/telemetry"
	"github.com/davidleathers/grc-risk-engine/internal/metrics"
	"github.com/davidleathers/grc-risk-engine/internal/service/riskengine"
)

// Runtime holds the risk engine together with the infrastructure it was built on
type Runtime struct {
	Config    *config.Config
	Logger    *zap.Logger
	Telemetry *telemetry.Provider
	Metrics   *metrics.Registry
	Contract  *contract.Validator
	Engine    riskengine.Service
}

// NewRiskEngine wires logger, telemetry, metrics and the optional response
// contract into a ready-to-use engine. A nil config uses the defaults.
func NewRiskEngine(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := telemetry.SetupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	provider, err := telemetry.InitializeOpenTelemetry(ctx, &telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		ExportTimeout:  cfg.Telemetry.ExportTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	registry, err := metrics.NewRegistry(provider.MeterProvider, cfg.Telemetry.MeterName)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metrics registry: %w", err)
	}

	var cv *contract.Validator
	if cfg.Engine.ValidateContract {
		cv, err = contract.NewValidator()
		if err != nil {
			_ = provider.Shutdown(ctx)
			return nil, fmt.Errorf("failed to load response contract: %w", err)
		}
	}

	engine, err := riskengine.NewService(
		logger,
		registry,
		provider.TracerProvider.Tracer("grc.riskengine"),
		cv,
		riskengine.Options{MaxBatchSize: cfg.Engine.MaxBatchSize},
	)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create risk engine: %w", err)
	}

	logger.Info("Risk engine initialized",
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Bool("contract_validation", cv != nil),
		zap.Int("max_batch_size", cfg.Engine.MaxBatchSize),
	)

	return &Runtime{
		Config:    cfg,
		Logger:    logger,
		Telemetry: provider,
		Metrics:   registry,
		Contract:  cv,
		Engine:    engine,
	}, nil
}

// Shutdown flushes telemetry exporters and the logger
func (r *Runtime) Shutdown(ctx context.Context) error {
	err := r.Telemetry.Shutdown(ctx)
	// stdout sync fails on some terminals
	_ = r.Logger.Sync()
	return err
}
