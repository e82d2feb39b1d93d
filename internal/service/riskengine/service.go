package riskengine

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/davidleathers/grc-risk-engine/internal/api/contract"
	"github.com/davidleathers/grc-risk-engine/internal/domain/audit"
	"github.com/davidleathers/grc-risk-engine/internal/domain/compliance"
	"github.com/davidleathers/grc-risk-engine/internal/domain/dashboard"
	"github.com/davidleathers/grc-risk-engine/internal/domain/errors"
	"github.com/davidleathers/grc-risk-engine/internal/domain/risk"
	"github.com/davidleathers/grc-risk-engine/internal/infrastructure/telemetry"
	"github.com/davidleathers/grc-risk-engine/internal/metrics"
)

const tracerName = "grc.riskengine"

// Ensure service implements the interface
var _ Service = (*service)(nil)

// Options tunes request limits
type Options struct {
	// MaxBatchSize caps the number of risks or controls per call; 0 disables the cap
	MaxBatchSize int
}

// service implements the risk engine boundary. It validates request shape,
// hands the work to the domain packages and records a span, a log line and
// metrics for every computation.
type service struct {
	logger   *zap.Logger
	metrics  *metrics.Registry
	tracer   trace.Tracer
	validate *validator.Validate
	contract *contract.Validator
	opts     Options
}

// NewService creates the risk engine service. tracer and contractValidator are
// optional: a nil tracer uses the global provider and a nil validator skips
// response contract checks.
func NewService(
	logger *zap.Logger,
	registry *metrics.Registry,
	tracer trace.Tracer,
	contractValidator *contract.Validator,
	opts Options,
) (Service, error) {
	if logger == nil {
		return nil, errors.NewValidationError("INVALID_LOGGER", "logger cannot be nil")
	}
	if registry == nil {
		return nil, errors.NewValidationError("INVALID_METRICS", "metrics registry cannot be nil")
	}
	if opts.MaxBatchSize < 0 {
		return nil, errors.NewValidationError("INVALID_OPTIONS", "max batch size cannot be negative")
	}
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &service{
		logger:   logger,
		metrics:  registry,
		tracer:   tracer,
		validate: validator.New(),
		contract: contractValidator,
		opts:     opts,
	}, nil
}

func (s *service) ClassifyRisk(ctx context.Context, input RiskInput) (*ClassificationResponse, error) {
	return observe(ctx, s, "classify_risk", []attribute.KeyValue{
		attribute.String("risk.id", input.ID),
	}, func(ctx context.Context, logger *zap.Logger) (*ClassificationResponse, error) {
		r, err := s.toRisk(input)
		if err != nil {
			return nil, err
		}

		c, err := r.Classify()
		if err != nil {
			return nil, err
		}
		s.metrics.RecordClassified(ctx, c.Level.String(), 1)

		resp := &ClassificationResponse{
			RiskID:     r.ID,
			Impact:     c.Impact,
			Likelihood: c.Likelihood,
			Score:      c.Score,
			Level:      c.Level.String(),
		}
		if err := s.checkContract(contract.SchemaClassification, resp); err != nil {
			return nil, err
		}

		logger.Debug("Risk classified",
			zap.String("risk_id", r.ID),
			zap.Int("score", c.Score),
			zap.String("level", resp.Level),
		)
		return resp, nil
	})
}

func (s *service) BuildMatrix(ctx context.Context, inputs []RiskInput) ([]MatrixCellResponse, error) {
	return observe(ctx, s, "build_matrix", []attribute.KeyValue{
		attribute.Int("risk.count", len(inputs)),
	}, func(ctx context.Context, logger *zap.Logger) ([]MatrixCellResponse, error) {
		if err := s.checkBatch(len(inputs)); err != nil {
			return nil, err
		}

		risks, err := s.toRisks(inputs)
		if err != nil {
			return nil, err
		}

		m, err := risk.BuildMatrix(risks)
		if err != nil {
			return nil, err
		}

		cells := m.Cells()
		resp := make([]MatrixCellResponse, 0, len(cells))
		for _, cell := range cells {
			s.metrics.RecordClassified(ctx, cell.Level.String(), cell.RiskCount())
			resp = append(resp, MatrixCellResponse{
				Impact:     cell.Impact,
				Likelihood: cell.Likelihood,
				Score:      cell.Score,
				Level:      cell.Level.String(),
				RiskCount:  cell.RiskCount(),
				RiskIDs:    cell.RiskIDs,
			})
		}
		if err := s.checkContract(contract.SchemaMatrix, resp); err != nil {
			return nil, err
		}

		logger.Debug("Risk matrix built", zap.Int("total_risks", m.TotalRisks()))
		return resp, nil
	})
}

func (s *service) BuildHistogram(ctx context.Context, inputs []RiskInput) ([]LevelBucketResponse, error) {
	return observe(ctx, s, "build_histogram", []attribute.KeyValue{
		attribute.Int("risk.count", len(inputs)),
	}, func(ctx context.Context, logger *zap.Logger) ([]LevelBucketResponse, error) {
		if err := s.checkBatch(len(inputs)); err != nil {
			return nil, err
		}

		risks, err := s.toRisks(inputs)
		if err != nil {
			return nil, err
		}

		h, err := risk.BuildHistogram(risks)
		if err != nil {
			return nil, err
		}

		buckets := h.Buckets()
		resp := make([]LevelBucketResponse, 0, len(buckets))
		for _, b := range buckets {
			s.metrics.RecordClassified(ctx, b.Level.String(), b.TotalCount)
			resp = append(resp, LevelBucketResponse{
				Level:       b.Level.String(),
				OpenCount:   b.OpenCount,
				ClosedCount: b.ClosedCount,
				TotalCount:  b.TotalCount,
			})
		}
		if err := s.checkContract(contract.SchemaHistogram, resp); err != nil {
			return nil, err
		}

		logger.Debug("Risk histogram built",
			zap.Int("total_risks", h.TotalRisks()),
			zap.Int("open_risks", h.OpenRisks()),
			zap.Int("closed_risks", h.ClosedRisks()),
		)
		return resp, nil
	})
}

func (s *service) SummarizeCompliance(ctx context.Context, input ControlCountsInput) (*ComplianceSummaryResponse, error) {
	return observe(ctx, s, "summarize_compliance", []attribute.KeyValue{
		attribute.Int("controls.total", input.TotalControls),
		attribute.Int("controls.implemented", input.ImplementedControls),
	}, func(ctx context.Context, logger *zap.Logger) (*ComplianceSummaryResponse, error) {
		summary, err := compliance.Summarize(input.TotalControls, input.ImplementedControls)
		if err != nil {
			return nil, err
		}

		resp := &ComplianceSummaryResponse{
			TotalControls:        summary.TotalControls,
			ImplementedControls:  summary.ImplementedControls,
			CompliancePercentage: summary.Percentage,
		}
		if err := s.checkContract(contract.SchemaComplianceSummary, resp); err != nil {
			return nil, err
		}
		s.metrics.SetCompliancePercentage(resp.CompliancePercentage)

		logger.Debug("Compliance summarized", zap.Float64("compliance_percentage", resp.CompliancePercentage))
		return resp, nil
	})
}

func (s *service) BuildDashboard(ctx context.Context, req DashboardRequest) (*DashboardSummaryResponse, error) {
	return observe(ctx, s, "build_dashboard", []attribute.KeyValue{
		attribute.Int("risk.count", len(req.Risks)),
		attribute.Int("controls.total", req.Controls.TotalControls),
	}, func(ctx context.Context, logger *zap.Logger) (*DashboardSummaryResponse, error) {
		if err := s.checkBatch(len(req.Risks)); err != nil {
			return nil, err
		}

		risks, err := s.toRisks(req.Risks)
		if err != nil {
			return nil, errors.NewAggregationFailure("risk", err)
		}

		summary, err := dashboard.Build(
			compliance.Counts{
				Total:       req.Controls.TotalControls,
				Implemented: req.Controls.ImplementedControls,
			},
			risks,
			audit.Counters{
				TotalAudits:  req.Audits.TotalAudits,
				ActiveAudits: req.Audits.ActiveAudits,
				OpenFindings: req.Audits.OpenFindings,
			},
		)
		if err != nil {
			return nil, err
		}

		resp := &DashboardSummaryResponse{
			TotalControls:        summary.TotalControls,
			ImplementedControls:  summary.ImplementedControls,
			CompliancePercentage: summary.CompliancePercentage,
			TotalRisks:           summary.TotalRisks,
			OpenRisks:            summary.OpenRisks,
			CriticalRisks:        summary.CriticalRisks,
			TotalAudits:          summary.TotalAudits,
			ActiveAudits:         summary.ActiveAudits,
			OpenFindings:         summary.OpenFindings,
		}
		if err := s.checkContract(contract.SchemaDashboardSummary, resp); err != nil {
			return nil, err
		}
		s.metrics.SetCompliancePercentage(resp.CompliancePercentage)

		logger.Info("Dashboard summary built",
			zap.Int("total_risks", resp.TotalRisks),
			zap.Int("critical_risks", resp.CriticalRisks),
			zap.Float64("compliance_percentage", resp.CompliancePercentage),
		)
		return resp, nil
	})
}

func (s *service) ControlsByDomain(ctx context.Context, inputs []ControlInput) ([]DomainComplianceResponse, error) {
	return observe(ctx, s, "controls_by_domain", []attribute.KeyValue{
		attribute.Int("controls.count", len(inputs)),
	}, func(ctx context.Context, logger *zap.Logger) ([]DomainComplianceResponse, error) {
		if err := s.checkBatch(len(inputs)); err != nil {
			return nil, err
		}

		controls := make([]compliance.Control, 0, len(inputs))
		for _, in := range inputs {
			if err := s.validateStruct(in); err != nil {
				return nil, err
			}
			controls = append(controls, compliance.Control{
				ID:                   in.ID,
				Domain:               in.Domain,
				ImplementationStatus: compliance.ImplementationStatus(in.ImplementationStatus),
			})
		}

		domains, err := compliance.ByDomain(controls)
		if err != nil {
			return nil, err
		}

		resp := make([]DomainComplianceResponse, 0, len(domains))
		for _, d := range domains {
			resp = append(resp, DomainComplianceResponse{
				Domain:               d.Domain,
				TotalControls:        d.Total,
				ImplementedControls:  d.Implemented,
				CompliancePercentage: d.Percentage,
			})
		}
		if err := s.checkContract(contract.SchemaDomainBreakdown, resp); err != nil {
			return nil, err
		}

		logger.Debug("Controls grouped by domain", zap.Int("domains", len(resp)))
		return resp, nil
	})
}

// observe runs fn inside a span, tagging the span and the logger with a fresh
// computation ID, and records the outcome in the metrics registry.
func observe[T any](
	ctx context.Context,
	s *service,
	operation string,
	attrs []attribute.KeyValue,
	fn func(context.Context, *zap.Logger) (T, error),
) (T, error) {
	computationID := uuid.New().String()

	ctx, span := telemetry.StartComputationSpan(ctx, s.tracer, "RiskEngine", operation, computationID, attrs...)
	defer span.End()

	logger := telemetry.WithTrace(ctx, s.logger).With(
		zap.String("operation", operation),
		zap.String("computation_id", computationID),
	)

	start := time.Now()
	result, err := fn(ctx, logger)
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	code := ""
	if err != nil {
		code = errorCode(err)
		logger.Warn("Computation rejected",
			zap.String("code", code),
			zap.Error(err),
		)
	}
	telemetry.EndComputation(span, err, code)
	s.metrics.RecordComputation(ctx, operation, elapsed, code)

	return result, err
}

func (s *service) checkBatch(n int) error {
	if s.opts.MaxBatchSize > 0 && n > s.opts.MaxBatchSize {
		return errors.NewBatchTooLarge(n, s.opts.MaxBatchSize)
	}
	return nil
}

func (s *service) checkContract(schema string, v interface{}) error {
	if s.contract == nil {
		return nil
	}
	if err := s.contract.ValidateSchema(schema, v); err != nil {
		return errors.NewContractViolation(schema, err)
	}
	return nil
}

func (s *service) validateStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := []string{}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, fe.Namespace()+" "+fe.Tag())
		}
	}
	return errors.NewValidationError(errors.CodeInvalidRequest, "request validation failed").
		WithDetails(map[string]interface{}{"fields": fields}).
		WithCause(err)
}

// toRisk checks request shape and the treatment value. Ratings are left to
// the domain so that range violations surface as INVALID_SCORE_INPUT.
func (s *service) toRisk(in RiskInput) (risk.Risk, error) {
	if err := s.validateStruct(in); err != nil {
		return risk.Risk{}, err
	}

	treatment, err := risk.ParseTreatment(in.Treatment)
	if err != nil {
		return risk.Risk{}, err
	}

	return risk.Risk{
		ID:              in.ID,
		ImpactScore:     in.ImpactScore,
		LikelihoodScore: in.LikelihoodScore,
		Status:          risk.Status(in.Status),
		Treatment:       treatment,
	}, nil
}

func (s *service) toRisks(inputs []RiskInput) ([]risk.Risk, error) {
	risks := make([]risk.Risk, 0, len(inputs))
	for _, in := range inputs {
		r, err := s.toRisk(in)
		if err != nil {
			return nil, err
		}
		risks = append(risks, r)
	}
	return risks, nil
}

func errorCode(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}
