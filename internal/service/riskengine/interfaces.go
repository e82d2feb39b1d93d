package riskengine

import (
	"context"
)

// Service exposes the stateless scoring and aggregation operations of the engine.
// Every call is independent; no state is kept between calls.
type Service interface {
	// ClassifyRisk derives the score and level of a single risk
	ClassifyRisk(ctx context.Context, input RiskInput) (*ClassificationResponse, error)

	// BuildMatrix places risks on the 5x5 impact/likelihood grid (always 25 cells)
	BuildMatrix(ctx context.Context, risks []RiskInput) ([]MatrixCellResponse, error)

	// BuildHistogram counts risks per level, split by open and closed (always 5 buckets)
	BuildHistogram(ctx context.Context, risks []RiskInput) ([]LevelBucketResponse, error)

	// SummarizeCompliance computes the implemented percentage from control counts
	SummarizeCompliance(ctx context.Context, input ControlCountsInput) (*ComplianceSummaryResponse, error)

	// BuildDashboard aggregates controls, risks and audit counters in one pass.
	// Any invalid input fails the whole summary.
	BuildDashboard(ctx context.Context, req DashboardRequest) (*DashboardSummaryResponse, error)

	// ControlsByDomain breaks compliance down per control domain
	ControlsByDomain(ctx context.Context, controls []ControlInput) ([]DomainComplianceResponse, error)
}

// Request DTOs. Struct tags cover shape only; range rules live in the domain.

type RiskInput struct {
	ID              string `json:"id" validate:"required,max=128"`
	ImpactScore     int    `json:"impact_score"`
	LikelihoodScore int    `json:"likelihood_score"`
	Status          string `json:"status" validate:"required,max=32"`
	Treatment       string `json:"treatment,omitempty" validate:"omitempty,max=32"`
}

type ControlCountsInput struct {
	TotalControls       int `json:"total_controls"`
	ImplementedControls int `json:"implemented_controls"`
}

type ControlInput struct {
	ID                   string `json:"id" validate:"required,max=128"`
	Domain               string `json:"domain" validate:"required,max=256"`
	ImplementationStatus string `json:"implementation_status" validate:"required"`
}

// AuditCountersInput is taken as supplied; the engine does not check it.
type AuditCountersInput struct {
	TotalAudits  int `json:"total_audits"`
	ActiveAudits int `json:"active_audits"`
	OpenFindings int `json:"open_findings"`
}

type DashboardRequest struct {
	Controls ControlCountsInput `json:"controls"`
	Risks    []RiskInput        `json:"risks"`
	Audits   AuditCountersInput `json:"audits"`
}

// Response DTOs

type ClassificationResponse struct {
	RiskID     string `json:"risk_id,omitempty"`
	Impact     int    `json:"impact"`
	Likelihood int    `json:"likelihood"`
	Score      int    `json:"score"`
	Level      string `json:"level"`
}

type MatrixCellResponse struct {
	Impact     int      `json:"impact"`
	Likelihood int      `json:"likelihood"`
	Score      int      `json:"score"`
	Level      string   `json:"level"`
	RiskCount  int      `json:"risk_count"`
	RiskIDs    []string `json:"risk_ids,omitempty"`
}

type LevelBucketResponse struct {
	Level       string `json:"level"`
	OpenCount   int    `json:"open_count"`
	ClosedCount int    `json:"closed_count"`
	TotalCount  int    `json:"total_count"`
}

type ComplianceSummaryResponse struct {
	TotalControls        int     `json:"total_controls"`
	ImplementedControls  int     `json:"implemented_controls"`
	CompliancePercentage float64 `json:"compliance_percentage"`
}

type DomainComplianceResponse struct {
	Domain               string  `json:"domain"`
	TotalControls        int     `json:"total_controls"`
	ImplementedControls  int     `json:"implemented_controls"`
	CompliancePercentage float64 `json:"compliance_percentage"`
}

type DashboardSummaryResponse struct {
	TotalControls        int     `json:"total_controls"`
	ImplementedControls  int     `json:"implemented_controls"`
	CompliancePercentage float64 `json:"compliance_percentage"`
	TotalRisks           int     `json:"total_risks"`
	OpenRisks            int     `json:"open_risks"`
	CriticalRisks        int     `json:"critical_risks"`
	TotalAudits          int     `json:"total_audits"`
	ActiveAudits         int     `json:"active_audits"`
	OpenFindings         int     `json:"open_findings"`
}
