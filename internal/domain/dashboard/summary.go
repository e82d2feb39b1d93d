// Package dashboard composes the compliance and risk aggregations into the
// single summary record shown on the GRC dashboard.
package dashboard

import (
	"github.com/davidleathers/grc-risk-engine/internal/domain/audit"
	"github.com/davidleathers/grc-risk-engine/internal/domain/compliance"
	"github.com/davidleathers/grc-risk-engine/internal/domain/errors"
	"github.com/davidleathers/grc-risk-engine/internal/domain/risk"
)

// Summary is a point-in-time snapshot; it is rebuilt on every request.
type Summary struct {
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

// Build aggregates controls and risks and copies the audit counters as given.
// Any invalid input aborts the whole summary with AGGREGATION_FAILURE.
func Build(controls compliance.Counts, risks []risk.Risk, audits audit.Counters) (*Summary, error) {
	cs, err := compliance.Summarize(controls.Total, controls.Implemented)
	if err != nil {
		return nil, errors.NewAggregationFailure("compliance", err)
	}

	h, err := risk.BuildHistogram(risks)
	if err != nil {
		return nil, errors.NewAggregationFailure("risk", err)
	}

	return &Summary{
		TotalControls:        cs.TotalControls,
		ImplementedControls:  cs.ImplementedControls,
		CompliancePercentage: cs.Percentage,
		TotalRisks:           h.TotalRisks(),
		OpenRisks:            h.OpenRisks(),
		CriticalRisks:        h.Bucket(risk.LevelCritical).TotalCount,
		TotalAudits:          audits.TotalAudits,
		ActiveAudits:         audits.ActiveAudits,
		OpenFindings:         audits.OpenFindings,
	}, nil
}
