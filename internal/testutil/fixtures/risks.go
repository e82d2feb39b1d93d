package fixtures

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/grc-risk-engine/internal/domain/risk"
)

// RiskBuilder builds test Risk entities
type RiskBuilder struct {
	t          *testing.T
	id         string
	impact     int
	likelihood int
	status     risk.Status
	treatment  risk.Treatment
}

// NewRiskBuilder creates a new RiskBuilder with a medium (3x3) open risk
func NewRiskBuilder(t *testing.T) *RiskBuilder {
	t.Helper()
	id, err := uuid.NewRandom()
	require.NoError(t, err)

	return &RiskBuilder{
		t:          t,
		id:         id.String(),
		impact:     3,
		likelihood: 3,
		status:     risk.StatusOpen,
		treatment:  risk.TreatmentMitigate,
	}
}

func (b *RiskBuilder) WithID(id string) *RiskBuilder {
	b.id = id
	return b
}

func (b *RiskBuilder) WithRatings(impact, likelihood int) *RiskBuilder {
	b.impact = impact
	b.likelihood = likelihood
	return b
}

func (b *RiskBuilder) WithStatus(status risk.Status) *RiskBuilder {
	b.status = status
	return b
}

func (b *RiskBuilder) WithTreatment(treatment risk.Treatment) *RiskBuilder {
	b.treatment = treatment
	return b
}

// Build returns the risk without validating it, so tests can construct bad input
func (b *RiskBuilder) Build() risk.Risk {
	return risk.Risk{
		ID:              b.id,
		ImpactScore:     b.impact,
		LikelihoodScore: b.likelihood,
		Status:          b.status,
		Treatment:       b.treatment,
	}
}

// RiskScenarios provides commonly used risk registers
type RiskScenarios struct {
	t *testing.T
}

// NewRiskScenarios creates a new scenarios helper
func NewRiskScenarios(t *testing.T) *RiskScenarios {
	return &RiskScenarios{t: t}
}

// CriticalAndVeryLow is one open 5x5 risk and one closed 1x1 risk
func (s *RiskScenarios) CriticalAndVeryLow() []risk.Risk {
	return []risk.Risk{
		NewRiskBuilder(s.t).WithID("RISK-CRIT").WithRatings(5, 5).WithStatus(risk.StatusOpen).Build(),
		NewRiskBuilder(s.t).WithID("RISK-LOW").WithRatings(1, 1).WithStatus(risk.StatusClosed).Build(),
	}
}

// FullGrid returns one risk per matrix cell, alternating OPEN and CLOSED,
// with every fifth risk in MONITORING
func (s *RiskScenarios) FullGrid() []risk.Risk {
	risks := make([]risk.Risk, 0, risk.MatrixSize*risk.MatrixSize)
	n := 0
	for impact := risk.MinRating; impact <= risk.MaxRating; impact++ {
		for likelihood := risk.MinRating; likelihood <= risk.MaxRating; likelihood++ {
			status := risk.StatusOpen
			switch {
			case n%5 == 4:
				status = risk.StatusMonitoring
			case n%2 == 1:
				status = risk.StatusClosed
			}
			risks = append(risks, NewRiskBuilder(s.t).
				WithRatings(impact, likelihood).
				WithStatus(status).
				Build())
			n++
		}
	}
	return risks
}
