package fixtures

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/grc-risk-engine/internal/domain/compliance"
)

// ControlBuilder builds test Control entities
type ControlBuilder struct {
	t      *testing.T
	id     string
	domain string
	status compliance.ImplementationStatus
}

// NewControlBuilder creates a new ControlBuilder with an implemented governance control
func NewControlBuilder(t *testing.T) *ControlBuilder {
	t.Helper()
	id, err := uuid.NewRandom()
	require.NoError(t, err)

	return &ControlBuilder{
		t:      t,
		id:     id.String(),
		domain: "Cybersecurity Governance",
		status: compliance.StatusImplemented,
	}
}

func (b *ControlBuilder) WithID(id string) *ControlBuilder {
	b.id = id
	return b
}

func (b *ControlBuilder) WithDomain(domain string) *ControlBuilder {
	b.domain = domain
	return b
}

func (b *ControlBuilder) WithStatus(status compliance.ImplementationStatus) *ControlBuilder {
	b.status = status
	return b
}

func (b *ControlBuilder) Build() compliance.Control {
	return compliance.Control{
		ID:                   b.id,
		Domain:               b.domain,
		ImplementationStatus: b.status,
	}
}

// ControlScenarios provides commonly used control sets
type ControlScenarios struct {
	t *testing.T
}

// NewControlScenarios creates a new scenarios helper
func NewControlScenarios(t *testing.T) *ControlScenarios {
	return &ControlScenarios{t: t}
}

// MixedStatuses returns one control in each implementation status
func (s *ControlScenarios) MixedStatuses() []compliance.Control {
	return []compliance.Control{
		NewControlBuilder(s.t).WithStatus(compliance.StatusImplemented).Build(),
		NewControlBuilder(s.t).WithStatus(compliance.StatusPartiallyImplemented).Build(),
		NewControlBuilder(s.t).WithStatus(compliance.StatusNotImplemented).Build(),
		NewControlBuilder(s.t).WithStatus(compliance.StatusNotApplicable).Build(),
	}
}
