package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davidleathers/grc-risk-engine/internal/domain/audit"
)

func TestTally(t *testing.T) {
	audits := []audit.Status{
		audit.StatusPlanned,
		audit.StatusInProgress,
		audit.StatusCompleted,
		audit.StatusClosed,
		audit.StatusInProgress,
	}
	findings := []audit.FindingStatus{
		audit.FindingOpen,
		audit.FindingInProgress,
		audit.FindingResolved,
		audit.FindingClosed,
	}

	c := audit.Tally(audits, findings)
	assert.Equal(t, audit.Counters{TotalAudits: 5, ActiveAudits: 3, OpenFindings: 2}, c)
}

func TestTally_Empty(t *testing.T) {
	assert.Equal(t, audit.Counters{}, audit.Tally(nil, nil))
}
