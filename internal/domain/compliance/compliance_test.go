package compliance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/grc-risk-engine/internal/domain/compliance"
	"github.com/davidleathers/grc-risk-engine/internal/domain/errors"
	"github.com/davidleathers/grc-risk-engine/internal/testutil/fixtures"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		implemented int
		expected    float64
	}{
		{name: "no controls is zero percent", total: 0, implemented: 0, expected: 0},
		{name: "fully implemented", total: 10, implemented: 10, expected: 100.0},
		{name: "one third", total: 3, implemented: 1, expected: 33.3},
		{name: "two thirds rounds up", total: 3, implemented: 2, expected: 66.7},
		{name: "exact tie rounds half up", total: 16, implemented: 1, expected: 6.3},
		{name: "exact single decimal", total: 40, implemented: 1, expected: 2.5},
		{name: "hundredths tie rounds half up", total: 80, implemented: 3, expected: 3.8},
		{name: "nothing implemented", total: 7, implemented: 0, expected: 0},
		{name: "one of eight", total: 8, implemented: 1, expected: 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := compliance.Summarize(tt.total, tt.implemented)
			require.NoError(t, err)
			assert.Equal(t, tt.total, s.TotalControls)
			assert.Equal(t, tt.implemented, s.ImplementedControls)
			assert.Equal(t, tt.expected, s.Percentage)
		})
	}
}

func TestSummarize_InvalidCounts(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		implemented int
	}{
		{name: "implemented exceeds total", total: 3, implemented: 4},
		{name: "negative total", total: -1, implemented: 0},
		{name: "negative implemented", total: 5, implemented: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := compliance.Summarize(tt.total, tt.implemented)
			require.Error(t, err)
			assert.Equal(t, compliance.Summary{}, s)
			assert.True(t, errors.HasCode(err, errors.CodeInvalidControlCounts))
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	first, err := compliance.Summarize(37, 19)
	require.NoError(t, err)
	second, err := compliance.Summarize(37, 19)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 51.4, first.Percentage)
}

func TestCountControls(t *testing.T) {
	controls := fixtures.NewControlScenarios(t).MixedStatuses()

	counts, err := compliance.CountControls(controls)
	require.NoError(t, err)
	assert.Equal(t, compliance.Counts{Total: 4, Implemented: 1}, counts)

	counts, err = compliance.CountControls(nil)
	require.NoError(t, err)
	assert.Equal(t, compliance.Counts{}, counts)
}

func TestCountControls_UnknownStatus(t *testing.T) {
	controls := []compliance.Control{
		fixtures.NewControlBuilder(t).WithID("ECC-1").Build(),
		fixtures.NewControlBuilder(t).WithID("ECC-2").WithStatus("DONE").Build(),
	}

	_, err := compliance.CountControls(controls)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "INVALID_IMPLEMENTATION_STATUS"))
	assert.Contains(t, err.Error(), "ECC-2")
}

func TestCounts_Validate(t *testing.T) {
	assert.NoError(t, compliance.Counts{Total: 0, Implemented: 0}.Validate())
	assert.NoError(t, compliance.Counts{Total: 5, Implemented: 5}.Validate())
	assert.Error(t, compliance.Counts{Total: 5, Implemented: 6}.Validate())
}

func TestByDomain(t *testing.T) {
	b := func(domain string, status compliance.ImplementationStatus) compliance.Control {
		return fixtures.NewControlBuilder(t).WithDomain(domain).WithStatus(status).Build()
	}
	controls := []compliance.Control{
		b("Governance", compliance.StatusImplemented),
		b("Governance", compliance.StatusNotImplemented),
		b("Defense", compliance.StatusImplemented),
		b("Resilience", compliance.StatusPartiallyImplemented),
		b("Asset Management", compliance.StatusImplemented),
		b("Asset Management", compliance.StatusNotApplicable),
		b("Third Party", compliance.StatusNotImplemented),
	}

	summaries, err := compliance.ByDomain(controls)
	require.NoError(t, err)

	assert.Equal(t, []compliance.DomainSummary{
		{Domain: "Defense", Total: 1, Implemented: 1, Percentage: 100},
		{Domain: "Asset Management", Total: 2, Implemented: 1, Percentage: 50},
		{Domain: "Governance", Total: 2, Implemented: 1, Percentage: 50},
		{Domain: "Resilience", Total: 1, Implemented: 0, Percentage: 0},
		{Domain: "Third Party", Total: 1, Implemented: 0, Percentage: 0},
	}, summaries)
}

func TestByDomain_Empty(t *testing.T) {
	summaries, err := compliance.ByDomain(nil)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
