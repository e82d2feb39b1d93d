package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/grc-risk-engine/internal/domain/errors"
	"github.com/davidleathers/grc-risk-engine/internal/infrastructure/config"
	"github.com/davidleathers/grc-risk-engine/internal/service/riskengine"
)

func TestNewRiskEngine_Defaults(t *testing.T) {
	ctx := context.Background()

	rt, err := NewRiskEngine(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = rt.Shutdown(ctx) }()

	assert.Nil(t, rt.Contract)
	assert.Equal(t, config.Defaults().Engine.MaxBatchSize, rt.Config.Engine.MaxBatchSize)

	resp, err := rt.Engine.SummarizeCompliance(ctx, riskengine.ControlCountsInput{
		TotalControls:       3,
		ImplementedControls: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 66.7, resp.CompliancePercentage)
}

func TestNewRiskEngine_InvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Telemetry.SamplingRate = 2

	rt, err := NewRiskEngine(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, rt)
	assert.Contains(t, err.Error(), "sampling_rate")
}

func TestNewRiskEngine_BatchLimitAndContract(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()
	cfg.Engine.MaxBatchSize = 1
	cfg.Engine.ValidateContract = true

	rt, err := NewRiskEngine(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = rt.Shutdown(ctx) }()
	require.NotNil(t, rt.Contract)

	risks := []riskengine.RiskInput{
		{ID: "R-1", ImpactScore: 4, LikelihoodScore: 4, Status: "OPEN"},
		{ID: "R-2", ImpactScore: 1, LikelihoodScore: 2, Status: "CLOSED"},
	}

	_, err = rt.Engine.BuildHistogram(ctx, risks)
	assert.True(t, errors.HasCode(err, errors.CodeBatchTooLarge))

	buckets, err := rt.Engine.BuildHistogram(ctx, risks[:1])
	require.NoError(t, err)
	require.Len(t, buckets, 5)
	assert.Equal(t, "HIGH", buckets[3].Level)
	assert.Equal(t, 1, buckets[3].OpenCount)
}

func TestNewRiskEngine_PrometheusExposition(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()
	cfg.Environment = "test"
	cfg.Telemetry.Enabled = true

	rt, err := NewRiskEngine(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = rt.Shutdown(ctx) }()

	_, err = rt.Engine.BuildDashboard(ctx, riskengine.DashboardRequest{
		Controls: riskengine.ControlCountsInput{TotalControls: 4, ImplementedControls: 1},
		Risks: []riskengine.RiskInput{
			{ID: "R-1", ImpactScore: 5, LikelihoodScore: 5, Status: "OPEN"},
		},
	})
	require.NoError(t, err)

	families, err := rt.Telemetry.Gatherer.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "grc_engine_computations")
	assert.Contains(t, joined, "grc_engine_compliance_percentage")
}
