package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korinsic/surveillance-core/pkg/surveillance"
)

// TestBuildEngine_loadsShippedConfigs exercises buildEngine against the
// configs/ directory actually shipped with the module, the only practical
// check that its YAML parses and validates without a live compiler.
func TestBuildEngine_loadsShippedConfigs(t *testing.T) {
	configDir = "../../configs"
	defer func() { configDir = "configs" }()

	engine, err := buildEngine()
	require.NoError(t, err)
	require.NotNil(t, engine)
}

func TestBuildEngine_insiderDealingScenario(t *testing.T) {
	configDir = "../../configs"
	defer func() { configDir = "configs" }()

	engine, err := buildEngine()
	require.NoError(t, err)

	batch, err := surveillance.Simulate("insider_dealing", surveillance.SimulateParams{
		TraderID:   "trader-shipped-config",
		Instrument: "ACME",
	})
	require.NoError(t, err)

	result, err := engine.Analyze(context.Background(), batch, surveillance.Options{IncludeRationale: true})
	require.NoError(t, err)
	assert.Contains(t, result.RiskScores, "insider_dealing")
	assert.NotEmpty(t, result.DQSI.TrustBucket)
}

func TestBuildEngine_latentIntentVariant(t *testing.T) {
	configDir = "../../configs"
	defer func() { configDir = "configs" }()

	engine, err := buildEngine()
	require.NoError(t, err)

	batch, err := surveillance.Simulate("insider_dealing", surveillance.SimulateParams{
		TraderID:   "trader-latent",
		Instrument: "ACME",
	})
	require.NoError(t, err)

	result, err := engine.Analyze(context.Background(), batch, surveillance.Options{
		Typologies:      []string{"insider_dealing"},
		UseLatentIntent: true,
	})
	require.NoError(t, err)
	assert.Contains(t, result.RiskScores, "insider_dealing")
}

func TestBuildEngine_groupedNotConfigured_errorsGracefully(t *testing.T) {
	configDir = "../../configs"
	defer func() { configDir = "configs" }()

	engine, err := buildEngine()
	require.NoError(t, err)

	batch, err := surveillance.Simulate("insider_dealing", surveillance.SimulateParams{TraderID: "trader-grouped"})
	require.NoError(t, err)

	result, err := engine.Analyze(context.Background(), batch, surveillance.Options{
		Typologies: []string{"insider_dealing"},
		Grouped:    true,
	})
	require.NoError(t, err)
	assert.Contains(t, result.DisabledTypologies, "insider_dealing")
}
