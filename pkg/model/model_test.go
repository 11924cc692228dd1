package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korinsic/surveillance-core/internal/config"
	"github.com/korinsic/surveillance-core/pkg/probability"
)

func testModelsConfig() config.ModelsConfig {
	return config.ModelsConfig{
		Typologies: map[string]config.TypologyConfig{
			"insider_dealing": {
				EvidenceNodes: []config.EvidenceNodeConfig{
					{Name: "trade_pattern", States: 3, EvidenceType: "BEHAVIORAL", Cluster: "TradePattern"},
					{Name: "mnpi_access", States: 3, EvidenceType: "BEHAVIORAL", Cluster: "MNPI"},
					{Name: "pnl_drift", States: 3, EvidenceType: "BEHAVIORAL", Cluster: "PnL"},
					{Name: "news_timing", States: 3, EvidenceType: "BEHAVIORAL", Cluster: "News"},
				},
				Intermediates: []config.IntermediateConfig{
					{Type: "behavioral_intent", Parents: []string{"trade_pattern", "mnpi_access"}},
					{Type: "information_advantage", Parents: []string{"pnl_drift", "news_timing"}},
				},
				LatentParents: []string{"trade_pattern", "mnpi_access", "pnl_drift", "news_timing"},
				Grouped: &config.GroupedConfig{
					Aggregators: []config.IntermediateConfig{
						{Type: "economic_rationality", Parents: []string{"trade_pattern", "mnpi_access", "pnl_drift", "news_timing"}},
					},
				},
				RiskThresholds: config.RiskThresholds{Low: 0.3, Medium: 0.5, High: 0.7},
				Weight:         1.0,
			},
		},
	}
}

func testProbabilityStore() *probability.Store {
	return probability.New(config.ProbabilityConfig{
		EvidenceTypePriors: map[string]config.Distribution{
			"BEHAVIORAL": {Values: []float64{0.7, 0.25, 0.05}},
		},
		IntermediateParams: map[string]config.NoisyORParams{
			"behavioral_intent":     {LeakProbability: 0.05, ParentProbabilities: []float64{0.6, 0.5}},
			"information_advantage": {LeakProbability: 0.05, ParentProbabilities: []float64{0.6, 0.5}},
			// economic_rationality is repurposed as the grouped build's
			// single combined aggregator over all four evidence parents.
			"economic_rationality": {LeakProbability: 0.05, ParentProbabilities: []float64{0.6, 0.5, 0.6, 0.5}},
		},
		LatentIntentParams: map[string]config.NoisyORParams{
			"insider_dealing": {LeakProbability: 0.05, ParentProbabilities: []float64{0.5, 0.5, 0.5, 0.5}},
		},
		OutcomeCPDs: map[string]config.OutcomeCPD{
			"insider_dealing": flatOutcomeCPD(3),
		},
		ResidualSplit: []float64{0.7, 0.3},
	})
}

// flatOutcomeCPD generates a uniform-ish outcome CPD covering every
// combination of 1 up to n 3-state parents, so the grouped (1-parent),
// baseline (2-parent) and latent-intent (3-parent) builds all find their
// columns, for tests that only need construction to succeed, not specific
// posteriors.
func flatOutcomeCPD(parents int) config.OutcomeCPD {
	table := map[string]config.Distribution{}
	var combos [][]int
	size := 0
	var build func(prefix []int)
	build = func(prefix []int) {
		if len(prefix) == size {
			c := append([]int{}, prefix...)
			combos = append(combos, c)
			return
		}
		for s := 0; s < 3; s++ {
			build(append(prefix, s))
		}
	}
	for size = 1; size <= parents; size++ {
		build(nil)
	}
	for _, combo := range combos {
		key := ""
		for i, s := range combo {
			if i > 0 {
				key += ","
			}
			key += string(rune('0' + s))
		}
		table[key] = config.Distribution{Values: []float64{0.25, 0.25, 0.25, 0.25}}
	}
	return config.OutcomeCPD{Table: table}
}

func TestBuild_baseline(t *testing.T) {
	cfg := testModelsConfig()
	store := testProbabilityStore()

	m, err := Build("insider_dealing", cfg.Typologies["insider_dealing"], store, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, "insider_dealing", m.Typology)
	assert.Len(t, m.EvidenceNodeNames, 4)
	assert.Contains(t, m.Nodes, "behavioral_intent")
	assert.Contains(t, m.Nodes, "information_advantage")
	assert.Contains(t, m.Nodes, "insider_dealing_outcome")
	assert.NotContains(t, m.Nodes, "insider_dealing_latent_intent")
}

func TestBuild_latentIntent(t *testing.T) {
	cfg := testModelsConfig()
	store := testProbabilityStore()

	m, err := Build("insider_dealing", cfg.Typologies["insider_dealing"], store, BuildOptions{UseLatentIntent: true})
	require.NoError(t, err)
	assert.Contains(t, m.Nodes, "insider_dealing_latent_intent")
	assert.Equal(t, []string{"behavioral_intent", "information_advantage", "insider_dealing_latent_intent"}, m.Outcome.Parents())
}

func TestBuild_grouped(t *testing.T) {
	cfg := testModelsConfig()
	store := testProbabilityStore()

	m, err := Build("insider_dealing", cfg.Typologies["insider_dealing"], store, BuildOptions{Grouped: true})
	require.NoError(t, err)
	assert.Contains(t, m.Nodes, "economic_rationality")
	assert.NotContains(t, m.Nodes, "behavioral_intent")
	assert.NotContains(t, m.Nodes, "information_advantage")
}

func TestRegistry_cachesAndIsIdempotent(t *testing.T) {
	cfg := testModelsConfig()
	store := testProbabilityStore()
	reg := NewRegistry(cfg, store)

	m1, err := reg.CreateModel("insider_dealing", BuildOptions{})
	require.NoError(t, err)
	m2, err := reg.CreateModel("insider_dealing", BuildOptions{})
	require.NoError(t, err)
	assert.Same(t, m1, m2)
}

func TestRegistry_unknownTypology(t *testing.T) {
	reg := NewRegistry(testModelsConfig(), testProbabilityStore())
	_, err := reg.CreateModel("spoofing", BuildOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spoofing")
}

func TestRegistry_disablesOnConstructionFailure(t *testing.T) {
	cfg := config.ModelsConfig{Typologies: map[string]config.TypologyConfig{
		"broken": {
			EvidenceNodes:  []config.EvidenceNodeConfig{{Name: "a", States: 3, EvidenceType: "UNKNOWN"}},
			RiskThresholds: config.RiskThresholds{Low: 0.3, Medium: 0.5, High: 0.7},
		},
	}}
	reg := NewRegistry(cfg, testProbabilityStore())

	_, err := reg.CreateModel("broken", BuildOptions{})
	require.Error(t, err)

	_, err2 := reg.CreateModel("broken", BuildOptions{})
	require.Error(t, err2)
	assert.Contains(t, reg.DisabledTypologies(), "broken")
}
