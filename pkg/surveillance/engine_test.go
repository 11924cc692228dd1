package surveillance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korinsic/surveillance-core/internal/config"
	"github.com/korinsic/surveillance-core/pkg/explain"
	"github.com/korinsic/surveillance-core/pkg/risk"
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
				RiskThresholds: config.RiskThresholds{Low: 0.3, Medium: 0.5, High: 0.7},
				Weight:         1.0,
			},
			"spoofing": {
				EvidenceNodes: []config.EvidenceNodeConfig{
					{Name: "order_clustering", States: 3, EvidenceType: "BEHAVIORAL", Cluster: "Orders"},
					{Name: "order_cancellation", States: 3, EvidenceType: "BEHAVIORAL", Cluster: "Orders"},
				},
				Intermediates: []config.IntermediateConfig{
					{Type: "technical_manipulation", Parents: []string{"order_clustering", "order_cancellation"}},
				},
				RiskThresholds: config.RiskThresholds{Low: 0.3, Medium: 0.5, High: 0.7},
				Weight:         1.0,
			},
		},
	}
}

func testProbabilityConfig() config.ProbabilityConfig {
	return config.ProbabilityConfig{
		EvidenceTypePriors: map[string]config.Distribution{
			"BEHAVIORAL": {Values: []float64{0.7, 0.25, 0.05}, RegulatoryBasis: "MAR Art. 8"},
		},
		IntermediateParams: map[string]config.NoisyORParams{
			"behavioral_intent":      {LeakProbability: 0.05, ParentProbabilities: []float64{0.6, 0.5}},
			"information_advantage":  {LeakProbability: 0.05, ParentProbabilities: []float64{0.6, 0.5}},
			"technical_manipulation": {LeakProbability: 0.05, ParentProbabilities: []float64{0.6, 0.5}},
		},
		OutcomeCPDs: map[string]config.OutcomeCPD{
			"insider_dealing": skewedOutcomeCPD(2),
			"spoofing":        skewedOutcomeCPD(1),
		},
		ResidualSplit: []float64{0.7, 0.3},
	}
}

// skewedOutcomeCPD generates an outcome CPD over `parents` 3-state parents
// whose top column (every parent at its highest state) concentrates on
// CRITICAL, so high evidence reliably drives a high severity in tests.
func skewedOutcomeCPD(parents int) config.OutcomeCPD {
	table := map[string]config.Distribution{}
	var combos [][]int
	var build func(prefix []int)
	build = func(prefix []int) {
		if len(prefix) == parents {
			combos = append(combos, append([]int{}, prefix...))
			return
		}
		for s := 0; s < 3; s++ {
			build(append(prefix, s))
		}
	}
	build(nil)
	for _, combo := range combos {
		key := ""
		top := true
		for i, s := range combo {
			if i > 0 {
				key += ","
			}
			key += string(rune('0' + s))
			if s != 2 {
				top = false
			}
		}
		if top {
			table[key] = config.Distribution{Values: []float64{0.02, 0.03, 0.1, 0.85}}
		} else {
			table[key] = config.Distribution{Values: []float64{0.7, 0.2, 0.08, 0.02}}
		}
	}
	return config.OutcomeCPD{Table: table}
}

func testDQSIConfig() config.DQSIConfig {
	return config.DQSIConfig{
		KDEs: map[string]config.KDEConfig{
			"trader_id":  {RiskTier: "high", Critical: true, SubDimensions: []string{"field_completeness"}, ComparisonType: "none"},
			"trade_time": {RiskTier: "medium", SubDimensions: []string{"freshness_timeliness"}, ComparisonType: "none"},
			"notional":   {RiskTier: "medium", SubDimensions: []string{"range_conformity"}, ComparisonType: "none"},
		},
		TrustBucketThresholds: config.TrustThresholds{High: 0.85, Moderate: 0.65},
		CriticalKDEs:          []string{"trader_id"},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Models:      testModelsConfig(),
		Probability: testProbabilityConfig(),
		DQSI:        testDQSIConfig(),
	}
}

func testEngine() *Engine {
	templates := explain.Templates{}
	return NewEngine(testConfig(), templates, "v-test", "2026.07")
}

func TestAnalyze_scenarioA_insiderDealingHighEvidence(t *testing.T) {
	e := testEngine()
	batch, err := Simulate(ScenarioInsiderDealingLatentIntent, SimulateParams{TraderID: "trader-a"})
	require.NoError(t, err)

	result, err := e.Analyze(context.Background(), batch, Options{Typologies: []string{"insider_dealing"}})
	require.NoError(t, err)

	score := result.RiskScores["insider_dealing"]
	assert.GreaterOrEqual(t, score.Overall, 0.5)
	assert.NotEmpty(t, result.Alerts)
	found := false
	for _, rec := range result.Alerts {
		if rec.Alert.Typology == "insider_dealing" {
			found = true
			assert.NotEqual(t, risk.SeverityLow, rec.Alert.Severity)
		}
	}
	assert.True(t, found)
}

func TestAnalyze_scenarioC_allEvidenceAbsent_noAlert(t *testing.T) {
	e := testEngine()
	batch, err := Simulate(ScenarioAllEvidenceAbsent, SimulateParams{})
	require.NoError(t, err)

	result, err := e.Analyze(context.Background(), batch, Options{Typologies: []string{"insider_dealing"}})
	require.NoError(t, err)

	score := result.RiskScores["insider_dealing"]
	assert.Empty(t, score.Trace.ActiveNodes)
	assert.Equal(t, "Sparse", score.ESI.ESIBadge)
	assert.Empty(t, result.Alerts)
	assert.Equal(t, "Low", result.DQSI.TrustBucket)
}

func TestAnalyze_scenarioD_criticalKDEMissing_capsDQSI(t *testing.T) {
	e := testEngine()
	batch, err := Simulate(ScenarioCriticalKDEMissing, SimulateParams{TraderID: "trader-d"})
	require.NoError(t, err)

	result, err := e.Analyze(context.Background(), batch, Options{Typologies: []string{"insider_dealing"}})
	require.NoError(t, err)

	assert.Contains(t, result.DQSI.MissingCriticalKDEs, "trader_id")
	assert.LessOrEqual(t, result.DQSI.Overall, 0.75)
}

func TestAnalyze_scenarioE_newsContextSuppression(t *testing.T) {
	e := testEngine()
	withoutNews, err := Simulate(ScenarioInsiderDealingLatentIntent, SimulateParams{TraderID: "trader-e"})
	require.NoError(t, err)
	withNews, err := Simulate(ScenarioNewsContextSuppression, SimulateParams{TraderID: "trader-e"})
	require.NoError(t, err)

	baseline, err := e.Analyze(context.Background(), withoutNews, Options{Typologies: []string{"insider_dealing"}})
	require.NoError(t, err)
	suppressed, err := e.Analyze(context.Background(), withNews, Options{Typologies: []string{"insider_dealing"}})
	require.NoError(t, err)

	assert.Less(t, suppressedWeighted(suppressed), baselineWeighted(baseline))
}

func baselineWeighted(r *Result) float64 {
	return r.RiskScores["insider_dealing"].Overall
}

func suppressedWeighted(r *Result) float64 {
	return r.RiskScores["insider_dealing"].Overall
}

func TestAnalyze_unknownTypologyDisablesOnly(t *testing.T) {
	e := testEngine()
	batch, err := Simulate(ScenarioAllEvidenceAbsent, SimulateParams{})
	require.NoError(t, err)

	result, err := e.Analyze(context.Background(), batch, Options{Typologies: []string{"insider_dealing", "nonexistent_typology"}})
	require.NoError(t, err)

	assert.Contains(t, result.DisabledTypologies, "nonexistent_typology")
	assert.Contains(t, result.RiskScores, "insider_dealing")
}

func TestAnalyze_includeRationaleTogglesExplanation(t *testing.T) {
	e := testEngine()
	batch, err := Simulate(ScenarioInsiderDealingLatentIntent, SimulateParams{TraderID: "trader-f"})
	require.NoError(t, err)

	withRationale, err := e.Analyze(context.Background(), batch, Options{Typologies: []string{"insider_dealing"}, IncludeRationale: true})
	require.NoError(t, err)
	withoutRationale, err := e.Analyze(context.Background(), batch, Options{Typologies: []string{"insider_dealing"}, IncludeRationale: false})
	require.NoError(t, err)

	require.NotEmpty(t, withRationale.Alerts)
	require.NotEmpty(t, withoutRationale.Alerts)
	assert.NotEmpty(t, withRationale.Alerts[0].Alert.Explanation.Paths)
	assert.Empty(t, withoutRationale.Alerts[0].Alert.Explanation.Paths)
}
