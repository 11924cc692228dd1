package probability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korinsic/surveillance-core/internal/config"
	"github.com/korinsic/surveillance-core/pkg/node"
)

func testConfig() config.ProbabilityConfig {
	return config.ProbabilityConfig{
		EvidenceTypePriors: map[string]config.Distribution{
			"BEHAVIORAL": {Values: []float64{0.7, 0.25, 0.05}, Description: "default behavioral", RegulatoryBasis: "MAR Art. 8"},
		},
		EvidenceNodeTypes: map[string]string{"trade_pattern": "BEHAVIORAL"},
		IntermediateParams: map[string]config.NoisyORParams{
			"behavioral_intent": {LeakProbability: 0.05, ParentProbabilities: []float64{0.6, 0.5}},
		},
		OutcomeCPDs: map[string]config.OutcomeCPD{
			"insider_dealing": {Table: map[string]config.Distribution{
				"0,0": {Values: []float64{0.8, 0.15, 0.05}},
			}},
		},
		ResidualSplit: []float64{0.7, 0.3},
	}
}

func TestGetEvidenceCPD_default(t *testing.T) {
	s := New(testConfig())
	dist, err := s.GetEvidenceCPD("trade_pattern", "", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.7, 0.25, 0.05}, dist)
}

func TestGetEvidenceCPD_override(t *testing.T) {
	s := New(testConfig())
	dist, err := s.GetEvidenceCPD("some_other_node", "BEHAVIORAL", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.7, 0.25, 0.05}, dist)
}

func TestGetEvidenceCPD_unknown(t *testing.T) {
	s := New(testConfig())
	_, err := s.GetEvidenceCPD("ghost_node", "", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost_node")
}

func TestGetEvidenceCPD_cardinalityMismatch(t *testing.T) {
	s := New(testConfig())
	_, err := s.GetEvidenceCPD("trade_pattern", "", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2")
}

func TestGetIntermediateParams(t *testing.T) {
	s := New(testConfig())
	params, err := s.GetIntermediateParams(node.TypeBehavioralIntent)
	require.NoError(t, err)
	assert.Equal(t, 0.05, params.LeakProbability)
	assert.InDelta(t, 0.7, params.ResidualMiddle, 1e-9)
	assert.InDelta(t, 0.3, params.ResidualLow, 1e-9)
}

func TestGetIntermediateParams_missing(t *testing.T) {
	s := New(testConfig())
	_, err := s.GetIntermediateParams(node.TypeMarketImpact)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "market_impact")
}

func TestGetOutcomeCPD(t *testing.T) {
	s := New(testConfig())
	cpt, err := s.GetOutcomeCPD("insider_dealing")
	require.NoError(t, err)
	col, ok := cpt.ColumnFor([]int{0, 0})
	require.True(t, ok)
	assert.Equal(t, []float64{0.8, 0.15, 0.05}, col)
}

func TestGetOutcomeCPD_unknownTypology(t *testing.T) {
	s := New(testConfig())
	_, err := s.GetOutcomeCPD("spoofing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spoofing")
}

func TestDescriptionFor(t *testing.T) {
	s := New(testConfig())
	desc, reg, ok := s.DescriptionFor("BEHAVIORAL")
	require.True(t, ok)
	assert.Equal(t, "default behavioral", desc)
	assert.Equal(t, "MAR Art. 8", reg)

	_, _, ok = s.DescriptionFor("UNKNOWN")
	assert.False(t, ok)
}

func TestIntermediateRegulatoryBasis(t *testing.T) {
	s := New(testConfig())
	_, ok := s.IntermediateRegulatoryBasis(node.TypeBehavioralIntent)
	assert.True(t, ok)
	_, ok = s.IntermediateRegulatoryBasis(node.TypeMarketImpact)
	assert.False(t, ok)
}

func TestOutcomeRegulatoryBasis(t *testing.T) {
	s := New(testConfig())
	_, ok := s.OutcomeRegulatoryBasis("insider_dealing", "0,0")
	assert.True(t, ok)
	_, ok = s.OutcomeRegulatoryBasis("insider_dealing", "9,9")
	assert.False(t, ok)
}
