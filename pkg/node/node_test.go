package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvidence_valid(t *testing.T) {
	n, err := NewEvidence("trade_pattern", []string{"Low", "Medium", "High"}, []float64{0.7, 0.25, 0.05})
	require.NoError(t, err)
	assert.Equal(t, KindEvidence, n.Kind())
	assert.Equal(t, []float64{0.7, 0.25, 0.05}, n.FallbackPrior())
}

func TestNewEvidence_badPriorSum(t *testing.T) {
	_, err := NewEvidence("trade_pattern", []string{"Low", "Medium", "High"}, []float64{0.7, 0.4, 0.05})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trade_pattern")
}

func TestNewEvidence_emptyStates(t *testing.T) {
	_, err := NewEvidence("x", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestIntermediate_requiresParentsBeforeCPT(t *testing.T) {
	im, err := NewIntermediate("behavioral_intent_1", TypeBehavioralIntent,
		[]string{"Low", "Medium", "High"}, []string{"a", "b"}, []string{"insider_dealing"},
		NoisyORParams{LeakProbability: 0.05, ParentProbabilities: []float64{0.6, 0.5}, ResidualMiddle: 0.7, ResidualLow: 0.3})
	require.NoError(t, err)

	_, err = im.CPT()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "behavioral_intent_1")
	assert.Contains(t, err.Error(), "parent_nodes")
}

func TestIntermediate_noisyOR_columnsSumToOne(t *testing.T) {
	a, _ := NewEvidence("a", []string{"Low", "Medium", "High"}, []float64{0.6, 0.3, 0.1})
	b, _ := NewEvidence("b", []string{"Low", "Medium", "High"}, []float64{0.6, 0.3, 0.1})

	im, err := NewIntermediate("behavioral_intent_1", TypeBehavioralIntent,
		[]string{"Low", "Medium", "High"}, []string{"a", "b"}, []string{"insider_dealing"},
		NoisyORParams{LeakProbability: 0.05, ParentProbabilities: []float64{0.6, 0.5}, ResidualMiddle: 0.7, ResidualLow: 0.3})
	require.NoError(t, err)
	require.NoError(t, im.SetParents([]Node{a, b}))

	cpt, err := im.CPT()
	require.NoError(t, err)
	assert.Len(t, cpt.Columns, 9)
	for key, col := range cpt.Columns {
		sum := col[0] + col[1] + col[2]
		assert.InDelta(t, 1.0, sum, 1e-9, "column %s", key)
	}
}

func TestIntermediate_monotoneInParentState(t *testing.T) {
	a, _ := NewEvidence("a", []string{"Low", "Medium", "High"}, []float64{0.6, 0.3, 0.1})
	b, _ := NewEvidence("b", []string{"Low", "Medium", "High"}, []float64{0.6, 0.3, 0.1})
	im, err := NewIntermediate("behavioral_intent_1", TypeBehavioralIntent,
		[]string{"Low", "Medium", "High"}, []string{"a", "b"}, []string{"insider_dealing"},
		NoisyORParams{LeakProbability: 0.05, ParentProbabilities: []float64{0.6, 0.5}, ResidualMiddle: 0.7, ResidualLow: 0.3})
	require.NoError(t, err)
	require.NoError(t, im.SetParents([]Node{a, b}))
	cpt, err := im.CPT()
	require.NoError(t, err)

	low, _ := cpt.ColumnFor([]int{0, 0})
	mid, _ := cpt.ColumnFor([]int{1, 0})
	high, _ := cpt.ColumnFor([]int{2, 0})
	assert.LessOrEqual(t, low[2], mid[2])
	assert.LessOrEqual(t, mid[2], high[2])
}

func TestIntermediate_fanInBoundExceeded(t *testing.T) {
	_, err := NewIntermediate("x", TypeMarketImpact, []string{"Low", "Medium", "High"},
		[]string{"a", "b", "c", "d", "e"}, nil,
		NoisyORParams{LeakProbability: 0.05, ParentProbabilities: []float64{0.1, 0.1, 0.1, 0.1, 0.1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x")
	assert.Contains(t, err.Error(), "exceeds bound")
}

func TestIntermediate_unknownType(t *testing.T) {
	_, err := NewIntermediate("x", IntermediateType("not_a_type"), []string{"Low", "Medium", "High"},
		[]string{"a"}, nil, NoisyORParams{ParentProbabilities: []float64{0.1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown intermediate type")
}

func TestOutcome_missingCPDEntry(t *testing.T) {
	a, _ := NewEvidence("a", []string{"Low", "High"}, []float64{0.5, 0.5})
	out, err := NewOutcome("insider_dealing_outcome", []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"},
		[]string{"a"}, CPT{Columns: map[string][]float64{"0": {0.9, 0.05, 0.03, 0.02}}})
	require.NoError(t, err)
	require.NoError(t, out.SetParents([]Node{a}))

	_, err = out.CPT()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insider_dealing_outcome")
	assert.Contains(t, err.Error(), "missing entry")
}

func TestOutcome_valid(t *testing.T) {
	a, _ := NewEvidence("a", []string{"Low", "High"}, []float64{0.5, 0.5})
	out, err := NewOutcome("insider_dealing_outcome", []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"},
		[]string{"a"}, CPT{Columns: map[string][]float64{
			"0": {0.9, 0.05, 0.03, 0.02},
			"1": {0.1, 0.2, 0.3, 0.4},
		}})
	require.NoError(t, err)
	require.NoError(t, out.SetParents([]Node{a}))

	cpt, err := out.CPT()
	require.NoError(t, err)
	assert.Len(t, cpt.Columns, 2)
}

func TestLatentIntent_noisyOR(t *testing.T) {
	nodes := make([]Node, 4)
	names := []string{"trade_pattern", "comms_intent", "pnl_drift", "mnpi_access"}
	for i, name := range names {
		n, err := NewEvidence(name, []string{"Low", "Medium", "High"}, []float64{0.6, 0.3, 0.1})
		require.NoError(t, err)
		nodes[i] = n
	}
	latent, err := NewLatentIntent("insider_latent_intent", []string{"Low", "Medium", "High"}, names,
		NoisyORParams{LeakProbability: 0.05, ParentProbabilities: []float64{0.5, 0.5, 0.5, 0.5}, ResidualMiddle: 0.7, ResidualLow: 0.3})
	require.NoError(t, err)
	require.NoError(t, latent.SetParents(nodes))

	cpt, err := latent.CPT()
	require.NoError(t, err)
	assert.Len(t, cpt.Columns, 81)
	for key, col := range cpt.Columns {
		sum := col[0] + col[1] + col[2]
		assert.InDelta(t, 1.0, sum, 1e-9, "column %s", key)
	}
}

func TestCPT_Validate(t *testing.T) {
	c := CPT{Columns: map[string][]float64{"0": {0.5, 0.6}}}
	err := c.Validate("badnode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "badnode")
}
