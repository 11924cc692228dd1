// Package esi computes the Evidence Sufficiency Index (spec.md §4.7): a
// weighted summary of how much of an inference trace was actually backed by
// observed evidence, versus carried on fallback priors.
package esi

import (
	"math"
	"sort"

	"github.com/korinsic/surveillance-core/pkg/inference"
	"github.com/korinsic/surveillance-core/pkg/model"
)

// Weights are the configured W1..W5 terms of the ESI formula (spec.md §4.7).
// They must sum to 1.
type Weights struct {
	Activation          float64
	Confidence          float64
	FallbackComplement  float64
	ContributionEntropy float64
	ClusterDiversity    float64
}

// DefaultWeights is the weighting used when no configuration overrides it:
// activation and confidence weigh most, cluster diversity and contribution
// concentration least.
var DefaultWeights = Weights{
	Activation:          0.25,
	Confidence:          0.25,
	FallbackComplement:  0.2,
	ContributionEntropy: 0.15,
	ClusterDiversity:    0.15,
}

// Result is the ESI output of spec.md §4.7, using its fixed field names.
type Result struct {
	EvidenceSufficiencyIndex float64
	ESIBadge                 string // Sparse, Weak, Moderate, Strong
	NodeCount                int
	MeanConfidence           string // Low, Medium, High
	FallbackRatio            float64
	ContributionSpread       string // Uneven, Balanced
	Clusters                 []string
}

// Calculate computes the ESI for one inference trace over m (spec.md §4.7).
func Calculate(m *model.Model, tr *inference.Trace, weights Weights) Result {
	total := len(m.EvidenceNodeNames)
	activeCount := len(tr.ActiveNodes)
	fallbackCount := len(tr.FallbackNodes)

	activationRatio := ratio(activeCount, total)
	fallbackRatio := ratio(fallbackCount, total)

	meanConfidence := meanConfidenceOverActive(tr)
	contributionEntropy := contributionEntropyOf(tr)
	clusterDiversityRatio, activeClusters := clusterDiversity(m, tr)

	esi := weights.Activation*activationRatio +
		weights.Confidence*meanConfidence +
		weights.FallbackComplement*(1-fallbackRatio) +
		weights.ContributionEntropy*contributionEntropy +
		weights.ClusterDiversity*clusterDiversityRatio
	esi = clamp01(esi)

	return Result{
		EvidenceSufficiencyIndex: esi,
		ESIBadge:                 badgeFor(esi),
		NodeCount:                total,
		MeanConfidence:           bucketize(meanConfidence),
		FallbackRatio:            fallbackRatio,
		ContributionSpread:       spreadFor(contributionEntropy),
		Clusters:                 sortedClusters(activeClusters),
	}
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func meanConfidenceOverActive(tr *inference.Trace) float64 {
	if len(tr.ActiveNodes) == 0 {
		return 0
	}
	sum := 0.0
	for _, name := range tr.ActiveNodes {
		sum += tr.Nodes[name].Confidence
	}
	return sum / float64(len(tr.ActiveNodes))
}

// contributionEntropyOf is 1 minus the normalized Shannon entropy of the
// per-node contribution-weight distribution (spec.md §4.7): concentrated
// contribution (one or two nodes driving the result) scores high, evenly
// spread contribution scores low.
func contributionEntropyOf(tr *inference.Trace) float64 {
	names := make([]string, 0, len(tr.Nodes))
	for name := range tr.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	var total float64
	weights := make([]float64, 0, len(names))
	for _, name := range names {
		w := tr.Nodes[name].ContributionWeight
		if w > 0 {
			weights = append(weights, w)
			total += w
		}
	}
	if total <= 0 || len(weights) <= 1 {
		return 0
	}
	entropy := 0.0
	for _, w := range weights {
		p := w / total
		if p <= 0 {
			continue
		}
		entropy -= p * math.Log(p)
	}
	maxEntropy := math.Log(float64(len(weights)))
	if maxEntropy == 0 {
		return 0
	}
	return 1 - entropy/maxEntropy
}

func clusterDiversity(m *model.Model, tr *inference.Trace) (ratio float64, active map[string]bool) {
	declared := map[string]bool{}
	for _, cluster := range m.Clusters {
		if cluster != "" {
			declared[cluster] = true
		}
	}
	active = map[string]bool{}
	for _, name := range tr.ActiveNodes {
		if cluster, ok := m.Clusters[name]; ok && cluster != "" {
			active[cluster] = true
		}
	}
	if len(declared) == 0 {
		return 0, active
	}
	return float64(len(active)) / float64(len(declared)), active
}

func sortedClusters(active map[string]bool) []string {
	out := make([]string, 0, len(active))
	for c := range active {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func badgeFor(esi float64) string {
	switch {
	case esi >= 0.85:
		return "Strong"
	case esi >= 0.65:
		return "Moderate"
	case esi >= 0.4:
		return "Weak"
	default:
		return "Sparse"
	}
}

func bucketize(meanConfidence float64) string {
	switch {
	case meanConfidence >= 0.7:
		return "High"
	case meanConfidence >= 0.4:
		return "Medium"
	default:
		return "Low"
	}
}

func spreadFor(contributionEntropy float64) string {
	if contributionEntropy >= 0.6 {
		return "Uneven"
	}
	return "Balanced"
}
