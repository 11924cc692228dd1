// Package inference implements exact inference over a typology's compiled
// Bayesian network (spec.md §4.1, §4.6): variable elimination over the
// network's factors, producing a posterior for the outcome node and every
// intermediate/latent node along the way, without ever clamping an
// unobserved node to its prior as if it had been observed.
package inference

import (
	"math"
	"sort"

	"github.com/korinsic/surveillance-core/internal/apperrors"
	"github.com/korinsic/surveillance-core/pkg/evidence"
	"github.com/korinsic/surveillance-core/pkg/model"
	"github.com/korinsic/surveillance-core/pkg/node"
)

// instabilityTolerance bounds the final posterior's total probability mass
// and the most negative entry any factor may hold during elimination
// (spec.md §4.12: "any factor sum outside 1.0 ± 1e-6").
const instabilityTolerance = 1e-6

// NodeRecord is one node's contribution to an inference run (spec.md §3.6).
type NodeRecord struct {
	Name               string
	Kind               node.Kind
	Observed           bool
	ObservedState      int
	Posterior          []float64
	Confidence         float64
	ContributionWeight float64
}

// Trace is the full record of one inference run over a typology's network.
type Trace struct {
	Typology         string
	OutcomePosterior []float64
	Nodes            map[string]NodeRecord
	ActiveNodes      []string
	FallbackNodes    []string
	HighRiskNodes    []string
	CriticalNodes    []string
}

// highRiskThreshold and criticalThreshold classify a node's top-state
// posterior for the trace's high-risk/critical node lists (spec.md §3.6).
const highRiskThreshold = 0.6
const criticalThreshold = 0.85

// Infer runs exact variable-elimination inference over m given the supplied
// evidence set, returning a full per-node trace (spec.md §4.1). It is
// deterministic: the same (model, evidence set) always produces the same
// trace (spec.md §4.5, testable property 3).
func Infer(m *model.Model, set evidence.EvidenceSet) (*Trace, error) {
	resolved, err := resolveEvidence(m, set)
	if err != nil {
		return nil, err
	}

	baseFactors, err := buildFactors(m, resolved)
	if err != nil {
		return nil, err
	}

	queryNames := make([]string, 0, len(m.Nodes))
	for name, n := range m.Nodes {
		if n.Kind() != node.KindEvidence {
			queryNames = append(queryNames, name)
		}
	}
	sort.Strings(queryNames)

	nodes := make(map[string]NodeRecord, len(m.Nodes))
	for _, name := range m.EvidenceNodeNames {
		n := m.Nodes[name].(*node.Evidence)
		state, observed := resolved.active[name]
		posterior := n.FallbackPrior()
		if observed {
			posterior = oneHot(state, len(n.States()))
		}
		nodes[name] = NodeRecord{
			Name:          name,
			Kind:          node.KindEvidence,
			Observed:      observed,
			ObservedState: state,
			Posterior:     posterior,
			Confidence:    confidenceOf(posterior),
		}
	}

	var outcomePosterior []float64
	for _, name := range queryNames {
		dist, err := eliminateAllExcept(baseFactors, name)
		if err != nil {
			return nil, err
		}
		n := m.Nodes[name]
		posterior := toDistribution(dist, name, len(n.States()))
		rec := NodeRecord{
			Name:       name,
			Kind:       n.Kind(),
			Posterior:  posterior,
			Confidence: confidenceOf(posterior),
		}
		nodes[name] = rec
		if name == m.Outcome.Name() {
			outcomePosterior = posterior
		}
	}

	// ContributionWeight scores how much a node actually informs the result:
	// an unobserved evidence node carried at its fallback prior contributes
	// nothing (its state is unknown, not inferred), while every other node
	// (observed evidence, and every intermediate/latent/outcome node, which
	// is always computed from whatever evidence is available) contributes
	// in proportion to its posterior's confidence.
	for name, rec := range nodes {
		if rec.Kind == node.KindEvidence && !rec.Observed {
			rec.ContributionWeight = 0
		} else {
			rec.ContributionWeight = rec.Confidence
		}
		nodes[name] = rec
	}

	var active, fallback, highRisk, critical []string
	for _, name := range m.EvidenceNodeNames {
		if _, ok := resolved.active[name]; ok {
			active = append(active, name)
		}
	}
	fallback = append(fallback, resolved.fallback...)
	for name, rec := range nodes {
		top := rec.Posterior[len(rec.Posterior)-1]
		if top >= criticalThreshold {
			critical = append(critical, name)
		} else if top >= highRiskThreshold {
			highRisk = append(highRisk, name)
		}
	}
	sort.Strings(highRisk)
	sort.Strings(critical)

	return &Trace{
		Typology:         m.Typology,
		OutcomePosterior: outcomePosterior,
		Nodes:            nodes,
		ActiveNodes:      active,
		FallbackNodes:    fallback,
		HighRiskNodes:    highRisk,
		CriticalNodes:    critical,
	}, nil
}

func oneHot(state, n int) []float64 {
	dist := make([]float64, n)
	dist[state] = 1
	return dist
}

// confidenceOf scores a distribution's concentration as 1 minus its
// normalized Shannon entropy: 1.0 for a one-hot (fully observed) node, lower
// for a diffuse (fallback) posterior.
func confidenceOf(dist []float64) float64 {
	if len(dist) <= 1 {
		return 1
	}
	entropy := 0.0
	for _, p := range dist {
		if p <= 0 {
			continue
		}
		entropy -= p * math.Log(p)
	}
	maxEntropy := math.Log(float64(len(dist)))
	if maxEntropy == 0 {
		return 1
	}
	return 1 - entropy/maxEntropy
}

func buildFactors(m *model.Model, resolved resolvedEvidence) ([]factor, error) {
	var factors []factor
	for _, name := range m.EvidenceNodeNames {
		ev := m.Nodes[name].(*node.Evidence)
		if state, ok := resolved.active[name]; ok {
			factors = append(factors, unaryFactor(name, oneHot(state, len(ev.States()))))
			continue
		}
		factors = append(factors, unaryFactor(name, ev.FallbackPrior()))
	}
	for name, n := range m.Nodes {
		if n.Kind() == node.KindEvidence {
			continue
		}
		cpt, err := n.CPT()
		if err != nil {
			return nil, err
		}
		f, err := conditionalFactor(name, n.Parents(), cpt.Columns)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrInference,
				"node %q: malformed CPT key while building inference factor", name)
		}
		factors = append(factors, f)
	}
	return factors, nil
}

// eliminateAllExcept runs variable elimination over factors, marginalizing
// out every variable except keep, and returns the resulting single-variable
// factor (spec.md §4.1 exact inference).
func eliminateAllExcept(factors []factor, keep string) (factor, error) {
	work := make([]factor, len(factors))
	copy(work, factors)

	varSet := map[string]bool{}
	for _, f := range work {
		for _, v := range f.vars {
			varSet[v] = true
		}
	}
	delete(varSet, keep)
	order := make([]string, 0, len(varSet))
	for v := range varSet {
		order = append(order, v)
	}
	sort.Strings(order)

	for _, v := range order {
		var involved, remaining []factor
		for _, f := range work {
			if containsVar(f.vars, v) {
				involved = append(involved, f)
			} else {
				remaining = append(remaining, f)
			}
		}
		if len(involved) == 0 {
			continue
		}
		merged := involved[0]
		for _, f := range involved[1:] {
			merged = multiply(merged, f)
		}
		summed := sumOut(merged, v)
		for _, e := range summed.entries {
			if math.IsNaN(e.prob) || math.IsInf(e.prob, 0) || e.prob < -instabilityTolerance {
				return factor{}, apperrors.Newf(apperrors.ErrInferenceInstability,
					"numerical instability eliminating node %q", v)
			}
		}
		work = append(remaining, summed)
	}

	if len(work) == 0 {
		return factor{}, apperrors.Newf(apperrors.ErrInferenceInstability,
			"node %q: no factors remain after elimination", keep)
	}
	final := work[0]
	for _, f := range work[1:] {
		final = multiply(final, f)
	}

	sum := 0.0
	for _, e := range final.entries {
		sum += e.prob
	}
	if math.Abs(sum-1.0) > instabilityTolerance {
		return factor{}, apperrors.Newf(apperrors.ErrInferenceInstability,
			"node %q: posterior sums to %.9f, expected 1.0±%g", keep, sum, instabilityTolerance)
	}
	return final, nil
}

// toDistribution reads a single-variable factor over `name` into a dense,
// normalized distribution ordered by state index, so that floating-point
// drift accumulated across elimination never leaves the returned posterior
// off of 1.0 by more than machine precision (testable property 2).
func toDistribution(f factor, name string, numStates int) []float64 {
	dist := make([]float64, numStates)
	for _, e := range f.entries {
		dist[e.vals[name]] += e.prob
	}
	sum := 0.0
	for _, p := range dist {
		sum += p
	}
	if sum > 0 {
		for i := range dist {
			dist[i] /= sum
		}
	}
	return dist
}
