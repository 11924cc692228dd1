// Package node implements the shared intermediate-node library: the
// discrete-state evidence, intermediate, outcome, and latent-intent nodes
// that every typology network is assembled from (spec.md §3.1, §4.1).
package node

import (
	"fmt"
	"math"

	"github.com/korinsic/surveillance-core/internal/apperrors"
)

// Kind distinguishes the four roles a node may take in a network.
type Kind string

const (
	KindEvidence     Kind = "evidence"
	KindIntermediate Kind = "intermediate"
	KindOutcome      Kind = "outcome"
	KindLatentIntent Kind = "latent_intent"
)

// IntermediateType enumerates the six canonical, reusable intermediate-node
// variants (spec.md §3.1). This set is closed by design — spec.md §9 calls
// for a closed tagged-variant set rather than open polymorphism.
type IntermediateType string

const (
	TypeMarketImpact          IntermediateType = "market_impact"
	TypeBehavioralIntent      IntermediateType = "behavioral_intent"
	TypeCoordinationPatterns  IntermediateType = "coordination_patterns"
	TypeInformationAdvantage  IntermediateType = "information_advantage"
	TypeEconomicRationality   IntermediateType = "economic_rationality"
	TypeTechnicalManipulation IntermediateType = "technical_manipulation"
)

// IsValid reports whether t is one of the six canonical intermediate types.
func (t IntermediateType) IsValid() bool {
	switch t {
	case TypeMarketImpact, TypeBehavioralIntent, TypeCoordinationPatterns,
		TypeInformationAdvantage, TypeEconomicRationality, TypeTechnicalManipulation:
		return true
	}
	return false
}

const maxFanIn = 4
const cptTolerance = 1e-6

// CPT is a conditional probability table: one distribution (a column) per
// combination of parent states, looked up by the comma-joined parent state
// tuple (spec.md §3.2). A parentless CPT has a single entry under key "".
type CPT struct {
	Columns map[string][]float64
}

// ColumnFor returns the distribution for the given parent-state tuple.
func (c CPT) ColumnFor(parentStates []int) ([]float64, bool) {
	col, ok := c.Columns[stateKey(parentStates)]
	return col, ok
}

func stateKey(states []int) string {
	if len(states) == 0 {
		return ""
	}
	key := fmt.Sprintf("%d", states[0])
	for _, s := range states[1:] {
		key += fmt.Sprintf(",%d", s)
	}
	return key
}

// Validate checks every column sums to 1.0 within tolerance (spec.md §3.1,
// testable property 1).
func (c CPT) Validate(nodeName string) error {
	for key, col := range c.Columns {
		sum := 0.0
		for _, p := range col {
			sum += p
		}
		if math.Abs(sum-1.0) > cptTolerance {
			return apperrors.New(apperrors.ErrModelUnknown,
				fmt.Sprintf("node %q: CPT column %q sums to %.9f, expected 1.0±%g", nodeName, key, sum, cptTolerance))
		}
	}
	return nil
}

// Node is the uniform capability set every node variant exposes: declare
// parents, produce a CPT, and validate (spec.md §9). Applicable typologies
// are reported by Intermediate only, not through this interface.
type Node interface {
	Name() string
	Kind() Kind
	States() []string
	Parents() []string
	CPT() (CPT, error)
	Validate() error
}

// Evidence is an observable node. Its state is set by the evidence mapper
// or left unobserved, in which case the fallback engine uses FallbackPrior.
type Evidence struct {
	name          string
	states        []string
	fallbackPrior []float64
}

// NewEvidence constructs an evidence node, validating its state list and
// fallback prior sum to 1.0 (spec.md §3.1 invariants).
func NewEvidence(name string, states []string, fallbackPrior []float64) (*Evidence, error) {
	n := &Evidence{name: name, states: states, fallbackPrior: fallbackPrior}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func (e *Evidence) Name() string      { return e.name }
func (e *Evidence) Kind() Kind        { return KindEvidence }
func (e *Evidence) States() []string  { return e.states }
func (e *Evidence) Parents() []string { return nil }

// FallbackPrior returns the distribution used when this node is unobserved.
func (e *Evidence) FallbackPrior() []float64 { return e.fallbackPrior }

func (e *Evidence) CPT() (CPT, error) {
	return CPT{Columns: map[string][]float64{"": e.fallbackPrior}}, nil
}

func (e *Evidence) Validate() error {
	if len(e.states) == 0 {
		return apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: state list must be non-empty", e.name))
	}
	if len(e.fallbackPrior) != len(e.states) {
		return apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: fallback prior length %d does not match state count %d", e.name, len(e.fallbackPrior), len(e.states)))
	}
	sum := 0.0
	for _, p := range e.fallbackPrior {
		sum += p
	}
	if math.Abs(sum-1.0) > cptTolerance {
		return apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: fallback prior sums to %.9f, expected 1.0±%g", e.name, sum, cptTolerance))
	}
	return CPT{Columns: map[string][]float64{"": e.fallbackPrior}}.Validate(e.name)
}
