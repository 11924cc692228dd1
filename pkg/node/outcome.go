package node

import (
	"fmt"

	"github.com/korinsic/surveillance-core/internal/apperrors"
)

// Outcome is the root risk node for a typology. Unlike Intermediate and
// LatentIntent, its CPT is not derived from a noisy-OR formula: it is a
// directly configured table (spec.md §3.1, §3.3 "Typology → outcome CPD
// conditioned on intermediate states"), since the outcome distribution
// carries regulatory-basis annotations that must be authored, not computed.
type Outcome struct {
	name        string
	states      []string
	parentNames []string
	table       CPT
	parentNodes []Node
}

// NewOutcome constructs an outcome node from its configured CPD. parentNames
// is the intermediate-node set plus, optionally, the latent-intent node
// (fan-in ≤ 4, spec.md §3.4).
func NewOutcome(name string, states []string, parentNames []string, table CPT) (*Outcome, error) {
	n := &Outcome{name: name, states: states, parentNames: parentNames, table: table}
	if err := n.validateDeclaration(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Outcome) Name() string      { return n.name }
func (n *Outcome) Kind() Kind        { return KindOutcome }
func (n *Outcome) States() []string  { return n.states }
func (n *Outcome) Parents() []string { return n.parentNames }

func (n *Outcome) SetParents(parents []Node) error {
	if len(parents) != len(n.parentNames) {
		return apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: expected %d parents, got %d", n.name, len(n.parentNames), len(parents)))
	}
	for i, p := range parents {
		if p.Name() != n.parentNames[i] {
			return apperrors.New(apperrors.ErrModelUnknown,
				fmt.Sprintf("node %q: parent at position %d is %q, expected %q", n.name, i, p.Name(), n.parentNames[i]))
		}
	}
	n.parentNodes = parents
	return nil
}

func (n *Outcome) validateDeclaration() error {
	if len(n.states) == 0 {
		return apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: state list must be non-empty", n.name))
	}
	if len(n.parentNames) == 0 || len(n.parentNames) > maxFanIn {
		return apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: fan-in %d exceeds bound of %d", n.name, len(n.parentNames), maxFanIn))
	}
	return nil
}

// Validate checks fan-in and, once parents are attached, that the
// configured table covers every parent-state combination and every column
// sums to 1.0.
func (n *Outcome) Validate() error {
	if err := n.validateDeclaration(); err != nil {
		return err
	}
	if n.parentNodes == nil {
		return nil
	}
	cpt, err := n.CPT()
	if err != nil {
		return err
	}
	return cpt.Validate(n.name)
}

func (n *Outcome) CPT() (CPT, error) {
	if n.parentNodes == nil {
		return CPT{}, apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: outcome CPT requires parent_nodes to be set", n.name))
	}
	cardinalities := make([]int, len(n.parentNodes))
	for i, p := range n.parentNodes {
		cardinalities[i] = len(p.States())
	}
	for _, combo := range cartesianProduct(cardinalities) {
		key := stateKey(combo)
		col, ok := n.table.Columns[key]
		if !ok {
			return CPT{}, apperrors.New(apperrors.ErrModelUnknown,
				fmt.Sprintf("node %q: outcome CPD missing entry for parent state tuple %q", n.name, key))
		}
		if len(col) != len(n.states) {
			return CPT{}, apperrors.New(apperrors.ErrModelUnknown,
				fmt.Sprintf("node %q: outcome CPD entry %q has %d states, expected %d", n.name, key, len(col), len(n.states)))
		}
	}
	return n.table, nil
}
