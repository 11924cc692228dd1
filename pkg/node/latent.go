package node

import (
	"fmt"

	"github.com/korinsic/surveillance-core/internal/apperrors"
)

// LatentIntent is the optional hidden node of the latent-intent structural
// variant (spec.md §3.1, §3.4): parented by a selected subset of evidence,
// its own output becomes one parent of the outcome node. It is constructed
// the same noisy-OR way as a canonical Intermediate, but is not itself one
// of the six reusable types — it is typology-specific.
type LatentIntent struct {
	name        string
	states      []string
	parentNames []string
	params      NoisyORParams
	parentNodes []Node
}

// NewLatentIntent constructs a latent-intent node. parentNames is the
// configured evidence subset that parents it (fan-in ≤ 4).
func NewLatentIntent(name string, states []string, parentNames []string, params NoisyORParams) (*LatentIntent, error) {
	n := &LatentIntent{name: name, states: states, parentNames: parentNames, params: params}
	if err := n.validateDeclaration(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *LatentIntent) Name() string      { return n.name }
func (n *LatentIntent) Kind() Kind        { return KindLatentIntent }
func (n *LatentIntent) States() []string  { return n.states }
func (n *LatentIntent) Parents() []string { return n.parentNames }

func (n *LatentIntent) SetParents(parents []Node) error {
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

func (n *LatentIntent) validateDeclaration() error {
	if len(n.states) == 0 {
		return apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: state list must be non-empty", n.name))
	}
	if len(n.parentNames) == 0 || len(n.parentNames) > maxFanIn {
		return apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: fan-in %d exceeds bound of %d", n.name, len(n.parentNames), maxFanIn))
	}
	if len(n.params.ParentProbabilities) != len(n.parentNames) {
		return apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: parent_probabilities length %d does not match parent count %d", n.name, len(n.params.ParentProbabilities), len(n.parentNames)))
	}
	return nil
}

func (n *LatentIntent) Validate() error {
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

func (n *LatentIntent) CPT() (CPT, error) {
	if n.parentNodes == nil {
		return CPT{}, apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: noisy-OR CPT construction requires parent_nodes to be set", n.name))
	}
	cardinalities := make([]int, len(n.parentNodes))
	for i, p := range n.parentNodes {
		cardinalities[i] = len(p.States())
	}
	columns := map[string][]float64{}
	for _, combo := range cartesianProduct(cardinalities) {
		columns[stateKey(combo)] = noisyORColumn(combo, cardinalities, n.params, len(n.states))
	}
	return CPT{Columns: columns}, nil
}
