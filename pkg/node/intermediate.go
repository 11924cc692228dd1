package node

import (
	"fmt"

	"github.com/korinsic/surveillance-core/internal/apperrors"
)

// NoisyORParams parameterizes the noisy-OR CPT construction of spec.md §4.1.
// ResidualMiddle and ResidualLow are the canonical 70/30 split (spec.md §9
// open question 2) of the probability mass not assigned to the child's top
// state; they apply only to 3-state children. Children of any other
// cardinality ignore them and split the residual uniformly.
type NoisyORParams struct {
	LeakProbability     float64
	ParentProbabilities []float64
	ResidualMiddle      float64
	ResidualLow         float64
}

// Intermediate is a deterministic noisy-OR aggregator of up to four evidence
// parents (spec.md §3.1). It is one of the six canonical, reusable variants.
type Intermediate struct {
	name                 string
	itype                IntermediateType
	states               []string
	parentNames          []string
	applicableTypologies []string
	params               NoisyORParams
	parentNodes          []Node
}

// NewIntermediate constructs an intermediate node of the given canonical
// type. states is typically {Low, Medium, High}. parentNames declares the
// parent evidence/intermediate nodes by name; actual Node objects (needed to
// know parent cardinalities) are attached later via SetParents.
func NewIntermediate(name string, itype IntermediateType, states []string, parentNames []string, applicableTypologies []string, params NoisyORParams) (*Intermediate, error) {
	n := &Intermediate{
		name:                 name,
		itype:                itype,
		states:               states,
		parentNames:          parentNames,
		applicableTypologies: applicableTypologies,
		params:               params,
	}
	if err := n.validateDeclaration(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Intermediate) Name() string                    { return n.name }
func (n *Intermediate) Kind() Kind                       { return KindIntermediate }
func (n *Intermediate) States() []string                 { return n.states }
func (n *Intermediate) Parents() []string                { return n.parentNames }
func (n *Intermediate) Type() IntermediateType           { return n.itype }
func (n *Intermediate) ApplicableTypologies() []string   { return n.applicableTypologies }

// AppliesTo reports whether this intermediate type is declared for typology.
func (n *Intermediate) AppliesTo(typology string) bool {
	for _, t := range n.applicableTypologies {
		if t == typology {
			return true
		}
	}
	return false
}

// SetParents attaches the actual parent Node objects, required before CPT()
// can compute cardinalities. Names and order must match parentNames exactly.
func (n *Intermediate) SetParents(parents []Node) error {
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

func (n *Intermediate) validateDeclaration() error {
	if !n.itype.IsValid() {
		return apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: unknown intermediate type %q", n.name, n.itype))
	}
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

// Validate checks the node's own declaration and, if parents are already
// attached, that a valid CPT can be constructed from them.
func (n *Intermediate) Validate() error {
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

// CPT builds the noisy-OR conditional probability table. It fails, naming
// the node, if parent_nodes has not been set (spec.md §4.1 contract,
// testable property 9).
func (n *Intermediate) CPT() (CPT, error) {
	if n.parentNodes == nil {
		return CPT{}, apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("node %q: noisy-OR CPT construction requires parent_nodes to be set", n.name))
	}

	cardinalities := make([]int, len(n.parentNodes))
	for i, p := range n.parentNodes {
		cardinalities[i] = len(p.States())
	}

	columns := map[string][]float64{}
	combos := cartesianProduct(cardinalities)
	for _, combo := range combos {
		columns[stateKey(combo)] = noisyORColumn(combo, cardinalities, n.params, len(n.states))
	}
	return CPT{Columns: columns}, nil
}

// noisyORColumn computes the child distribution for one parent-state
// combination using the noisy-OR formula of spec.md §4.1:
//
//	P(child=top | s) = 1 − (1−leak) · Πᵢ (1 − pᵢ·sᵢ/(cᵢ−1))
//
// shared by Intermediate and LatentIntent, the two noisy-OR-constructed node
// kinds.
func noisyORColumn(states []int, cardinalities []int, params NoisyORParams, numStates int) []float64 {
	product := 1.0
	for i, s := range states {
		ratio := 0.0
		if cardinalities[i] > 1 {
			ratio = float64(s) / float64(cardinalities[i]-1)
		}
		product *= 1 - params.ParentProbabilities[i]*ratio
	}
	topProb := 1 - (1-params.LeakProbability)*product
	if topProb < 0 {
		topProb = 0
	}
	if topProb > 1 {
		topProb = 1
	}
	residual := 1 - topProb

	col := make([]float64, numStates)
	col[numStates-1] = topProb
	if numStates == 1 {
		col[0] = 1
		return col
	}
	if numStates == 3 {
		col[1] = residual * params.ResidualMiddle
		col[0] = residual * params.ResidualLow
		return col
	}
	// Generalization beyond the canonical 3-state case: split the residual
	// uniformly across every non-top state.
	share := residual / float64(numStates-1)
	for i := 0; i < numStates-1; i++ {
		col[i] = share
	}
	return col
}

// cartesianProduct enumerates every combination of state indices across
// cardinalities, e.g. [2,3] -> [[0,0],[0,1],[0,2],[1,0],[1,1],[1,2]].
func cartesianProduct(cardinalities []int) [][]int {
	if len(cardinalities) == 0 {
		return [][]int{{}}
	}
	rest := cartesianProduct(cardinalities[1:])
	var out [][]int
	for s := 0; s < cardinalities[0]; s++ {
		for _, r := range rest {
			combo := append([]int{s}, r...)
			out = append(out, combo)
		}
	}
	return out
}
