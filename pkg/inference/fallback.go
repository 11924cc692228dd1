package inference

import (
	"fmt"

	"github.com/korinsic/surveillance-core/internal/apperrors"
	"github.com/korinsic/surveillance-core/pkg/evidence"
	"github.com/korinsic/surveillance-core/pkg/model"
	"github.com/korinsic/surveillance-core/pkg/node"
)

// resolvedEvidence is the per-node outcome of reconciling an EvidenceSet
// against a Model's declared evidence nodes: either the node was observed at
// a valid state, or it falls back to its configured prior (spec.md §4.6 —
// unobserved nodes are left unclamped, never imputed as if observed).
type resolvedEvidence struct {
	active   map[string]int // node name -> observed state index
	fallback []string       // node names left unclamped, in model evidence-node order
}

// resolveEvidence validates an EvidenceSet against m's declared evidence
// nodes. A present key naming an unknown node, or a state index outside the
// node's cardinality, fails the whole request with E_EVIDENCE_OUT_OF_RANGE
// (spec.md §6.4) — a mapper that produced bad data is a mapper bug, not a
// degraded-but-continuable case. A node simply absent from the set is not an
// error: it is recorded as a fallback node and its prior is carried forward
// unclamped.
func resolveEvidence(m *model.Model, set evidence.EvidenceSet) (resolvedEvidence, error) {
	known := make(map[string]bool, len(m.EvidenceNodeNames))
	for _, name := range m.EvidenceNodeNames {
		known[name] = true
	}
	for name := range set {
		if !known[name] {
			return resolvedEvidence{}, apperrors.Newf(apperrors.ErrEvidenceOutOfRange,
				"evidence set references unknown node %q", name)
		}
	}

	active := make(map[string]int, len(set))
	var fallback []string
	for _, name := range m.EvidenceNodeNames {
		state, observed := set[name]
		if !observed {
			fallback = append(fallback, name)
			continue
		}
		ev, ok := m.Nodes[name].(*node.Evidence)
		if !ok {
			return resolvedEvidence{}, apperrors.New(apperrors.ErrInternal,
				fmt.Sprintf("node %q is declared as evidence but is not an evidence node", name))
		}
		if state < 0 || state >= len(ev.States()) {
			return resolvedEvidence{}, apperrors.Newf(apperrors.ErrEvidenceOutOfRange,
				"node %q: state %d out of range [0,%d)", name, state, len(ev.States()))
		}
		active[name] = state
	}
	return resolvedEvidence{active: active, fallback: fallback}, nil
}
