// Package model assembles and caches the per-typology Bayesian networks
// (spec.md §4.4): the model builder turns a typology's configuration into an
// immutable network of nodes, and the registry makes that construction
// idempotent and process-wide.
package model

import (
	"github.com/korinsic/surveillance-core/internal/config"
	"github.com/korinsic/surveillance-core/pkg/node"
)

// Model is one typology's immutable, fully-wired Bayesian network
// (spec.md §3.4). It is constructed once and never mutated; evidence is
// injected per inference call, not stored on the Model.
type Model struct {
	Typology        string
	UseLatentIntent bool
	Grouped         bool

	// Nodes holds every node in the network, keyed by name.
	Nodes map[string]node.Node
	// EvidenceNodeNames is the declared required evidence-node set, in
	// configuration order.
	EvidenceNodeNames []string
	// Clusters maps each evidence-node name to its declared cluster, used by
	// the ESI calculator's cross-cluster-diversity term.
	Clusters map[string]string
	// Outcome is the root risk node.
	Outcome *node.Outcome
	// RiskThresholds are the typology's severity cut points.
	RiskThresholds config.RiskThresholds
	// Weight is w_typology in the risk aggregator.
	Weight float64
}

// EvidenceNodes returns the subset of Nodes that are observable evidence
// nodes, in declaration order.
func (m *Model) EvidenceNodes() []*node.Evidence {
	out := make([]*node.Evidence, 0, len(m.EvidenceNodeNames))
	for _, name := range m.EvidenceNodeNames {
		if ev, ok := m.Nodes[name].(*node.Evidence); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Validate re-checks every node's CPT, confirming the network-wide
// invariants of spec.md §3.1 hold after construction.
func (m *Model) Validate() error {
	for _, n := range m.Nodes {
		if err := n.Validate(); err != nil {
			return err
		}
	}
	return nil
}
