package model

import (
	"fmt"

	"github.com/korinsic/surveillance-core/internal/apperrors"
	"github.com/korinsic/surveillance-core/internal/config"
	"github.com/korinsic/surveillance-core/pkg/node"
	"github.com/korinsic/surveillance-core/pkg/probability"
)

// OutcomeStates are the ordinal risk levels shared by every typology's
// outcome node (spec.md §3.8 alert severity).
var OutcomeStates = []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}

// evidenceStateNames returns {Low, High} or {Low, Medium, High} for a 2- or
// 3-state evidence node, and a generic {State0, State1, ...} label set for
// any other cardinality. The mapper functions reason
// about these purely as integer indices; the names exist for explanation and
// audit output.
func evidenceStateNames(n int) []string {
	names := make([]string, n)
	switch n {
	case 2:
		names = []string{"Low", "High"}
	case 3:
		names = []string{"Low", "Medium", "High"}
	default:
		for i := range names {
			names[i] = fmt.Sprintf("State%d", i)
		}
	}
	return names
}

// intermediateStates is the canonical 3-state set every intermediate,
// latent-intent node uses (spec.md §3.1 "typically 3").
var intermediateStates = []string{"Low", "Medium", "High"}

// BuildOptions selects which structural variant to construct (spec.md §3.4,
// §4.4).
type BuildOptions struct {
	UseLatentIntent bool
	Grouped         bool
}

// Build assembles an immutable Model for typology from its configuration.
func Build(typology string, cfg config.TypologyConfig, store *probability.Store, opts BuildOptions) (*Model, error) {
	nodes := make(map[string]node.Node, len(cfg.EvidenceNodes)+4)
	clusters := make(map[string]string, len(cfg.EvidenceNodes))
	evidenceNames := make([]string, 0, len(cfg.EvidenceNodes))

	for _, ec := range cfg.EvidenceNodes {
		prior, err := store.GetEvidenceCPD(ec.Name, ec.EvidenceType, ec.States)
		if err != nil {
			return nil, err
		}
		ev, err := node.NewEvidence(ec.Name, evidenceStateNames(ec.States), prior)
		if err != nil {
			return nil, err
		}
		nodes[ec.Name] = ev
		clusters[ec.Name] = ec.Cluster
		evidenceNames = append(evidenceNames, ec.Name)
	}

	intermediateConfigs := cfg.Intermediates
	if opts.Grouped {
		if cfg.Grouped == nil {
			return nil, apperrors.New(apperrors.ErrModelUnknown,
				fmt.Sprintf("typology %q: grouped build requested but not configured", typology))
		}
		intermediateConfigs = cfg.Grouped.Aggregators
	}

	intermediateNames := make([]string, 0, len(intermediateConfigs))
	for _, ic := range intermediateConfigs {
		params, err := store.GetIntermediateParams(node.IntermediateType(ic.Type))
		if err != nil {
			return nil, err
		}
		parents, err := lookupParents(nodes, ic.Parents)
		if err != nil {
			return nil, err
		}
		im, err := node.NewIntermediate(ic.Type, node.IntermediateType(ic.Type), intermediateStates, ic.Parents, []string{typology}, params)
		if err != nil {
			return nil, err
		}
		if err := im.SetParents(parents); err != nil {
			return nil, err
		}
		nodes[ic.Type] = im
		intermediateNames = append(intermediateNames, ic.Type)
	}

	outcomeParents := intermediateNames
	if opts.UseLatentIntent {
		if len(cfg.LatentParents) == 0 {
			return nil, apperrors.New(apperrors.ErrModelUnknown,
				fmt.Sprintf("typology %q: latent-intent build requested but no latent_parents configured", typology))
		}
		latentParams, err := store.GetLatentIntentParams(typology)
		if err != nil {
			return nil, err
		}
		latentParentNodes, err := lookupParents(nodes, cfg.LatentParents)
		if err != nil {
			return nil, err
		}
		latentName := typology + "_latent_intent"
		latent, err := node.NewLatentIntent(latentName, intermediateStates, cfg.LatentParents, latentParams)
		if err != nil {
			return nil, err
		}
		if err := latent.SetParents(latentParentNodes); err != nil {
			return nil, err
		}
		nodes[latentName] = latent
		outcomeParents = append(append([]string{}, intermediateNames...), latentName)
	}

	if len(outcomeParents) == 0 || len(outcomeParents) > 4 {
		return nil, apperrors.New(apperrors.ErrModelUnknown,
			fmt.Sprintf("typology %q: outcome node fan-in %d out of bounds", typology, len(outcomeParents)))
	}

	table, err := store.GetOutcomeCPD(typology)
	if err != nil {
		return nil, err
	}
	outcomeName := typology + "_outcome"
	outcome, err := node.NewOutcome(outcomeName, OutcomeStates, outcomeParents, table)
	if err != nil {
		return nil, err
	}
	outcomeParentNodes, err := lookupParents(nodes, outcomeParents)
	if err != nil {
		return nil, err
	}
	if err := outcome.SetParents(outcomeParentNodes); err != nil {
		return nil, err
	}
	nodes[outcomeName] = outcome

	m := &Model{
		Typology:          typology,
		UseLatentIntent:   opts.UseLatentIntent,
		Grouped:           opts.Grouped,
		Nodes:             nodes,
		EvidenceNodeNames: evidenceNames,
		Clusters:          clusters,
		Outcome:           outcome,
		RiskThresholds:    cfg.RiskThresholds,
		Weight:            cfg.Weight,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func lookupParents(nodes map[string]node.Node, names []string) ([]node.Node, error) {
	out := make([]node.Node, len(names))
	for i, name := range names {
		n, ok := nodes[name]
		if !ok {
			return nil, apperrors.New(apperrors.ErrModelUnknown,
				fmt.Sprintf("parent node %q not yet constructed", name))
		}
		out[i] = n
	}
	return out, nil
}
