package config

import "fmt"

// ModelsConfig is the bayesian_models.yaml document: per-typology node sets,
// edges (expressed as the evidence/latent parent lists below), fallback
// priors, and risk thresholds (spec.md §6.3).
type ModelsConfig struct {
	Typologies map[string]TypologyConfig `mapstructure:"typologies"`
}

// TypologyConfig describes one named Bayesian network (spec.md §3.4).
type TypologyConfig struct {
	// EvidenceNodes is the declared required evidence-node set.
	EvidenceNodes []EvidenceNodeConfig `mapstructure:"evidence_nodes"`
	// Intermediates names which of the six canonical intermediate types this
	// typology's baseline build uses, and which evidence nodes parent each.
	Intermediates []IntermediateConfig `mapstructure:"intermediates"`
	// LatentParents is the evidence-node subset that parents the latent-intent
	// node when use_latent_intent is requested. Empty means the typology has
	// no latent-intent variant.
	LatentParents []string `mapstructure:"latent_parents"`
	// Grouped, if set, defines the performance build from spec.md §4.4.
	Grouped        *GroupedConfig `mapstructure:"grouped"`
	RiskThresholds RiskThresholds `mapstructure:"risk_thresholds"`
	// Weight is w_typology in the risk aggregator (spec.md §4.9).
	Weight float64 `mapstructure:"weight"`
}

// EvidenceNodeConfig is one evidence node's static declaration.
type EvidenceNodeConfig struct {
	Name         string `mapstructure:"name"`
	States       int    `mapstructure:"states"`
	EvidenceType string `mapstructure:"evidence_type"`
	Cluster      string `mapstructure:"cluster"`
}

// IntermediateConfig binds one of the six canonical intermediate types to a
// parent list for a given typology's baseline build.
type IntermediateConfig struct {
	Type    string   `mapstructure:"type"`
	Parents []string `mapstructure:"parents"`
}

// GroupedConfig is the grouped (fan-in-reducing) build: it aggregates
// evidence into fewer intermediates before the outcome/latent node.
type GroupedConfig struct {
	Aggregators []IntermediateConfig `mapstructure:"aggregators"`
}

// RiskThresholds are the per-typology severity cut points (spec.md §4.9 step 4).
type RiskThresholds struct {
	Low    float64 `mapstructure:"low"`
	Medium float64 `mapstructure:"medium"`
	High   float64 `mapstructure:"high"`
}

func (m ModelsConfig) validate() error {
	if len(m.Typologies) == 0 {
		return fmt.Errorf("bayesian models config: no typologies declared")
	}
	var errs []string
	for name, t := range m.Typologies {
		if len(t.EvidenceNodes) == 0 {
			errs = append(errs, fmt.Sprintf("typology %q: no evidence nodes declared", name))
			continue
		}
		seen := make(map[string]bool, len(t.EvidenceNodes))
		for _, n := range t.EvidenceNodes {
			if n.Name == "" {
				errs = append(errs, fmt.Sprintf("typology %q: evidence node with empty name", name))
				continue
			}
			if n.States < 2 {
				errs = append(errs, fmt.Sprintf("typology %q: evidence node %q declares fewer than 2 states", name, n.Name))
			}
			if seen[n.Name] {
				errs = append(errs, fmt.Sprintf("typology %q: duplicate evidence node %q", name, n.Name))
			}
			seen[n.Name] = true
		}
		for _, im := range t.Intermediates {
			if len(im.Parents) == 0 || len(im.Parents) > 4 {
				errs = append(errs, fmt.Sprintf("typology %q: intermediate %q has invalid fan-in %d", name, im.Type, len(im.Parents)))
			}
		}
		if t.Grouped != nil {
			for _, agg := range t.Grouped.Aggregators {
				if len(agg.Parents) == 0 || len(agg.Parents) > 4 {
					errs = append(errs, fmt.Sprintf("typology %q: grouped aggregator %q has invalid fan-in %d", name, agg.Type, len(agg.Parents)))
				}
			}
		}
		if len(t.LatentParents) > 4 {
			errs = append(errs, fmt.Sprintf("typology %q: latent node fan-in %d exceeds 4", name, len(t.LatentParents)))
		}
		if !(t.RiskThresholds.Low < t.RiskThresholds.Medium && t.RiskThresholds.Medium < t.RiskThresholds.High) {
			errs = append(errs, fmt.Sprintf("typology %q: risk thresholds must be strictly increasing low<medium<high", name))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	msg := "bayesian models config invalid:"
	for _, e := range errs {
		msg += "\n  - " + e
	}
	return fmt.Errorf("%s", msg)
}
