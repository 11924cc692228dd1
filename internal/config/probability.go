package config

import "fmt"

// ProbabilityConfig is the probability_config.yaml document (spec.md §3.3):
// the single source of truth for every prior, noisy-OR parameter, and
// outcome CPD. No inline magic numbers are permitted outside this store.
type ProbabilityConfig struct {
	// EvidenceTypePriors maps an evidence-type name (e.g. BEHAVIORAL) to its
	// default prior distribution.
	EvidenceTypePriors map[string]Distribution `mapstructure:"evidence_type_priors"`
	// EvidenceNodeTypes is the default evidence-node-name → evidence-type map,
	// overridable per model via TypologyConfig.EvidenceNodes[i].EvidenceType.
	EvidenceNodeTypes map[string]string `mapstructure:"evidence_node_types"`
	// IntermediateParams holds noisy-OR parameters keyed by canonical
	// intermediate-node type (market_impact, behavioral_intent, ...).
	IntermediateParams map[string]NoisyORParams `mapstructure:"intermediate_params"`
	// OutcomeCPDs holds the outcome CPD for each typology, conditioned on
	// intermediate (and optionally latent) states.
	OutcomeCPDs map[string]OutcomeCPD `mapstructure:"outcome_cpds"`
	// LatentIntentParams holds noisy-OR parameters for the latent-intent
	// node, keyed by typology (the latent node is typology-specific, unlike
	// the six canonical intermediate types).
	LatentIntentParams map[string]NoisyORParams `mapstructure:"latent_intent_params"`
	// ResidualSplit is the [middle, low] fraction of residual probability
	// mass assigned to the non-top states of a 3-state noisy-OR child
	// (spec.md §4.1, §9 open question 2). Defaults to [0.70, 0.30].
	ResidualSplit []float64 `mapstructure:"residual_split"`
}

// Distribution is a named probability distribution plus the audit metadata
// the explainability builder attaches to every cited number.
type Distribution struct {
	Values          []float64 `mapstructure:"values"`
	Description     string    `mapstructure:"description"`
	RegulatoryBasis string    `mapstructure:"regulatory_basis"`
}

// NoisyORParams parameterizes the noisy-OR CPT construction of spec.md §4.1.
type NoisyORParams struct {
	LeakProbability     float64   `mapstructure:"leak_probability"`
	ParentProbabilities []float64 `mapstructure:"parent_probabilities"`
	Description         string    `mapstructure:"description"`
	RegulatoryBasis     string    `mapstructure:"regulatory_basis"`
}

// OutcomeCPD is a typology's outcome CPD: a table from a comma-joined parent
// state tuple (e.g. "1,2,0") to the outcome distribution over risk levels.
type OutcomeCPD struct {
	Table map[string]Distribution `mapstructure:"table"`
}

func (p ProbabilityConfig) validate() error {
	var errs []string

	for name, d := range p.EvidenceTypePriors {
		if !sumsToOne(d.Values) {
			errs = append(errs, fmt.Sprintf("evidence type prior %q does not sum to 1.0", name))
		}
	}
	for typ, params := range p.IntermediateParams {
		if params.LeakProbability < 0 || params.LeakProbability > 1 {
			errs = append(errs, fmt.Sprintf("intermediate params %q: leak_probability out of [0,1]", typ))
		}
		if len(params.ParentProbabilities) == 0 || len(params.ParentProbabilities) > 4 {
			errs = append(errs, fmt.Sprintf("intermediate params %q: parent_probabilities length %d invalid", typ, len(params.ParentProbabilities)))
		}
		for _, pp := range params.ParentProbabilities {
			if pp < 0 || pp > 1 {
				errs = append(errs, fmt.Sprintf("intermediate params %q: parent probability out of [0,1]", typ))
				break
			}
		}
	}
	for typ, params := range p.LatentIntentParams {
		if params.LeakProbability < 0 || params.LeakProbability > 1 {
			errs = append(errs, fmt.Sprintf("latent intent params %q: leak_probability out of [0,1]", typ))
		}
		if len(params.ParentProbabilities) == 0 || len(params.ParentProbabilities) > 4 {
			errs = append(errs, fmt.Sprintf("latent intent params %q: parent_probabilities length %d invalid", typ, len(params.ParentProbabilities)))
		}
	}
	for typology, cpd := range p.OutcomeCPDs {
		for key, d := range cpd.Table {
			if !sumsToOne(d.Values) {
				errs = append(errs, fmt.Sprintf("outcome cpd %q column %q does not sum to 1.0", typology, key))
			}
		}
	}
	if len(p.ResidualSplit) != 0 {
		if len(p.ResidualSplit) != 2 || !sumsToOne(p.ResidualSplit) {
			errs = append(errs, "residual_split must be a 2-element distribution summing to 1.0")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	msg := "probability config invalid:"
	for _, e := range errs {
		msg += "\n  - " + e
	}
	return fmt.Errorf("%s", msg)
}

// ResidualSplitOrDefault returns the configured residual split, defaulting
// to the canonical 70/30 convention of spec.md §4.1 when unset.
func (p ProbabilityConfig) ResidualSplitOrDefault() (middle, low float64) {
	if len(p.ResidualSplit) == 2 {
		return p.ResidualSplit[0], p.ResidualSplit[1]
	}
	return 0.70, 0.30
}
