// Package probability exposes the process-wide, immutable probability
// configuration store (spec.md §3.3, §4.2): evidence priors, noisy-OR
// parameters, and outcome CPDs, each keyed the way the registry and node
// library need to consume them.
package probability

import (
	"fmt"
	"math"

	"github.com/korinsic/surveillance-core/internal/apperrors"
	"github.com/korinsic/surveillance-core/internal/config"
	"github.com/korinsic/surveillance-core/pkg/node"
)

const tolerance = 1e-6

// Store is the immutable, process-wide probability configuration. It is
// constructed once at startup from the loaded config.ProbabilityConfig and
// never mutated afterward; concurrent reads are always safe.
type Store struct {
	cfg config.ProbabilityConfig
}

// New wraps a loaded probability configuration document.
func New(cfg config.ProbabilityConfig) *Store {
	return &Store{cfg: cfg}
}

// GetEvidenceCPD resolves an evidence node's marginal distribution. override
// is the typology-specific evidence_type the owning model declared for this
// node name (may be empty, in which case the process-wide default map is
// used). cardinality is the node's declared state count, validated against
// the resolved prior's dimensionality.
func (s *Store) GetEvidenceCPD(nodeName, override string, cardinality int) ([]float64, error) {
	evidenceType := override
	if evidenceType == "" {
		evidenceType = s.cfg.EvidenceNodeTypes[nodeName]
	}
	if evidenceType == "" {
		return nil, apperrors.New(apperrors.ErrConfigInvalid,
			fmt.Sprintf("no evidence_type mapping for node %q", nodeName))
	}
	dist, ok := s.cfg.EvidenceTypePriors[evidenceType]
	if !ok {
		return nil, apperrors.New(apperrors.ErrConfigInvalid,
			fmt.Sprintf("no prior configured for evidence_type %q (node %q)", evidenceType, nodeName))
	}
	if len(dist.Values) != cardinality {
		return nil, apperrors.New(apperrors.ErrConfigInvalid,
			fmt.Sprintf("evidence_type %q prior has %d states, node %q declares %d", evidenceType, len(dist.Values), nodeName, cardinality))
	}
	if !sumsToOne(dist.Values) {
		return nil, apperrors.New(apperrors.ErrConfigInvalid,
			fmt.Sprintf("evidence_type %q prior does not sum to 1.0", evidenceType))
	}
	return dist.Values, nil
}

// GetIntermediateParams resolves the noisy-OR parameters for one of the six
// canonical intermediate types, applying the process-wide residual split.
func (s *Store) GetIntermediateParams(itype node.IntermediateType) (node.NoisyORParams, error) {
	params, ok := s.cfg.IntermediateParams[string(itype)]
	if !ok {
		return node.NoisyORParams{}, apperrors.New(apperrors.ErrConfigInvalid,
			fmt.Sprintf("no noisy-OR parameters configured for intermediate type %q", itype))
	}
	middle, low := s.cfg.ResidualSplitOrDefault()
	return node.NoisyORParams{
		LeakProbability:     params.LeakProbability,
		ParentProbabilities: params.ParentProbabilities,
		ResidualMiddle:      middle,
		ResidualLow:         low,
	}, nil
}

// GetLatentIntentParams resolves the noisy-OR parameters for a typology's
// latent-intent node, applying the process-wide residual split.
func (s *Store) GetLatentIntentParams(typology string) (node.NoisyORParams, error) {
	params, ok := s.cfg.LatentIntentParams[typology]
	if !ok {
		return node.NoisyORParams{}, apperrors.New(apperrors.ErrConfigInvalid,
			fmt.Sprintf("no latent-intent noisy-OR parameters configured for typology %q", typology))
	}
	middle, low := s.cfg.ResidualSplitOrDefault()
	return node.NoisyORParams{
		LeakProbability:     params.LeakProbability,
		ParentProbabilities: params.ParentProbabilities,
		ResidualMiddle:      middle,
		ResidualLow:         low,
	}, nil
}

// GetOutcomeCPD resolves a typology's outcome CPD as a node.CPT, ready to
// hand to node.NewOutcome.
func (s *Store) GetOutcomeCPD(typology string) (node.CPT, error) {
	cpd, ok := s.cfg.OutcomeCPDs[typology]
	if !ok {
		return node.CPT{}, apperrors.New(apperrors.ErrConfigInvalid,
			fmt.Sprintf("no outcome CPD configured for typology %q", typology))
	}
	columns := make(map[string][]float64, len(cpd.Table))
	for key, dist := range cpd.Table {
		if !sumsToOne(dist.Values) {
			return node.CPT{}, apperrors.New(apperrors.ErrConfigInvalid,
				fmt.Sprintf("typology %q: outcome CPD column %q does not sum to 1.0", typology, key))
		}
		columns[key] = dist.Values
	}
	return node.CPT{Columns: columns}, nil
}

// DescriptionFor returns the human-readable description and regulatory-basis
// tag for an evidence-type prior, used by the explainability builder.
func (s *Store) DescriptionFor(evidenceType string) (description, regulatoryBasis string, ok bool) {
	dist, found := s.cfg.EvidenceTypePriors[evidenceType]
	if !found {
		return "", "", false
	}
	return dist.Description, dist.RegulatoryBasis, true
}

// IntermediateRegulatoryBasis returns the regulatory-basis tag configured
// for a canonical intermediate type, used by the explainability builder.
func (s *Store) IntermediateRegulatoryBasis(itype node.IntermediateType) (regulatoryBasis string, ok bool) {
	params, found := s.cfg.IntermediateParams[string(itype)]
	if !found {
		return "", false
	}
	return params.RegulatoryBasis, true
}

// LatentIntentRegulatoryBasis returns the regulatory-basis tag configured
// for a typology's latent-intent node.
func (s *Store) LatentIntentRegulatoryBasis(typology string) (regulatoryBasis string, ok bool) {
	params, found := s.cfg.LatentIntentParams[typology]
	if !found {
		return "", false
	}
	return params.RegulatoryBasis, true
}

// OutcomeRegulatoryBasis returns the regulatory-basis tag configured for one
// column (parent-state tuple key) of a typology's outcome CPD.
func (s *Store) OutcomeRegulatoryBasis(typology, key string) (regulatoryBasis string, ok bool) {
	cpd, found := s.cfg.OutcomeCPDs[typology]
	if !found {
		return "", false
	}
	dist, found := cpd.Table[key]
	if !found {
		return "", false
	}
	return dist.RegulatoryBasis, true
}

func sumsToOne(values []float64) bool {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return math.Abs(sum-1.0) <= tolerance
}
