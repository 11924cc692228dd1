package explain

import (
	"sort"
	"strings"
	"time"

	"github.com/korinsic/surveillance-core/internal/config"
	"github.com/korinsic/surveillance-core/pkg/inference"
	"github.com/korinsic/surveillance-core/pkg/model"
	"github.com/korinsic/surveillance-core/pkg/node"
	"github.com/korinsic/surveillance-core/pkg/probability"
)

// InferencePath is one active node's structured contribution to the
// explanation (spec.md §4.10: "for each active node: state, probability,
// contribution, confidence, regulatory tag").
type InferencePath struct {
	NodeName      string
	StateName     string
	Probability   float64
	Contribution  float64
	Confidence    float64
	RegulatoryTag string
}

// AuditHeader is the audit metadata attached to every explanation
// (spec.md §4.10).
type AuditHeader struct {
	ModelName           string
	ModelVersion        string
	ConfigVersion       string
	ProcessingTimestamp time.Time
	DataSourceIDs       []string
	TraceID             string
}

// Explanation is the full output of the explainability builder.
type Explanation struct {
	Narrative string
	Paths     []InferencePath
	// CrossReferences maps a node name to its integer index into Paths, for
	// O(1) lookup without string-joined keys (spec.md §4.10).
	CrossReferences map[string]int
	AuditHeader     AuditHeader
}

// Build composes the explanation for one inference trace (spec.md §4.10).
// cfg is the typology's own configuration, used to resolve each evidence
// node's declared evidence_type for regulatory-tag lookup.
func Build(m *model.Model, cfg config.TypologyConfig, store *probability.Store, tr *inference.Trace, templates Templates, header AuditHeader) Explanation {
	evidenceTypeByName := make(map[string]string, len(cfg.EvidenceNodes))
	for _, ec := range cfg.EvidenceNodes {
		evidenceTypeByName[ec.Name] = ec.EvidenceType
	}

	activeSet := make(map[string]bool, len(tr.ActiveNodes))
	for _, name := range tr.ActiveNodes {
		activeSet[name] = true
	}

	names := make([]string, 0, len(tr.ActiveNodes))
	names = append(names, tr.ActiveNodes...)
	sort.Strings(names)

	paths := make([]InferencePath, 0, len(names))
	crossRefs := make(map[string]int, len(names))
	var sentences []string

	for _, name := range names {
		rec, ok := tr.Nodes[name]
		if !ok {
			continue
		}
		n := m.Nodes[name]
		states := n.States()
		stateName := states[rec.ObservedState]

		tag := regulatoryTag(m, store, evidenceTypeByName, name, n)
		paths = append(paths, InferencePath{
			NodeName:      name,
			StateName:     stateName,
			Probability:   rec.Posterior[rec.ObservedState],
			Contribution:  rec.ContributionWeight,
			Confidence:    rec.Confidence,
			RegulatoryTag: tag,
		})
		crossRefs[name] = len(paths) - 1
		sentences = append(sentences, templates.SentenceFor(name, rec.ObservedState, stateName))
	}

	return Explanation{
		Narrative:       strings.Join(sentences, " "),
		Paths:           paths,
		CrossReferences: crossRefs,
		AuditHeader:     header,
	}
}

// regulatoryTag resolves the regulatory-basis annotation for a node
// (spec.md §4.10). Evidence and intermediate/latent-intent nodes each carry
// one configured tag; the outcome node's CPD is annotated per parent-state
// column rather than as a whole, so it has no single attributable tag here.
func regulatoryTag(m *model.Model, store *probability.Store, evidenceTypes map[string]string, name string, n node.Node) string {
	switch n.Kind() {
	case node.KindEvidence:
		evidenceType := evidenceTypes[name]
		if evidenceType == "" {
			return ""
		}
		_, tag, ok := store.DescriptionFor(evidenceType)
		if !ok {
			return ""
		}
		return tag
	case node.KindIntermediate:
		im, ok := n.(*node.Intermediate)
		if !ok {
			return ""
		}
		tag, _ := store.IntermediateRegulatoryBasis(im.Type())
		return tag
	case node.KindLatentIntent:
		tag, _ := store.LatentIntentRegulatoryBasis(m.Typology)
		return tag
	default:
		return ""
	}
}
