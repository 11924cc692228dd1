// Package dqsi computes the Data Quality Sufficiency Index (spec.md §3.7,
// §4.8): a KDE-level data-quality score, a confidence index derived from it,
// and a role-aware trust bucket.
package dqsi

// Tier is one of the two KDE-scoring tiers (spec.md §4.8).
type Tier string

const (
	TierFoundational Tier = "foundational"
	TierEnhanced     Tier = "enhanced"
)

// tierWeight is the weight a sub-dimension's tier contributes to DQSI_Score
// (spec.md §4.8: "tier_weight = 1.0 for foundational, 0.75 for enhanced").
func (t Tier) weight() float64 {
	if t == TierEnhanced {
		return 0.75
	}
	return 1.0
}

// Dimension is one of the seven data-quality dimensions (spec.md §4.8).
type Dimension string

const (
	DimensionCompleteness Dimension = "completeness"
	DimensionConformity   Dimension = "conformity"
	DimensionTimeliness   Dimension = "timeliness"
	DimensionCoverage     Dimension = "coverage"
	DimensionAccuracy     Dimension = "accuracy"
	DimensionUniqueness   Dimension = "uniqueness"
	DimensionConsistency  Dimension = "consistency"
)

func (d Dimension) tier() Tier {
	switch d {
	case DimensionAccuracy, DimensionUniqueness, DimensionConsistency:
		return TierEnhanced
	default:
		return TierFoundational
	}
}

// subDimensionDimension maps each of the canonical 20 sub-dimensions (17
// foundational + 3 enhanced, spec.md §4.8) to its owning dimension. Names
// outside this catalog are not rejected; they count as foundational.
var subDimensionDimension = map[string]Dimension{
	// completeness (5)
	"field_completeness":        DimensionCompleteness,
	"record_completeness":       DimensionCompleteness,
	"population_completeness":   DimensionCompleteness,
	"temporal_completeness":     DimensionCompleteness,
	"cross_source_completeness": DimensionCompleteness,
	// conformity (5)
	"type_conformity":        DimensionConformity,
	"format_conformity":      DimensionConformity,
	"range_conformity":       DimensionConformity,
	"enumeration_conformity": DimensionConformity,
	"pattern_conformity":     DimensionConformity,
	// timeliness (4)
	"ingestion_timeliness":  DimensionTimeliness,
	"processing_timeliness": DimensionTimeliness,
	"freshness_timeliness":  DimensionTimeliness,
	"latency_timeliness":    DimensionTimeliness,
	// coverage (3)
	"source_coverage": DimensionCoverage,
	"scope_coverage":  DimensionCoverage,
	"volume_coverage": DimensionCoverage,
	// enhanced (3)
	"accuracy_score":    DimensionAccuracy,
	"uniqueness_score":  DimensionUniqueness,
	"consistency_score": DimensionConsistency,
}

// TierOf resolves a declared sub-dimension name to its tier. Unknown
// sub-dimension names are treated as foundational, the more conservative
// (heavier-weighted) default.
func TierOf(subDimension string) Tier {
	if d, ok := subDimensionDimension[subDimension]; ok {
		return d.tier()
	}
	return TierFoundational
}

// KDETier resolves a KDE's overall tier from its declared sub-dimensions: a
// KDE is enhanced-tier only if every one of its sub-dimensions is
// enhanced-tier, otherwise foundational. This keeps KDEs that straddle both
// tiers on the heavier foundational weight rather than silently discounting
// them (an interpretive choice where spec.md is silent on mixed-tier KDEs).
func KDETier(subDimensions []string) Tier {
	if len(subDimensions) == 0 {
		return TierFoundational
	}
	for _, sd := range subDimensions {
		if TierOf(sd) == TierFoundational {
			return TierFoundational
		}
	}
	return TierEnhanced
}
