package dqsi

import (
	"github.com/korinsic/surveillance-core/internal/config"
)

// Observation is what the caller knows about one KDE's value in a given
// batch: whether the field was present at all, and — where the KDE's
// comparison type calls for it — a match score against a reference/golden
// source, or a freshness score for timeliness sub-dimensions.
type Observation struct {
	Present bool
	// MatchScore is the degree of agreement with an authoritative source
	// [0,1], used by reference_table, golden_source and cross_system
	// comparison types. Nil when no such source was consulted.
	MatchScore *float64
	// Freshness is a [0,1] recency score, used by timeliness sub-dimensions
	// and by the synthetic_timeliness KDE.
	Freshness *float64
	// TrendScore is a [0,1] agreement-with-historical-trend score, used by
	// the trend comparison type.
	TrendScore *float64
}

// scoreKDE scores one KDE's observation on [0,1] according to its declared
// comparison type (spec.md §4.8). A KDE that is simply absent scores 0
// regardless of comparison type: there is nothing to compare.
func scoreKDE(kde config.KDEConfig, obs Observation) float64 {
	if !obs.Present {
		return 0
	}
	switch kde.ComparisonType {
	case "reference_table", "golden_source", "cross_system":
		if obs.MatchScore != nil {
			return clamp01(*obs.MatchScore)
		}
		return 1
	case "trend":
		if obs.TrendScore != nil {
			return clamp01(*obs.TrendScore)
		}
		return 1
	default: // "none", or unset
		return 1
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
