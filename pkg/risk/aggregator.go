// Package risk combines per-typology inference posteriors, their ESI and
// DQSI, and contextual multipliers into an overall risk score and a set of
// per-typology alert severities (spec.md §4.9).
package risk

import (
	"github.com/korinsic/surveillance-core/pkg/dqsi"
	"github.com/korinsic/surveillance-core/pkg/esi"
)

// Severity is one of the four alert severity levels (spec.md §3.8).
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// minMultiplier and maxMultiplier bound every contextual multiplier
// (spec.md §4.9: "contextual multipliers ... bounded to [0.5, 2.0]").
const minMultiplier = 0.5
const maxMultiplier = 2.0

// Input is one typology's contribution to the aggregate risk computation.
type Input struct {
	Typology string
	// OutcomePosterior is the typology's outcome distribution; its last
	// element is posterior[top].
	OutcomePosterior []float64
	// Weight is w_typology, the typology's configured aggregation weight.
	Weight float64
	// Multipliers are contextual multipliers (role, volume, timeframe,
	// market conditions); each is clamped to [0.5, 2.0] before use.
	Multipliers []float64
	// NewsContextFactor is the news-context suppression factor: 0.5 when a
	// material event fully explains the observed move, 0.75 when it
	// partially explains it, 1.0 when unexplained (spec.md §4.9 step 3).
	// Defaults to 1.0 (unexplained) if left zero.
	NewsContextFactor float64

	ESI  esi.Result
	DQSI dqsi.Result
}

// TypologyResult is one typology's contribution to the aggregate, with its
// own severity determination (spec.md §3.8 alert fields).
type TypologyResult struct {
	Typology      string
	RawRisk       float64 // posterior[top], before weighting
	AdjustedRisk  float64 // ESI-adjusted: raw_risk * ESI (spec.md §4.7)
	Weighted      float64 // raw_risk * w_typology * Π multipliers * news factor
	Severity      Severity
	LowConfidence bool // DQSI trust_bucket == Low
}

// Result is the aggregator's output (spec.md §4.9).
type Result struct {
	Typologies      []TypologyResult
	OverallRisk     float64
	OverallSeverity Severity
}

func clampMultiplier(m float64) float64 {
	if m < minMultiplier {
		return minMultiplier
	}
	if m > maxMultiplier {
		return maxMultiplier
	}
	return m
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

// severityFor maps a risk value to its severity band (spec.md §4.9 step 4:
// "low<0.3, medium<0.5, high<0.7, else critical").
func severityFor(value float64) Severity {
	switch {
	case value < 0.3:
		return SeverityLow
	case value < 0.5:
		return SeverityMedium
	case value < 0.7:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// Aggregate computes the overall risk result across every typology input
// (spec.md §4.9).
func Aggregate(inputs []Input) Result {
	typologies := make([]TypologyResult, 0, len(inputs))
	var sumWeighted, sumWeight float64

	for _, in := range inputs {
		rawRisk := 0.0
		if len(in.OutcomePosterior) > 0 {
			rawRisk = in.OutcomePosterior[len(in.OutcomePosterior)-1]
		}

		product := 1.0
		for _, m := range in.Multipliers {
			product *= clampMultiplier(m)
		}

		newsFactor := in.NewsContextFactor
		if newsFactor == 0 {
			newsFactor = 1.0
		}

		weighted := rawRisk * in.Weight * product * newsFactor
		adjustedRisk := rawRisk * in.ESI.EvidenceSufficiencyIndex

		severity := severityFor(weighted)
		lowConfidence := in.DQSI.TrustBucket == "Low"
		// Gate: a DQSI-Low alert is never escalated to critical unless
		// ESI is Strong (spec.md §4.9 step 5).
		if lowConfidence && severity == SeverityCritical && in.ESI.ESIBadge != "Strong" {
			severity = SeverityHigh
		}

		typologies = append(typologies, TypologyResult{
			Typology:      in.Typology,
			RawRisk:       rawRisk,
			AdjustedRisk:  adjustedRisk,
			Weighted:      weighted,
			Severity:      severity,
			LowConfidence: lowConfidence,
		})

		sumWeighted += weighted
		sumWeight += in.Weight
	}

	overall := 0.0
	if sumWeight > 0 {
		overall = clamp01(sumWeighted / sumWeight)
	}

	return Result{
		Typologies:      typologies,
		OverallRisk:     overall,
		OverallSeverity: severityFor(overall),
	}
}
