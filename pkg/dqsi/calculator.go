package dqsi

import (
	"sort"

	"github.com/korinsic/surveillance-core/internal/config"
)

// Strategy selects which KDE-scoring strategy to run (spec.md §4.8).
type Strategy string

const (
	// StrategyFallback scores foundational-tier KDEs only, restricted to the
	// {none, reference_table} comparison types. Used when no role/HR context
	// is available.
	StrategyFallback Strategy = "fallback"
	// StrategyRoleAware scores every tier, with comparison-type coverage
	// selected by the caller's role profile.
	StrategyRoleAware Strategy = "role_aware"
)

// Options parameterizes one DQSI calculation.
type Options struct {
	Strategy Strategy
	// Role selects a RoleProfile under StrategyRoleAware. A role absent from
	// config.DQSIConfig.RoleProfiles (including the empty string) is treated
	// as an implicit default consumer profile with full comparison-type
	// coverage, rather than degrading to StrategyFallback (spec.md §9 open
	// question 4) — a caller that opted into role-aware scoring is assumed
	// to want full tier coverage even without a named profile.
	Role string
	// ImputedRate is the fraction of scored KDEs whose value was filled in
	// by imputation rather than read from the raw batch, in [0,1].
	ImputedRate float64
	// TimestampKDEs lists the KDE names synthetic_timeliness averages over.
	TimestampKDEs []string
	// VolumeRatioScore and ScopeRatioScore feed synthetic_coverage.
	VolumeRatioScore float64
	ScopeRatioScore  float64
}

// Result is the DQSI output of spec.md §3.7.
type Result struct {
	Score           float64
	ConfidenceIndex float64
	TrustBucket     string // High, Moderate, Low
	PerKDEScores    map[string]float64
	MissingCritical []string
	SyntheticScores map[string]float64
}

func riskWeight(tier string) float64 {
	switch tier {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

// syntheticRiskTier is the risk tier assigned to both injected synthetic
// KDEs: medium, since they summarize other KDEs rather than carrying their
// own independent criticality.
const syntheticRiskTier = "medium"

// Calculate computes the DQSI result for one batch's worth of KDE
// observations (spec.md §4.8).
func Calculate(cfg config.DQSIConfig, observations map[string]Observation, opts Options) *Result {
	allowedTypes := allowedComparisonTypes(cfg, opts)

	perKDE := make(map[string]float64, len(cfg.KDEs)+2)
	var numerator, denominator float64

	for name, kde := range cfg.KDEs {
		if opts.Strategy == StrategyFallback && KDETier(kde.SubDimensions) != TierFoundational {
			continue
		}
		if !allowedTypes[kde.ComparisonType] {
			continue
		}
		score := scoreKDE(kde, observations[name])
		perKDE[name] = score
		w := riskWeight(kde.RiskTier) * KDETier(kde.SubDimensions).weight()
		numerator += score * w
		denominator += w
	}

	synthetic := map[string]float64{}
	if ts, ok := syntheticTimeliness(observations, opts.TimestampKDEs); ok {
		synthetic["synthetic_timeliness"] = ts
		w := riskWeight(syntheticRiskTier) * TierFoundational.weight()
		numerator += ts * w
		denominator += w
	}
	sc := syntheticCoverage(opts.VolumeRatioScore, opts.ScopeRatioScore)
	synthetic["synthetic_coverage"] = sc
	{
		w := riskWeight(syntheticRiskTier) * TierFoundational.weight()
		numerator += sc * w
		denominator += w
	}

	score := 0.0
	if denominator > 0 {
		score = numerator / denominator
	}

	var missingCritical []string
	anyCriticalMissing := false
	anyCriticalBelowHalf := false
	for _, name := range cfg.CriticalKDENames() {
		obs, present := observations[name]
		if !present || !obs.Present {
			missingCritical = append(missingCritical, name)
			anyCriticalMissing = true
			anyCriticalBelowHalf = true
			continue
		}
		if kde, ok := cfg.KDEs[name]; ok {
			if scoreKDE(kde, obs) < 0.5 {
				anyCriticalBelowHalf = true
			}
		}
	}
	sort.Strings(missingCritical)
	if anyCriticalBelowHalf && score > 0.75 {
		score = 0.75
	}

	base := 0.7
	modeModifier := 1.0
	if opts.Strategy == StrategyRoleAware {
		base = 0.9
		if _, ok := cfg.RoleProfiles[opts.Role]; !ok {
			modeModifier = 0.95
		}
	}
	imputedRate := clamp01(opts.ImputedRate)
	criticalFactor := 1.0
	if anyCriticalMissing {
		criticalFactor = 0.85
	}
	confidence := base * modeModifier * (1 - 0.5*imputedRate) * criticalFactor

	high, moderate := cfg.TrustBucketThresholds.High, cfg.TrustBucketThresholds.Moderate
	if opts.Strategy == StrategyRoleAware {
		if profile, ok := cfg.RoleProfiles[opts.Role]; ok {
			high, moderate = profile.HighThreshold, profile.ModerateThreshold
		}
	}
	bucket := "Low"
	switch {
	case confidence >= high:
		bucket = "High"
	case confidence >= moderate:
		bucket = "Moderate"
	}

	return &Result{
		Score:           score,
		ConfidenceIndex: confidence,
		TrustBucket:     bucket,
		PerKDEScores:    perKDE,
		MissingCritical: missingCritical,
		SyntheticScores: synthetic,
	}
}

func allowedComparisonTypes(cfg config.DQSIConfig, opts Options) map[string]bool {
	if opts.Strategy == StrategyFallback {
		return map[string]bool{"none": true, "reference_table": true, "": true}
	}
	if profile, ok := cfg.RoleProfiles[opts.Role]; ok && len(profile.ComparisonTypes) > 0 {
		allowed := make(map[string]bool, len(profile.ComparisonTypes))
		for _, t := range profile.ComparisonTypes {
			allowed[t] = true
		}
		allowed[""] = true
		return allowed
	}
	return map[string]bool{
		"none": true, "reference_table": true, "golden_source": true,
		"cross_system": true, "trend": true, "": true,
	}
}
