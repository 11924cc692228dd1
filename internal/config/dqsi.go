package config

import "fmt"

// DQSIConfig is the dqsi_config.yaml document (spec.md §4.8, §6.3): KDE
// tiers, the critical-flag set, the comparison-type matrix, role profiles,
// and the trust-bucket thresholds.
type DQSIConfig struct {
	KDEs                  map[string]KDEConfig   `mapstructure:"kdes"`
	RoleProfiles          map[string]RoleProfile `mapstructure:"role_profiles"`
	TrustBucketThresholds TrustThresholds        `mapstructure:"trust_bucket_thresholds"`
	// CriticalKDEs is the critical-KDE name set (spec.md §9 open question 3).
	// Each listed name must be a declared KDE. The effective critical set
	// is the union of this list and the KDEs flagged Critical=true.
	CriticalKDEs []string `mapstructure:"critical_kdes"`
}

// KDEConfig is one Key Data Element's static declaration (spec.md §3.7).
type KDEConfig struct {
	// RiskTier is one of "high" (3), "medium" (2), "low" (1).
	RiskTier string `mapstructure:"risk_tier"`
	Critical bool   `mapstructure:"critical"`
	// SubDimensions is the applicable sub-dimension set out of the 17
	// foundational + 3 enhanced dimensions (spec.md §4.8).
	SubDimensions []string `mapstructure:"sub_dimensions"`
	// ComparisonType is the scoring method used for this KDE: one of none,
	// reference_table, golden_source, cross_system, trend.
	ComparisonType string `mapstructure:"comparison_type"`
}

// RoleProfile shifts the trust-bucket thresholds for a named consumer role
// (spec.md §4.8: "analyst 0.85/0.65 ... auditor 0.92/0.75").
type RoleProfile struct {
	HighThreshold     float64  `mapstructure:"high_threshold"`
	ModerateThreshold float64  `mapstructure:"moderate_threshold"`
	ComparisonTypes   []string `mapstructure:"comparison_types"`
}

// TrustThresholds are the default (role-absent) trust-bucket cut points.
type TrustThresholds struct {
	High     float64 `mapstructure:"high"`
	Moderate float64 `mapstructure:"moderate"`
}

var validRiskTiers = map[string]bool{"high": true, "medium": true, "low": true}

var validComparisonTypes = map[string]bool{
	"none": true, "reference_table": true, "golden_source": true,
	"cross_system": true, "trend": true,
}

func (d DQSIConfig) validate() error {
	var errs []string

	if len(d.KDEs) == 0 {
		errs = append(errs, "no KDEs declared")
	}
	criticalSet := make(map[string]bool, len(d.CriticalKDEs))
	for _, name := range d.CriticalKDEs {
		criticalSet[name] = true
	}
	for name, kde := range d.KDEs {
		if !validRiskTiers[kde.RiskTier] {
			errs = append(errs, fmt.Sprintf("kde %q: invalid risk_tier %q", name, kde.RiskTier))
		}
		if kde.ComparisonType != "" && !validComparisonTypes[kde.ComparisonType] {
			errs = append(errs, fmt.Sprintf("kde %q: invalid comparison_type %q", name, kde.ComparisonType))
		}
		if kde.Critical {
			criticalSet[name] = true
		}
	}
	for _, name := range d.CriticalKDEs {
		if _, ok := d.KDEs[name]; !ok {
			errs = append(errs, fmt.Sprintf("critical_kdes references undeclared kde %q", name))
		}
	}

	if !(d.TrustBucketThresholds.Moderate < d.TrustBucketThresholds.High) {
		errs = append(errs, "trust_bucket_thresholds: moderate must be less than high")
	}
	for role, profile := range d.RoleProfiles {
		if !(profile.ModerateThreshold < profile.HighThreshold) {
			errs = append(errs, fmt.Sprintf("role profile %q: moderate threshold must be less than high threshold", role))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	msg := "dqsi config invalid:"
	for _, e := range errs {
		msg += "\n  - " + e
	}
	return fmt.Errorf("%s", msg)
}

// CriticalKDENames returns the union of explicitly declared critical KDEs
// and KDEs marked Critical=true, resolving spec.md §9 open question 3.
func (d DQSIConfig) CriticalKDENames() []string {
	set := make(map[string]bool)
	for _, name := range d.CriticalKDEs {
		set[name] = true
	}
	for name, kde := range d.KDEs {
		if kde.Critical {
			set[name] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names
}
