// Package config loads and validates the three configuration documents the
// surveillance core treats as its single source of truth: the bayesian
// model topology, the probability tables, and the DQSI scoring rules. All
// three are plain YAML, loaded once at process startup via spf13/viper and
// never reloaded at runtime (spec.md §9 — no runtime reload).
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/viper"

	"github.com/korinsic/surveillance-core/internal/apperrors"
)

const tolerance = 1e-6

// Env vars that override the default config file paths, checked by loadFromEnv.
const (
	EnvModelsConfig      = "KORINSIC_MODELS_CONFIG"
	EnvProbabilityConfig = "KORINSIC_PROBABILITY_CONFIG"
	EnvDQSIConfig        = "KORINSIC_DQSI_CONFIG"
)

// Paths bundles the three file locations Load reads from.
type Paths struct {
	Models      string
	Probability string
	DQSI        string
}

// DefaultPaths returns the conventional on-disk layout under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Models:      dir + "/bayesian_models.yaml",
		Probability: dir + "/probability_config.yaml",
		DQSI:        dir + "/dqsi_config.yaml",
	}
}

// loadFromEnv overrides any path whose corresponding environment variable is set.
func loadFromEnv(p Paths) Paths {
	if v := os.Getenv(EnvModelsConfig); v != "" {
		p.Models = v
	}
	if v := os.Getenv(EnvProbabilityConfig); v != "" {
		p.Probability = v
	}
	if v := os.Getenv(EnvDQSIConfig); v != "" {
		p.DQSI = v
	}
	return p
}

// Config is the fully loaded and validated process-wide configuration.
type Config struct {
	Models      ModelsConfig
	Probability ProbabilityConfig
	DQSI        DQSIConfig
}

// Load reads, unmarshals and validates all three configuration documents.
// A failure anywhere is fatal (spec.md §4.12): it returns an error wrapping
// apperrors.ErrConfigInvalid (E_CONFIG_INVALID).
func Load(p Paths) (*Config, error) {
	p = loadFromEnv(p)

	models, err := loadYAML[ModelsConfig](p.Models)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrConfigInvalid,
			"loading bayesian models config from %s", p.Models)
	}
	probability, err := loadYAML[ProbabilityConfig](p.Probability)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrConfigInvalid,
			"loading probability config from %s", p.Probability)
	}
	dqsi, err := loadYAML[DQSIConfig](p.DQSI)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrConfigInvalid,
			"loading dqsi config from %s", p.DQSI)
	}

	cfg := &Config{Models: *models, Probability: *probability, DQSI: *dqsi}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML[T any](path string) (*T, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var out T
	if err := v.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &out, nil
}

// validate runs arithmetic and schema checks across all three documents and
// accumulates every failure into a single Chain'd error rather than
// stopping at the first.
func (c *Config) validate() error {
	var errs []error
	errs = append(errs, c.Models.validate())
	errs = append(errs, c.Probability.validate())
	errs = append(errs, c.DQSI.validate())

	if err := apperrors.Chain(errs...); err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfigInvalid, "configuration validation failed")
	}
	return nil
}

func sumsToOne(values []float64) bool {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return math.Abs(sum-1.0) <= tolerance
}
