// Package surveillance wires the node, probability, model, inference, esi,
// dqsi, risk and explain packages into the two pure in-process entry points
// the core exposes (spec.md §6): analyze(batch) and simulate(scenario_type,
// parameters). Everything here is synchronous and CPU-bound; parallelism, if
// any, is across typologies within one request (spec.md §5).
package surveillance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/korinsic/surveillance-core/internal/apperrors"
	"github.com/korinsic/surveillance-core/internal/config"
	"github.com/korinsic/surveillance-core/pkg/alert"
	"github.com/korinsic/surveillance-core/pkg/dqsi"
	"github.com/korinsic/surveillance-core/pkg/esi"
	"github.com/korinsic/surveillance-core/pkg/evidence"
	"github.com/korinsic/surveillance-core/pkg/explain"
	"github.com/korinsic/surveillance-core/pkg/inference"
	"github.com/korinsic/surveillance-core/pkg/model"
	"github.com/korinsic/surveillance-core/pkg/probability"
	"github.com/korinsic/surveillance-core/pkg/risk"
)

// Options are the per-call knobs of spec.md §6.1 analyze(batch).options.
type Options struct {
	// Typologies restricts which typologies run; empty means every registered
	// typology (spec.md §6.1: "typologies[] (default=all)").
	Typologies []string
	// UseLatentIntent selects the latent-intent structural variant where a
	// typology declares one (spec.md §3.4, §4.4).
	UseLatentIntent bool
	// Grouped selects the fan-in-reducing aggregator build (spec.md §4.4).
	Grouped bool
	// IncludeRationale controls whether alerts carry the full explanation
	// narrative/paths, or just the audit-level fields.
	IncludeRationale bool
	// DQSIRole selects a role profile for role-aware DQSI scoring. Empty
	// falls back to the fallback strategy (spec.md §4.8).
	DQSIRole string
}

// TypologyRiskScore is one typology's entry under risk_scores (spec.md
// §6.1 output).
type TypologyRiskScore struct {
	Overall      float64
	Distribution []float64
	Trace        *inference.Trace
	ESI          esi.Result
}

// DQSISummary is the batch-wide dqsi block of spec.md §6.1 output.
type DQSISummary struct {
	Overall             float64
	PerKDE              map[string]float64
	ConfidenceIndex     float64
	TrustBucket         string
	MissingCriticalKDEs []string
}

// Result is the full output of Analyze (spec.md §6.1).
type Result struct {
	AnalysisID string
	Timestamp  time.Time
	RiskScores map[string]TypologyRiskScore
	Alerts     []alert.Record
	DQSI       DQSISummary
	// DisabledTypologies records typologies that failed to construct this
	// request, keyed by name (spec.md §4.12 audit-header warning).
	DisabledTypologies map[string]string
}

// Engine is the process-wide, immutable wiring of every core component
// (spec.md §9: "process-wide immutable configuration + registry;
// initialization is a single scoped operation"). Construct one Engine at
// startup and reuse it for every request.
type Engine struct {
	registry      *model.Registry
	probability   *probability.Store
	dqsiConfig    config.DQSIConfig
	typologies    config.ModelsConfig
	esiWeights    esi.Weights
	templates     explain.Templates
	modelVersion  string
	configVersion string
}

// NewEngine builds the process-wide engine from loaded configuration.
func NewEngine(cfg *config.Config, templates explain.Templates, modelVersion, configVersion string) *Engine {
	probStore := probability.New(cfg.Probability)
	return &Engine{
		registry:      model.NewRegistry(cfg.Models, probStore),
		probability:   probStore,
		dqsiConfig:    cfg.DQSI,
		typologies:    cfg.Models,
		esiWeights:    esi.DefaultWeights,
		templates:     templates,
		modelVersion:  modelVersion,
		configVersion: configVersion,
	}
}

func (e *Engine) targetTypologies(opts Options) []string {
	if len(opts.Typologies) > 0 {
		return opts.Typologies
	}
	return e.registry.RegisteredTypologies()
}

type typologyOutcome struct {
	typology string
	score    TypologyRiskScore
	input    risk.Input
	explain  explain.Explanation
	err      error
}

// Analyze runs the full infer→ESI→DQSI→aggregate→explain pipeline over one
// batch (spec.md §6.1). Each typology's inference is an independent
// cooperative unit of work; this is the one place the core fans work out
// across goroutines, per spec.md §5.
func (e *Engine) Analyze(ctx context.Context, batch evidence.Batch, opts Options) (*Result, error) {
	analysisID := uuid.NewString()
	now := time.Now().UTC()

	targets := e.targetTypologies(opts)
	kdeNames := make([]string, 0, len(e.dqsiConfig.KDEs))
	for name := range e.dqsiConfig.KDEs {
		kdeNames = append(kdeNames, name)
	}
	observations := observeKDEs(batch, kdeNames)
	dqsiStrategy := dqsi.StrategyFallback
	if opts.DQSIRole != "" {
		dqsiStrategy = dqsi.StrategyRoleAware
	}
	dqsiResult := dqsi.Calculate(e.dqsiConfig, observations, dqsi.Options{
		Strategy:         dqsiStrategy,
		Role:             opts.DQSIRole,
		TimestampKDEs:    []string{"order_timestamp", "trade_time"},
		VolumeRatioScore: volumeRatioScore(batch),
		ScopeRatioScore:  scopeRatioScore(batch),
	})

	outcomes := make([]typologyOutcome, len(targets))
	group, _ := errgroup.WithContext(ctx)
	for i, typology := range targets {
		i, typology := i, typology
		group.Go(func() error {
			outcomes[i] = e.analyzeOne(typology, batch, opts, *dqsiResult)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	riskScores := make(map[string]TypologyRiskScore, len(targets))
	disabled := make(map[string]string)
	var inputs []risk.Input
	succeeded := make(map[string]typologyOutcome, len(targets))

	for _, out := range outcomes {
		if out.err != nil {
			disabled[out.typology] = out.err.Error()
			continue
		}
		riskScores[out.typology] = out.score
		inputs = append(inputs, out.input)
		succeeded[out.typology] = out
	}

	aggregate := risk.Aggregate(inputs)
	alerts := e.buildAlerts(aggregate, batch, dqsiResult, succeeded, opts)

	return &Result{
		AnalysisID: analysisID,
		Timestamp:  now,
		RiskScores: riskScores,
		Alerts:     alerts,
		DQSI: DQSISummary{
			Overall:             dqsiResult.Score,
			PerKDE:              dqsiResult.PerKDEScores,
			ConfidenceIndex:     dqsiResult.ConfidenceIndex,
			TrustBucket:         dqsiResult.TrustBucket,
			MissingCriticalKDEs: dqsiResult.MissingCritical,
		},
		DisabledTypologies: disabled,
	}, nil
}

// analyzeOne runs one typology's inference, ESI, and rationale build. It
// never returns a partial TypologyRiskScore: either every field is populated
// or err is non-nil (spec.md §4.12: model-construction/inference failure
// disables only this typology).
func (e *Engine) analyzeOne(typology string, batch evidence.Batch, opts Options, dqsiResult dqsi.Result) typologyOutcome {
	m, err := e.registry.CreateModel(typology, model.BuildOptions{
		UseLatentIntent: opts.UseLatentIntent,
		Grouped:         opts.Grouped,
	})
	if err != nil {
		return typologyOutcome{typology: typology, err: err}
	}

	mapper, ok := evidence.Mappers[typology]
	if !ok {
		return typologyOutcome{typology: typology, err: apperrors.New(apperrors.ErrModelUnknown,
			"no evidence mapper registered for typology "+typology)}
	}
	evidenceSet := mapper(batch)

	trace, err := inference.Infer(m, evidenceSet)
	if err != nil {
		return typologyOutcome{typology: typology, err: err}
	}

	esiResult := esi.Calculate(m, trace, e.esiWeights)

	typCfg := e.typologies.Typologies[typology]
	header := explain.AuditHeader{
		ModelName:           typology,
		ModelVersion:        e.modelVersion,
		ConfigVersion:       e.configVersion,
		ProcessingTimestamp: time.Now().UTC(),
		TraceID:             uuid.NewString(),
	}
	explanation := explain.Build(m, typCfg, e.probability, trace, e.templates, header)

	multipliers := contextualMultipliers(batch)
	input := risk.Input{
		Typology:          typology,
		OutcomePosterior:  trace.OutcomePosterior,
		Weight:            m.Weight,
		Multipliers:       multipliers,
		NewsContextFactor: newsContextFactor(batch),
		ESI:               esiResult,
		DQSI:              dqsiResult,
	}

	return typologyOutcome{
		typology: typology,
		score: TypologyRiskScore{
			Overall:      trace.OutcomePosterior[len(trace.OutcomePosterior)-1],
			Distribution: trace.OutcomePosterior,
			Trace:        trace,
			ESI:          esiResult,
		},
		input:   input,
		explain: explanation,
	}
}

// contextualMultipliers derives the role/volume/market-condition multipliers
// of spec.md §4.9 step 2 from the batch itself. Each is clamped to [0.5,2.0]
// by the aggregator regardless of what is returned here.
func contextualMultipliers(batch evidence.Batch) []float64 {
	multipliers := []float64{1.0}
	if batch.MarketData.Volatility > 0 {
		multipliers = append(multipliers, 1.0+batch.MarketData.Volatility)
	}
	if !batch.MarketData.MarketHours {
		multipliers = append(multipliers, 1.2)
	}
	return multipliers
}
