package surveillance

import (
	"sort"

	"github.com/google/uuid"

	"github.com/korinsic/surveillance-core/pkg/alert"
	"github.com/korinsic/surveillance-core/pkg/dqsi"
	"github.com/korinsic/surveillance-core/pkg/evidence"
	"github.com/korinsic/surveillance-core/pkg/explain"
	"github.com/korinsic/surveillance-core/pkg/risk"
)

// buildAlerts emits one alert per typology whose aggregated risk reached a
// severity above LOW (spec.md §3.8: "emitted when aggregated risk or a
// per-typology posterior exceeds a severity threshold"). Scenario C (all
// evidence absent, severity LOW) deliberately produces no alert.
func (e *Engine) buildAlerts(aggregate risk.Result, batch evidence.Batch, dqsiResult *dqsi.Result, succeeded map[string]typologyOutcome, opts Options) []alert.Record {
	var records []alert.Record
	for _, tr := range aggregate.Typologies {
		if tr.Severity == risk.SeverityLow {
			continue
		}
		out, ok := succeeded[tr.Typology]
		if !ok {
			continue
		}

		frameworks := regulatoryFrameworksOf(out.explain)
		instruments := instrumentsFor(batch, batch.TraderInfo.ID)

		a := alert.Alert{
			ID:                   uuid.NewString(),
			Typology:             tr.Typology,
			Severity:             tr.Severity,
			Probability:          tr.RawRisk,
			TraderID:             batch.TraderInfo.ID,
			Instruments:          instruments,
			Involved:             []string{batch.TraderInfo.ID},
			Evidence:             evidence.Mappers[tr.Typology](batch),
			HighRiskNodes:        out.score.Trace.HighRiskNodes,
			CriticalNodes:        out.score.Trace.CriticalNodes,
			ESIScore:             out.score.ESI.EvidenceSufficiencyIndex,
			ESIBadge:             out.score.ESI.ESIBadge,
			RegulatoryFrameworks: frameworks,
			DQSIScore:            dqsiResult.Score,
			DQSIConfidenceIndex:  dqsiResult.ConfidenceIndex,
			DQSITrustBucket:      dqsiResult.TrustBucket,
		}
		if opts.IncludeRationale {
			a.Explanation = out.explain
		}

		records = append(records, alert.New(a))
	}
	return records
}

func regulatoryFrameworksOf(explanation explain.Explanation) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range explanation.Paths {
		if p.RegulatoryTag == "" || seen[p.RegulatoryTag] {
			continue
		}
		seen[p.RegulatoryTag] = true
		out = append(out, p.RegulatoryTag)
	}
	sort.Strings(out)
	return out
}

func instrumentsFor(batch evidence.Batch, traderID string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range batch.Trades {
		if t.TraderID != traderID || t.Instrument == "" || seen[t.Instrument] {
			continue
		}
		seen[t.Instrument] = true
		out = append(out, t.Instrument)
	}
	sort.Strings(out)
	return out
}
