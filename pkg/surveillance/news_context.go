package surveillance

import (
	"github.com/korinsic/surveillance-core/pkg/evidence"
)

// newsContextFactor implements Scenario E's suppression rule (spec.md §8): a
// high-materiality event contemporaneous with the trader's activity fully
// explains an otherwise-suspicious move, so the typology's weighted risk is
// suppressed rather than escalated (spec.md §4.9 step 3).
const (
	newsContextFullExplanationMateriality = 0.8
	newsContextFullSuppression            = 0.5
	newsContextPartialSuppression         = 0.75
	newsContextNoSuppression              = 1.0
)

// newsContextFactor scans the trader's own trades against the batch's
// material events and returns the most suppressive factor that applies to
// any of them: a single fully-explaining event is enough to suppress the
// whole typology's weighted risk for this request.
func newsContextFactor(batch evidence.Batch) float64 {
	factor := newsContextNoSuppression
	for _, tr := range batch.Trades {
		if tr.TraderID != batch.TraderInfo.ID {
			continue
		}
		for _, ev := range batch.MaterialEvents {
			if !eventAffects(ev, tr.Instrument) {
				continue
			}
			if !contemporaneous(tr, ev) {
				continue
			}
			if ev.MaterialityScore >= newsContextFullExplanationMateriality {
				factor = min(factor, newsContextFullSuppression)
			} else if ev.MaterialityScore > 0 {
				factor = min(factor, newsContextPartialSuppression)
			}
		}
	}
	return factor
}

func eventAffects(ev evidence.MaterialEvent, instrument string) bool {
	for _, i := range ev.InstrumentsAffected {
		if i == instrument {
			return true
		}
	}
	return false
}

func contemporaneous(tr evidence.Trade, ev evidence.MaterialEvent) bool {
	delta := tr.Timestamp.Sub(ev.Timestamp)
	if delta < 0 {
		delta = -delta
	}
	return delta <= evidence.SuspiciousMinutes
}
