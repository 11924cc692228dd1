package evidence

import "time"

// Named thresholds replace the magic numbers the mappers would otherwise
// embed inline (spec.md §4.3, §9 "typed configuration object").

const (
	// HighlySuspiciousMinutes: a trade within this many minutes of a
	// price-sensitive news event maps news_timing to its top state.
	HighlySuspiciousMinutes = 5 * time.Minute
	// SuspiciousMinutes: within this window (but outside HighlySuspiciousMinutes)
	// maps news_timing to its middle state.
	SuspiciousMinutes = 60 * time.Minute
)

// MNPI access indicator thresholds (spec.md §4.3).
const (
	mnpiClearIndicatorCount     = 2 // more than this many indicators -> clear (state 2)
	mnpiPotentialIndicatorCount = 1 // at least this many indicators -> potential (state 1)
)

var executiveRoles = map[string]bool{
	"executive": true, "chief_executive": true, "chief_financial_officer": true,
	"chief_investment_officer": true, "managing_director": true,
}

var seniorRoles = map[string]bool{
	"senior_trader": true, "head_of_desk": true, "vice_president": true,
	"director": true,
}

// mapNewsTiming maps the time delta between a trade and the nearest material
// event to the news_timing evidence state.
//
//	2 — within HighlySuspiciousMinutes
//	1 — within SuspiciousMinutes
//	0 — otherwise
func mapNewsTiming(tradeTime time.Time, events []MaterialEvent, instrument string) (int, bool) {
	var nearest time.Duration = -1
	found := false
	for _, ev := range events {
		if !affectsInstrument(ev, instrument) {
			continue
		}
		delta := tradeTime.Sub(ev.Timestamp)
		if delta < 0 {
			delta = -delta
		}
		if !found || delta < nearest {
			nearest = delta
			found = true
		}
	}
	if !found {
		return 0, false
	}
	switch {
	case nearest <= HighlySuspiciousMinutes:
		return 2, true
	case nearest <= SuspiciousMinutes:
		return 1, true
	default:
		return 0, true
	}
}

func affectsInstrument(ev MaterialEvent, instrument string) bool {
	for _, i := range ev.InstrumentsAffected {
		if i == instrument {
			return true
		}
	}
	return false
}

// mapMNPIAccess maps trader role and indicator count to the mnpi_access
// evidence state:
//
//	2 (clear) — executive role, or more than mnpiClearIndicatorCount indicators
//	1 (potential) — senior role, or at least mnpiPotentialIndicatorCount indicators
//	0 — otherwise
func mapMNPIAccess(role string, indicatorCount int) int {
	if executiveRoles[role] || indicatorCount > mnpiClearIndicatorCount {
		return 2
	}
	if seniorRoles[role] || indicatorCount >= mnpiPotentialIndicatorCount {
		return 1
	}
	return 0
}
