package evidence

import "time"

const circularRoundTripWindow = 30 * time.Minute

// MapCircularTradingEvidence maps trade activity into the circular-trading
// typology's evidence states: round-trip trades concentrated in a narrow
// time window and in a small set of instruments. A full multi-account
// cycle-detection layer needs identity resolution across counterparties,
// which is an external collaborator's output (spec.md §1); this mapper
// scores the single-subject signals the core batch actually carries.
func MapCircularTradingEvidence(b Batch) EvidenceSet {
	out := EvidenceSet{}
	if s, ok := mapRoundTripFrequency(b); ok {
		out["round_trip_frequency"] = s
	}
	if s, ok := mapInstrumentConcentration(b); ok {
		out["instrument_concentration"] = s
	}
	return out
}

func mapRoundTripFrequency(b Batch) (int, bool) {
	var subject []Trade
	for _, tr := range b.Trades {
		if tr.TraderID == b.TraderInfo.ID {
			subject = append(subject, tr)
		}
	}
	if len(subject) < 2 {
		return 0, false
	}
	roundTrips := 0
	for i := range subject {
		for j := i + 1; j < len(subject); j++ {
			a, c := subject[i], subject[j]
			if a.Instrument != c.Instrument || a.Side == c.Side {
				continue
			}
			delta := a.Timestamp.Sub(c.Timestamp)
			if delta < 0 {
				delta = -delta
			}
			if delta <= circularRoundTripWindow {
				roundTrips++
			}
		}
	}
	switch {
	case roundTrips >= 4:
		return 2, true
	case roundTrips >= 2:
		return 1, true
	default:
		return 0, true
	}
}

func mapInstrumentConcentration(b Batch) (int, bool) {
	counts := map[string]int{}
	total := 0
	for _, tr := range b.Trades {
		if tr.TraderID != b.TraderInfo.ID {
			continue
		}
		counts[tr.Instrument]++
		total++
	}
	if total == 0 {
		return 0, false
	}
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	ratio := float64(max) / float64(total)
	switch {
	case ratio >= 0.8:
		return 2, true
	case ratio >= 0.5:
		return 1, true
	default:
		return 0, true
	}
}
