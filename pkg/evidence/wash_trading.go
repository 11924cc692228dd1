package evidence

import "time"

const washTradeWindow = 10 * time.Minute

// MapWashTradingEvidence maps trade activity into the wash-trading
// typology's evidence states: repeated same-instrument buy/sell pairs close
// together in time, with little net economic exposure, are the hallmark.
func MapWashTradingEvidence(b Batch) EvidenceSet {
	out := EvidenceSet{}
	if s, ok := mapSelfCrossPattern(b); ok {
		out["self_cross_pattern"] = s
	}
	if s, ok := mapNetExposureNeutrality(b); ok {
		out["net_exposure_neutrality"] = s
	}
	return out
}

// mapSelfCrossPattern counts opposite-side trade pairs in the same
// instrument within washTradeWindow of each other.
func mapSelfCrossPattern(b Batch) (int, bool) {
	var subject []Trade
	for _, tr := range b.Trades {
		if tr.TraderID == b.TraderInfo.ID {
			subject = append(subject, tr)
		}
	}
	if len(subject) < 2 {
		return 0, false
	}
	pairs := 0
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
			if delta <= washTradeWindow {
				pairs++
			}
		}
	}
	switch {
	case pairs >= 3:
		return 2, true
	case pairs >= 1:
		return 1, true
	default:
		return 0, true
	}
}

// mapNetExposureNeutrality maps how close the subject's net buy/sell volume
// is to zero relative to gross volume traded: wash trades net out exposure
// while still generating reportable volume.
func mapNetExposureNeutrality(b Batch) (int, bool) {
	net := 0.0
	gross := 0.0
	found := false
	for _, tr := range b.Trades {
		if tr.TraderID != b.TraderInfo.ID {
			continue
		}
		found = true
		v, _ := tr.Volume.Float64()
		gross += v
		if tr.Side == SideBuy {
			net += v
		} else {
			net -= v
		}
	}
	if !found || gross == 0 {
		return 0, false
	}
	if net < 0 {
		net = -net
	}
	ratio := net / gross
	switch {
	case ratio <= 0.1:
		return 2, true
	case ratio <= 0.3:
		return 1, true
	default:
		return 0, true
	}
}
