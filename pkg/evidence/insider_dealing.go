package evidence

// MapInsiderDealingEvidence maps one batch into the insider-dealing
// typology's evidence states (spec.md §4.3). No comms_intent state is
// produced: communications surveillance is an external collaborator's output
// (spec.md §1 out-of-scope), and the shipped insider_dealing network declares
// no comms_intent node. mnpi_access is omitted when the trader profile
// carries no role, department or access level.
func MapInsiderDealingEvidence(b Batch) EvidenceSet {
	out := EvidenceSet{}

	if s, ok := mapTradePattern(b); ok {
		out["trade_pattern"] = s
	}
	if s, ok := mapPnLDrift(b); ok {
		out["pnl_drift"] = s
	}
	if info := b.TraderInfo; info.Role != "" || info.Department != "" || info.AccessLevel != "" {
		out["mnpi_access"] = mapMNPIAccess(info.Role, mnpiIndicatorCount(info))
	}
	if s, ok := mapNewsTimingForBatch(b); ok {
		out["news_timing"] = s
	}

	return out
}

func mapTradePattern(b Batch) (int, bool) {
	vol := totalVolume(b.Trades, b.TraderInfo.ID)
	if vol.IsZero() {
		return 0, false
	}
	return volumeRatioState(vol, b.MarketData.Volume)
}

func mapPnLDrift(b Batch) (int, bool) {
	states := make([]int, 0, len(b.Trades))
	for _, tr := range b.Trades {
		if tr.TraderID != b.TraderInfo.ID {
			continue
		}
		if s, ok := priceMovementAlignmentState(tr.Side, b.MarketData.PriceMovement); ok {
			states = append(states, s)
		}
	}
	if len(states) == 0 {
		return 0, false
	}
	return maxState(states...)
}

func mapNewsTimingForBatch(b Batch) (int, bool) {
	states := make([]int, 0, len(b.Trades))
	for _, tr := range b.Trades {
		if tr.TraderID != b.TraderInfo.ID {
			continue
		}
		if s, ok := mapNewsTiming(tr.Timestamp, b.MaterialEvents, tr.Instrument); ok {
			states = append(states, s)
		}
	}
	if len(states) == 0 {
		return 0, false
	}
	return maxState(states...)
}
