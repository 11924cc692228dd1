package evidence

// MapEconomicWithholdingEvidence maps order behavior into the
// economic-withholding typology's evidence states: capacity withheld from
// the market (orders placed then not filled) during periods of market
// stress. Order prices are not compared against the prevailing level.
func MapEconomicWithholdingEvidence(b Batch) EvidenceSet {
	out := EvidenceSet{}
	if s, ok := mapUnexecutedCapacity(b); ok {
		out["unexecuted_capacity"] = s
	}
	out["stress_period_correlation"] = mapStressPeriodCorrelation(b.MarketData)
	return out
}

func mapUnexecutedCapacity(b Batch) (int, bool) {
	total, unexecuted := 0, 0
	for _, o := range b.Orders {
		if o.TraderID != b.TraderInfo.ID {
			continue
		}
		total++
		if o.Status != OrderStatusFilled {
			unexecuted++
		}
	}
	if total == 0 {
		return 0, false
	}
	ratio := float64(unexecuted) / float64(total)
	switch {
	case ratio >= 0.7:
		return 2, true
	case ratio >= 0.4:
		return 1, true
	default:
		return 0, true
	}
}

// mapStressPeriodCorrelation: high volatility combined with low liquidity is
// when withheld capacity has the greatest price impact.
func mapStressPeriodCorrelation(md MarketData) int {
	switch {
	case md.Volatility >= 0.7 && md.Liquidity <= 0.3:
		return 2
	case md.Volatility >= 0.4 || md.Liquidity <= 0.5:
		return 1
	default:
		return 0
	}
}
