package surveillance

import (
	"github.com/korinsic/surveillance-core/pkg/dqsi"
	"github.com/korinsic/surveillance-core/pkg/evidence"
)

// observeKDEs derives one Observation per configured KDE name from the raw
// batch's own completeness: a KDE is present when the batch actually carries
// the field it names, which is the same totality contract the evidence
// mappers use (spec.md testable property 8) applied to data-quality scoring
// rather than node-state scoring.
func observeKDEs(batch evidence.Batch, kdeNames []string) map[string]dqsi.Observation {
	present := map[string]bool{
		"trader_id":         batch.TraderInfo.ID != "",
		"trader_role":       batch.TraderInfo.Role != "",
		"trader_department": batch.TraderInfo.Department != "",
		"access_level":      batch.TraderInfo.AccessLevel != "",
		"supervisors":       len(batch.TraderInfo.Supervisors) > 0,
		"order_timestamp":   anyOrderTimestamped(batch),
		"trade_time":        anyTradeTimestamped(batch),
		"notional":          anyTradePriced(batch),
		"instrument":        anyInstrumentNamed(batch),
		"side":              len(batch.Trades) > 0 || len(batch.Orders) > 0,
		"material_events":   len(batch.MaterialEvents) > 0,
		"market_volatility": batch.MarketData.Volatility != 0,
		"market_volume":     !batch.MarketData.Volume.IsZero(),
		"market_liquidity":  batch.MarketData.Liquidity != 0,
	}

	observations := make(map[string]dqsi.Observation, len(kdeNames))
	for _, name := range kdeNames {
		observations[name] = dqsi.Observation{Present: present[name]}
	}
	return observations
}

func anyOrderTimestamped(batch evidence.Batch) bool {
	for _, o := range batch.Orders {
		if !o.Timestamp.IsZero() {
			return true
		}
	}
	return false
}

func anyTradeTimestamped(batch evidence.Batch) bool {
	for _, t := range batch.Trades {
		if !t.Timestamp.IsZero() {
			return true
		}
	}
	return false
}

func anyTradePriced(batch evidence.Batch) bool {
	for _, t := range batch.Trades {
		if !t.Price.IsZero() {
			return true
		}
	}
	return false
}

func anyInstrumentNamed(batch evidence.Batch) bool {
	for _, t := range batch.Trades {
		if t.Instrument != "" {
			return true
		}
	}
	for _, o := range batch.Orders {
		if o.Instrument != "" {
			return true
		}
	}
	return false
}

// volumeRatioScore and scopeRatioScore feed the synthetic_coverage KDE
// (spec.md §4.8): how much of the batch's declared scope (trades vs orders,
// instruments vs the full universe touched) was actually populated.
func volumeRatioScore(batch evidence.Batch) float64 {
	if len(batch.Orders) == 0 {
		if len(batch.Trades) == 0 {
			return 0
		}
		return 1
	}
	filled := 0
	for _, o := range batch.Orders {
		if o.Status == evidence.OrderStatusFilled {
			filled++
		}
	}
	return float64(filled) / float64(len(batch.Orders))
}

func scopeRatioScore(batch evidence.Batch) float64 {
	instruments := map[string]bool{}
	for _, t := range batch.Trades {
		instruments[t.Instrument] = true
	}
	for _, o := range batch.Orders {
		instruments[o.Instrument] = true
	}
	if len(instruments) == 0 {
		return 0
	}
	return 1
}
