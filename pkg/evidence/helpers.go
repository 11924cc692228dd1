package evidence

import (
	"github.com/shopspring/decimal"
)

// Volume-ratio thresholds shared by several typologies' trade_pattern-style
// mappers: a trade whose size is a large fraction of the day's traded
// volume is treated as more suspicious.
const (
	largeVolumeRatioHigh   = 0.05
	largeVolumeRatioMedium = 0.02
)

// Price-movement alignment thresholds for pnl_drift-style mappers.
const (
	priceMovementHigh   = 0.03
	priceMovementMedium = 0.01
)

var sensitiveDepartments = map[string]bool{
	"trading": true, "research": true, "investment_banking": true, "m_and_a": true,
}

var privilegedAccessLevels = map[string]bool{
	"privileged": true, "executive": true, "elevated": true,
}

// maxState returns the highest observed state among the given values,
// ignoring any equal to -1 (sentinel for "not observed"). Returns (-1,
// false) if every value is unobserved.
func maxState(states ...int) (int, bool) {
	best := -1
	found := false
	for _, s := range states {
		if s < 0 {
			continue
		}
		if !found || s > best {
			best = s
			found = true
		}
	}
	return best, found
}

// totalVolume sums the volume of every trade for the given trader.
func totalVolume(trades []Trade, traderID string) decimal.Decimal {
	sum := decimal.Zero
	for _, tr := range trades {
		if tr.TraderID == traderID {
			sum = sum.Add(tr.Volume)
		}
	}
	return sum
}

// volumeRatioState maps a trade's share of the day's market volume to a
// 3-state evidence level.
func volumeRatioState(tradeVolume, marketVolume decimal.Decimal) (int, bool) {
	if marketVolume.IsZero() || marketVolume.IsNegative() {
		return 0, false
	}
	ratio, _ := tradeVolume.Div(marketVolume).Float64()
	switch {
	case ratio >= largeVolumeRatioHigh:
		return 2, true
	case ratio >= largeVolumeRatioMedium:
		return 1, true
	default:
		return 0, true
	}
}

// priceMovementAlignmentState maps how strongly a trade's side agrees with
// the ambient price movement to a 3-state evidence level. A buy during a
// rising market (or a sell during a falling one) is the aligned case.
func priceMovementAlignmentState(side Side, priceMovement float64) (int, bool) {
	aligned := priceMovement
	if side == SideSell {
		aligned = -priceMovement
	}
	switch {
	case aligned >= priceMovementHigh:
		return 2, true
	case aligned >= priceMovementMedium:
		return 1, true
	default:
		return 0, true
	}
}

// mnpiIndicatorCount derives a simple indicator count for mapMNPIAccess from
// the fields the core does have visibility into: departmental sensitivity,
// access-level privilege, and tenure.
func mnpiIndicatorCount(info TraderInfo) int {
	count := 0
	if sensitiveDepartments[info.Department] {
		count++
	}
	if privilegedAccessLevels[info.AccessLevel] {
		count++
	}
	if len(info.Supervisors) == 0 {
		// no supervisory oversight on record is itself a weak indicator
		count++
	}
	return count
}

// cancellationRatio computes the share of a trader's orders in the batch
// that were cancelled.
func cancellationRatio(orders []Order, traderID string) (float64, bool) {
	total, cancelled := 0, 0
	for _, o := range orders {
		if o.TraderID != traderID {
			continue
		}
		total++
		if o.Status == OrderStatusCancelled {
			cancelled++
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(cancelled) / float64(total), true
}
