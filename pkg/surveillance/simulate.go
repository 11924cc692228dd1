package surveillance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/korinsic/surveillance-core/internal/apperrors"
	"github.com/korinsic/surveillance-core/pkg/evidence"
)

// ScenarioType names a synthetic batch preset (spec.md §6.2). The lettered
// scenarios reproduce the boundary scenarios of spec.md §8; the typology
// names generate a generic high-evidence batch for that typology alone.
type ScenarioType string

const (
	ScenarioInsiderDealingLatentIntent ScenarioType = "scenario_a"
	ScenarioSpoofingSparse             ScenarioType = "scenario_b"
	ScenarioAllEvidenceAbsent          ScenarioType = "scenario_c"
	ScenarioCriticalKDEMissing         ScenarioType = "scenario_d"
	ScenarioNewsContextSuppression     ScenarioType = "scenario_e"
)

// SimulateParams parameterizes a synthetic batch build (spec.md §6.2). Zero
// values fall back to scenario-appropriate defaults.
type SimulateParams struct {
	TraderID     string
	Instrument   string
	Timestamp    time.Time
	MarketVolume decimal.Decimal
	TradeVolume  decimal.Decimal
	TradePrice   decimal.Decimal
}

func (p SimulateParams) withDefaults() SimulateParams {
	if p.TraderID == "" {
		p.TraderID = "trader-001"
	}
	if p.Instrument == "" {
		p.Instrument = "ACME"
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC)
	}
	if p.MarketVolume.IsZero() {
		p.MarketVolume = decimal.NewFromInt(1_000_000)
	}
	if p.TradeVolume.IsZero() {
		p.TradeVolume = decimal.NewFromInt(100_000)
	}
	if p.TradePrice.IsZero() {
		p.TradePrice = decimal.NewFromInt(50)
	}
	return p
}

// Simulate generates a synthetic batch for the named scenario (spec.md
// §6.2), for use as test or demonstration input to Analyze.
func Simulate(scenario ScenarioType, params SimulateParams) (evidence.Batch, error) {
	p := params.withDefaults()
	switch scenario {
	case ScenarioInsiderDealingLatentIntent:
		return insiderDealingBatch(p, true), nil
	case ScenarioSpoofingSparse:
		return spoofingSparseBatch(p), nil
	case ScenarioAllEvidenceAbsent:
		return emptyBatch(p), nil
	case ScenarioCriticalKDEMissing:
		b := insiderDealingBatch(p, false)
		b.TraderInfo.ID = ""
		return b, nil
	case ScenarioNewsContextSuppression:
		b := insiderDealingBatch(p, false)
		b.MaterialEvents = append(b.MaterialEvents, evidence.MaterialEvent{
			ID:                  "event-1",
			Timestamp:           p.Timestamp,
			Type:                "earnings_announcement",
			InstrumentsAffected: []string{p.Instrument},
			MaterialityScore:    0.9,
		})
		return b, nil
	default:
		if _, ok := evidence.Mappers[string(scenario)]; ok {
			return insiderDealingBatch(p, false), nil
		}
		return evidence.Batch{}, apperrors.New(apperrors.ErrValidation,
			"unknown simulate scenario_type "+string(scenario))
	}
}

// insiderDealingBatch builds the high-evidence insider-dealing batch of
// boundary scenario A: large volume relative to the market, a price move
// aligned with the trade's side, an executive trader with no supervisory
// oversight, and a trade shortly after a material event.
func insiderDealingBatch(p SimulateParams, withNewsTiming bool) evidence.Batch {
	eventTime := p.Timestamp.Add(-2 * time.Minute)
	batch := evidence.Batch{
		Trades: []evidence.Trade{
			{
				ID:         "trade-1",
				Timestamp:  p.Timestamp,
				Instrument: p.Instrument,
				Volume:     p.TradeVolume,
				Price:      p.TradePrice,
				Side:       evidence.SideBuy,
				TraderID:   p.TraderID,
			},
		},
		TraderInfo: evidence.TraderInfo{
			ID:          p.TraderID,
			Name:        "Simulated Trader",
			Role:        "executive",
			Department:  "trading",
			AccessLevel: "privileged",
			StartDate:   p.Timestamp.AddDate(-5, 0, 0),
		},
		MarketData: evidence.MarketData{
			Volatility:    0.3,
			Volume:        p.MarketVolume,
			PriceMovement: 0.05,
			Liquidity:     0.6,
			MarketHours:   true,
		},
	}
	if withNewsTiming {
		batch.MaterialEvents = []evidence.MaterialEvent{
			{
				ID:                  "event-1",
				Timestamp:           eventTime,
				Type:                "earnings_announcement",
				InstrumentsAffected: []string{p.Instrument},
				MaterialityScore:    0.9,
			},
		}
	}
	return batch
}

// spoofingSparseBatch builds boundary scenario B: only order-side evidence
// (clustering, cancellation), no trades, no material events.
func spoofingSparseBatch(p SimulateParams) evidence.Batch {
	orders := make([]evidence.Order, 0, 10)
	for i := 0; i < 9; i++ {
		status := evidence.OrderStatusCancelled
		if i%4 == 0 {
			status = evidence.OrderStatusFilled
		}
		orders = append(orders, evidence.Order{
			ID:         fmt.Sprintf("order-%s-%d", p.TraderID, i),
			Timestamp:  p.Timestamp.Add(time.Duration(i) * time.Minute),
			Instrument: p.Instrument,
			Size:       p.TradeVolume,
			Price:      p.TradePrice,
			Side:       evidence.SideSell,
			Status:     status,
			TraderID:   p.TraderID,
		})
	}
	return evidence.Batch{
		Orders: orders,
		TraderInfo: evidence.TraderInfo{
			ID:   p.TraderID,
			Role: "trader",
		},
		MarketData: evidence.MarketData{
			Volume:      p.MarketVolume,
			MarketHours: true,
		},
	}
}

// emptyBatch builds boundary scenario C: a well-formed batch with no trades,
// orders or material events and a trader profile carrying only its ID.
func emptyBatch(p SimulateParams) evidence.Batch {
	return evidence.Batch{
		TraderInfo: evidence.TraderInfo{ID: p.TraderID},
		MarketData: evidence.MarketData{Volume: p.MarketVolume},
	}
}
