package evidence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMapInsiderDealingEvidence_totality(t *testing.T) {
	b := Batch{TraderInfo: TraderInfo{ID: "trader-1"}}
	out := MapInsiderDealingEvidence(b)

	// No trades, no material events, and a trader profile with no role,
	// department or access level: every node is absent, mnpi_access
	// included, so the fallback engine supplies each prior.
	assert.NotContains(t, out, "trade_pattern")
	assert.NotContains(t, out, "pnl_drift")
	assert.NotContains(t, out, "news_timing")
	assert.NotContains(t, out, "comms_intent")
	assert.NotContains(t, out, "mnpi_access")
}

func TestMapInsiderDealingEvidence_highlySuspiciousNewsTiming(t *testing.T) {
	eventTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tradeTime := eventTime.Add(2 * time.Minute)

	b := Batch{
		TraderInfo: TraderInfo{ID: "trader-1", Role: "executive", Department: "trading", AccessLevel: "privileged"},
		Trades: []Trade{
			{ID: "t1", TraderID: "trader-1", Instrument: "ACME", Timestamp: tradeTime,
				Volume: decimal.NewFromInt(1000), Price: decimal.NewFromInt(10), Side: SideBuy},
		},
		MaterialEvents: []MaterialEvent{
			{ID: "e1", Timestamp: eventTime, Type: "earnings", InstrumentsAffected: []string{"ACME"}, MaterialityScore: 0.9},
		},
		MarketData: MarketData{Volume: decimal.NewFromInt(10000), PriceMovement: 0.05},
	}

	out := MapInsiderDealingEvidence(b)
	assert.Equal(t, 2, out["news_timing"])
	assert.Equal(t, 2, out["mnpi_access"])
	assert.Equal(t, 2, out["trade_pattern"])
}

func TestMapMNPIAccess(t *testing.T) {
	cases := []struct {
		role       string
		indicators int
		want       int
	}{
		{"executive", 0, 2},
		{"trader", 3, 2},
		{"senior_trader", 0, 1},
		{"trader", 1, 1},
		{"trader", 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mapMNPIAccess(tc.role, tc.indicators))
	}
}
