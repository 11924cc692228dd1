// Package evidence implements the deterministic raw→state mapping functions
// that turn one analyze() batch (spec.md §6.1) into the discrete evidence
// states each typology model consumes (spec.md §4.3). Every mapper is total
// over its declared inputs: a missing or malformed field never raises, it
// simply omits the corresponding node so the fallback engine supplies its
// prior (spec.md testable property 8).
package evidence

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the buy/sell direction of a trade or order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRejected  OrderStatus = "rejected"
)

// Trade is one executed trade (spec.md §6.1 trades[]).
type Trade struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp_iso"`
	Instrument string          `json:"instrument"`
	Volume     decimal.Decimal `json:"volume"`
	Price      decimal.Decimal `json:"price"`
	Side       Side            `json:"side"`
	TraderID   string          `json:"trader_id"`
}

// Notional returns price × volume.
func (t Trade) Notional() decimal.Decimal {
	return t.Price.Mul(t.Volume)
}

// Order is one order event (spec.md §6.1 orders[]).
type Order struct {
	ID                    string          `json:"id"`
	Timestamp             time.Time       `json:"timestamp_iso"`
	Instrument            string          `json:"instrument"`
	Size                  decimal.Decimal `json:"size"`
	Price                 decimal.Decimal `json:"price"`
	Side                  Side            `json:"side"`
	Status                OrderStatus     `json:"status"`
	TraderID              string          `json:"trader_id"`
	CancellationTimestamp *time.Time      `json:"cancellation_timestamp,omitempty"`
}

// TraderInfo describes the subject of the analysis (spec.md §6.1 trader_info).
type TraderInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Department  string    `json:"department"`
	AccessLevel string    `json:"access_level"`
	StartDate   time.Time `json:"start_date"`
	Supervisors []string  `json:"supervisors"`
}

// MaterialEvent is a price-sensitive event (spec.md §6.1 material_events[]).
type MaterialEvent struct {
	ID                  string    `json:"id"`
	Timestamp           time.Time `json:"timestamp_iso"`
	Type                string    `json:"type"`
	InstrumentsAffected []string  `json:"instruments_affected"`
	MaterialityScore    float64   `json:"materiality_score"`
}

// MarketData is the ambient market-condition snapshot (spec.md §6.1 market_data).
type MarketData struct {
	Volatility    float64         `json:"volatility"`
	Volume        decimal.Decimal `json:"volume"`
	PriceMovement float64         `json:"price_movement"`
	Liquidity     float64         `json:"liquidity"`
	MarketHours   bool            `json:"market_hours"`
}

// Batch is the full analyze() input (spec.md §6.1).
type Batch struct {
	Trades         []Trade         `json:"trades"`
	Orders         []Order         `json:"orders"`
	TraderInfo     TraderInfo      `json:"trader_info"`
	MaterialEvents []MaterialEvent `json:"material_events"`
	MarketData     MarketData      `json:"market_data"`
}

// EvidenceSet is `{node_name → state_index}` restricted to evidence nodes of
// the target model (spec.md §3.5). Nodes absent from the set are left for
// the fallback engine.
type EvidenceSet map[string]int
